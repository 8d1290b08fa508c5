// timezonedb/response.go
package timezonedb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const apiStatusFailed = "FAILED"

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Response is a raw API answer. Callers decide success from it.
type Response struct {
	StatusCode  int
	Reason      string
	ContentType string
	Body        []byte
}

// OK reports whether the answer is usable: HTTP 200 and no FAILED status in the body.
func (r *Response) OK() bool {
	if r == nil || r.StatusCode != http.StatusOK {
		return false
	}
	var envelope struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(r.Body, &envelope); err != nil {
		// Let the decoder report malformed bodies.
		return true
	}
	return !strings.EqualFold(envelope.Status, apiStatusFailed)
}

// FailureReason describes why the answer is not OK, for the error log.
func (r *Response) FailureReason() string {
	if r == nil {
		return "no response"
	}
	if msg := r.bodyMessage(); msg != "" {
		return fmt.Sprintf("%d %s: %s", r.StatusCode, r.Reason, msg)
	}
	if r.Reason != "" {
		return fmt.Sprintf("%d %s", r.StatusCode, r.Reason)
	}
	return fmt.Sprintf("%d %s", r.StatusCode, http.StatusText(r.StatusCode))
}

func (r *Response) bodyMessage() string {
	trimmed := bytes.TrimSpace(r.Body)
	if len(trimmed) == 0 {
		return ""
	}
	if trimmed[0] == '{' {
		var envelope struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err == nil {
			return strings.TrimSpace(envelope.Message)
		}
		return ""
	}
	if strings.Contains(strings.ToLower(r.ContentType), "html") || trimmed[0] == '<' {
		return htmlMessage(trimmed)
	}
	return ""
}

// htmlMessage pulls a short description out of an HTML error page (proxies and
// gateways answer with those instead of JSON).
func htmlMessage(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	for _, selector := range []string{"title", "h1", "body"} {
		text := strings.TrimSpace(doc.Find(selector).First().Text())
		if text != "" {
			text = whitespaceRegex.ReplaceAllString(text, " ")
			if len(text) > 200 {
				text = text[:200]
			}
			return text
		}
	}
	return ""
}
