// models/api_models.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexInt decodes a JSON number or a numeric string. TimeZoneDB sends some integer
// fields (dst, gmtOffset) as strings.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %s: %w", data, err)
	}
	*f = FlexInt(n)
	return nil
}

// APIStatus is the envelope every TimeZoneDB answer carries.
type APIStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ZoneListItem is one element of the list-time-zone "zones" array.
type ZoneListItem struct {
	CountryCode string  `json:"countryCode"`
	CountryName string  `json:"countryName"`
	ZoneName    string  `json:"zoneName"`
	GMTOffset   FlexInt `json:"gmtOffset"`
	Timestamp   FlexInt `json:"timestamp"`
}

// ZoneDetailPayload is the get-time-zone answer.
type ZoneDetailPayload struct {
	APIStatus
	CountryCode string   `json:"countryCode"`
	CountryName string   `json:"countryName"`
	ZoneName    string   `json:"zoneName"`
	GMTOffset   FlexInt  `json:"gmtOffset"`
	DST         FlexInt  `json:"dst"`
	ZoneStart   FlexInt  `json:"zoneStart"`
	ZoneEnd     *FlexInt `json:"zoneEnd"`
	Timestamp   FlexInt  `json:"timestamp"`
}
