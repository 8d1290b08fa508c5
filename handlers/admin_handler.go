// handlers/admin_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gewnthar/tzimport/utils"
)

// Helper to respond with JSON
func (h *Handler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to marshal JSON response", zap.Error(err))
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper to respond with an error
func (h *Handler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.logger.Warn("api error", zap.Int("status", code), zap.String("message", message))
	h.respondWithJSON(w, code, map[string]string{"error": message})
}

// RefreshStatus describes the background import started by the admin endpoint.
type RefreshStatus struct {
	Running    bool   `json:"running"`
	StartedAt  string `json:"startedAt,omitempty"`
	FinishedAt string `json:"finishedAt,omitempty"`
	LastError  string `json:"lastError,omitempty"`
}

// refresher serialises imports: at most one runs at any time.
type refresher struct {
	run func(ctx context.Context) error
	mu  sync.Mutex // held for the whole import

	statusMu sync.Mutex
	status   RefreshStatus
	done     chan struct{}
}

func (r *refresher) snapshot() RefreshStatus {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	return r.status
}

// start launches an import unless one is already running.
func (r *refresher) start(ctx context.Context, logger *zap.Logger) bool {
	if !r.mu.TryLock() {
		return false
	}

	done := make(chan struct{})
	r.statusMu.Lock()
	r.status = RefreshStatus{Running: true, StartedAt: utils.FormatTime(time.Now().UTC())}
	r.done = done
	r.statusMu.Unlock()

	go func() {
		defer close(done)
		defer r.mu.Unlock()

		err := r.run(ctx)

		r.statusMu.Lock()
		r.status.Running = false
		r.status.FinishedAt = utils.FormatTime(time.Now().UTC())
		if err != nil {
			r.status.LastError = err.Error()
		}
		r.statusMu.Unlock()

		if err != nil {
			logger.Error("refresh failed", zap.Error(err))
			return
		}
		logger.Info("refresh completed")
	}()
	return true
}

// wait blocks until the current import, if any, has finished.
func (r *refresher) wait() {
	r.statusMu.Lock()
	done := r.done
	r.statusMu.Unlock()
	if done != nil {
		<-done
	}
}

// RefreshHandler starts a full import in the background.
// Expects POST /api/admin/refresh. Answers 409 while an import is running.
func (h *Handler) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	if h.refresh == nil {
		h.respondWithError(w, http.StatusNotImplemented, "Refresh is not configured")
		return
	}
	// The import outlives the request.
	ctx := context.WithoutCancel(r.Context())
	if !h.refresh.start(ctx, h.logger) {
		h.respondWithError(w, http.StatusConflict, "A refresh is already running")
		return
	}
	h.respondWithJSON(w, http.StatusAccepted, map[string]string{"message": "Refresh started."})
}

// RefreshStatusHandler reports the state of the last refresh.
// Expects GET /api/admin/refresh.
func (h *Handler) RefreshStatusHandler(w http.ResponseWriter, r *http.Request) {
	if h.refresh == nil {
		h.respondWithJSON(w, http.StatusOK, RefreshStatus{})
		return
	}
	h.respondWithJSON(w, http.StatusOK, h.refresh.snapshot())
}
