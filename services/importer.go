// services/importer.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/gewnthar/tzimport/database"
	"github.com/gewnthar/tzimport/metrics"
	"github.com/gewnthar/tzimport/models"
	"github.com/gewnthar/tzimport/timezonedb"
	"github.com/gewnthar/tzimport/utils"
)

// ErrRetriesExhausted is returned when every fetch attempt failed. It wraps the
// cause of the last attempt.
var ErrRetriesExhausted = errors.New("api retries exhausted")

const maxErrorMessageLen = 1000

// ZoneAPI is the part of the TimeZoneDB client the importer depends on.
type ZoneAPI interface {
	FetchZoneList(ctx context.Context) (*timezonedb.Response, error)
	FetchZoneDetails(ctx context.Context, zoneName string) (*timezonedb.Response, error)
}

type Options struct {
	MaxAttempts int
	Backoff     time.Duration
	MergePolicy database.MergePolicy
	// Location is used for every formatted timestamp. Nil means UTC.
	Location *time.Location
	Metrics  *metrics.ImportMetrics
}

// Importer loads the zone list and zone details into a Store.
type Importer struct {
	store   *database.Store
	api     ZoneAPI
	logger  *zap.Logger
	opts    Options
	metrics *metrics.ImportMetrics

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

func NewImporter(store *database.Store, api ZoneAPI, opts Options, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.MergePolicy == "" {
		opts.MergePolicy = database.MergeByZone
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Importer{
		store:   store,
		api:     api,
		logger:  logger.Named("service"),
		opts:    opts,
		metrics: opts.Metrics,
		sleep:   sleepContext,
		now:     time.Now,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// LogAPIError appends message to the error log, stamped with the current time.
// It commits on its own so entries survive an aborted import.
func (imp *Importer) LogAPIError(ctx context.Context, message string) error {
	entry := models.ErrorLogEntry{
		ErrorDate:    utils.FormatTime(imp.now().In(imp.opts.Location)),
		ErrorMessage: truncate(message, maxErrorMessageLen),
	}
	if err := imp.store.InsertErrorLog(ctx, entry); err != nil {
		return fmt.Errorf("failed to log api error: %w", err)
	}
	imp.metrics.ErrorLogged()
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	s = s[:max]
	for !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}

// fetchWithRetry calls fetch until it yields an OK response. Every failed attempt,
// transport errors included, is written to the error log before the backoff.
func (imp *Importer) fetchWithRetry(ctx context.Context, endpoint, target string, fetch func(context.Context) (*timezonedb.Response, error)) (*timezonedb.Response, error) {
	var lastErr error
	for attempt := 1; attempt <= imp.opts.MaxAttempts; attempt++ {
		resp, err := fetch(ctx)
		switch {
		case err != nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			imp.metrics.ObserveRequest(endpoint, metrics.OutcomeTransport)
			lastErr = err
		case resp.OK():
			imp.metrics.ObserveRequest(endpoint, metrics.OutcomeSuccess)
			return resp, nil
		default:
			imp.metrics.ObserveRequest(endpoint, metrics.OutcomeFailure)
			lastErr = errors.New(resp.FailureReason())
		}

		imp.logger.Warn("api request failed",
			zap.String("endpoint", endpoint),
			zap.String("target", target),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", imp.opts.MaxAttempts),
			zap.Error(lastErr),
		)
		if err := imp.LogAPIError(ctx, fmt.Sprintf("%s: %v", target, lastErr)); err != nil {
			return nil, err
		}
		if attempt == imp.opts.MaxAttempts {
			break
		}
		if err := imp.sleep(ctx, imp.opts.Backoff); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s after %d attempts: %w", ErrRetriesExhausted, target, imp.opts.MaxAttempts, lastErr)
}
