package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gewnthar/tzimport/config"
	"github.com/gewnthar/tzimport/database"
	"github.com/gewnthar/tzimport/metrics"
	"github.com/gewnthar/tzimport/timezonedb"
	"github.com/gewnthar/tzimport/utils"
)

const chicagoList = `{"status":"OK","message":"","zones":[{"countryCode":"US","countryName":"United States","zoneName":"America/Chicago","gmtOffset":-21600,"timestamp":1700000000}]}`

const chicagoDetails = `{"status":"OK","message":"","countryCode":"US","countryName":"United States","regionName":"","cityName":"","zoneName":"America/Chicago","abbreviation":"CST","gmtOffset":-21600,"dst":"0","zoneStart":1699167600,"zoneEnd":1710057600,"nextAbbreviation":"CDT","timestamp":1700000000,"formatted":"2023-11-14 16:13:20"}`

// fakeAPI answers from per-call scripts. A script returning (nil, nil) is never used.
type fakeAPI struct {
	mu          sync.Mutex
	list        func(call int) (*timezonedb.Response, error)
	details     func(zone string, call int) (*timezonedb.Response, error)
	listCalls   int
	detailCalls map[string]int
}

func (f *fakeAPI) FetchZoneList(ctx context.Context) (*timezonedb.Response, error) {
	f.mu.Lock()
	f.listCalls++
	call := f.listCalls
	f.mu.Unlock()
	return f.list(call)
}

func (f *fakeAPI) FetchZoneDetails(ctx context.Context, zone string) (*timezonedb.Response, error) {
	f.mu.Lock()
	if f.detailCalls == nil {
		f.detailCalls = make(map[string]int)
	}
	f.detailCalls[zone]++
	call := f.detailCalls[zone]
	f.mu.Unlock()
	return f.details(zone, call)
}

func okJSON(body string) *timezonedb.Response {
	return &timezonedb.Response{StatusCode: http.StatusOK, Reason: "OK", ContentType: "application/json", Body: []byte(body)}
}

func tooManyRequests() *timezonedb.Response {
	return &timezonedb.Response{StatusCode: http.StatusTooManyRequests, Reason: "Too Many Requests"}
}

func always(body string) func(int) (*timezonedb.Response, error) {
	return func(int) (*timezonedb.Response, error) { return okJSON(body), nil }
}

func failFirst(n int, body string) func(int) (*timezonedb.Response, error) {
	return func(call int) (*timezonedb.Response, error) {
		if call <= n {
			return tooManyRequests(), nil
		}
		return okJSON(body), nil
	}
}

func chicagoOnly(zone string, call int) (*timezonedb.Response, error) {
	return okJSON(chicagoDetails), nil
}

func newTestStore(t *testing.T) *database.Store {
	t.Helper()
	store, err := database.Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.SetupSchema(context.Background()))
	return store
}

type testImporter struct {
	*Importer
	sleeps int
}

func newTestImporter(t *testing.T, store *database.Store, api ZoneAPI, opts Options) *testImporter {
	t.Helper()
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = 100
	}
	ti := &testImporter{Importer: NewImporter(store, api, opts, zap.NewNop())}
	ti.sleep = func(ctx context.Context, d time.Duration) error {
		ti.sleeps++
		return ctx.Err()
	}
	ti.now = func() time.Time { return time.Unix(1700000000, 0) }
	return ti
}

func TestPopulateZoneList_ChicagoScenario(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	imp := newTestImporter(t, store, &fakeAPI{list: always(chicagoList)}, Options{})

	require.NoError(t, imp.PopulateZoneList(ctx))

	zones, err := store.TimeZones(ctx)
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "America/Chicago", zones[0].ZoneName)
	assert.Equal(t, int64(-21600), zones[0].GMTOffset)
	assert.Equal(t, "11/14/2023 10:13:20 PM", zones[0].ImportDate)
	assert.NoError(t, utils.ValidateDate(zones[0].ImportDate))
	assert.Zero(t, imp.sleeps)
}

func TestPopulateZoneList_RetriesThenSucceeds(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	m := metrics.New()
	imp := newTestImporter(t, store, &fakeAPI{list: failFirst(3, chicagoList)}, Options{MaxAttempts: 5, Metrics: m})

	require.NoError(t, imp.PopulateZoneList(ctx))

	entries, err := store.ErrorLog(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for _, e := range entries {
		assert.Contains(t, e.ErrorMessage, "Too Many Requests")
		assert.Equal(t, "11/14/2023 10:13:20 PM", e.ErrorDate)
	}
	assert.Equal(t, 3, imp.sleeps)

	expected := `
# HELP tzimport_error_log_entries_total Rows appended to the error log.
# TYPE tzimport_error_log_entries_total counter
tzimport_error_log_entries_total 3
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "tzimport_error_log_entries_total"))
}

func TestPopulateZoneList_RetriesExhausted(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	api := &fakeAPI{list: failFirst(10, chicagoList)}
	imp := newTestImporter(t, store, api, Options{MaxAttempts: 4})

	err := imp.PopulateZoneList(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRetriesExhausted))
	assert.Contains(t, err.Error(), "Too Many Requests")
	assert.Equal(t, 4, api.listCalls)
	assert.Equal(t, 3, imp.sleeps)

	entries, err := store.ErrorLog(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
	zones, err := store.TimeZones(ctx)
	require.NoError(t, err)
	assert.Empty(t, zones)
}

func TestPopulateZoneList_TransportErrorsAreRetried(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	api := &fakeAPI{list: func(call int) (*timezonedb.Response, error) {
		if call <= 2 {
			return nil, errors.New("dial tcp: connection refused")
		}
		return okJSON(chicagoList), nil
	}}
	imp := newTestImporter(t, store, api, Options{MaxAttempts: 3})

	require.NoError(t, imp.PopulateZoneList(ctx))

	entries, err := store.ErrorLog(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Contains(t, entries[0].ErrorMessage, "connection refused")
}

func TestPopulateZoneList_FailedStatusInBody(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	api := &fakeAPI{list: func(call int) (*timezonedb.Response, error) {
		if call == 1 {
			return okJSON(`{"status":"FAILED","message":"Invalid API key."}`), nil
		}
		return okJSON(chicagoList), nil
	}}
	imp := newTestImporter(t, store, api, Options{})

	require.NoError(t, imp.PopulateZoneList(ctx))

	entries, err := store.ErrorLog(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ErrorMessage, "Invalid API key.")
}

func TestPopulateZoneList_MissingKey(t *testing.T) {
	store := newTestStore(t)
	body := `{"status":"OK","zones":[{"countryCode":"US","countryName":"United States","zoneName":"America/Chicago","timestamp":1700000000}]}`
	imp := newTestImporter(t, store, &fakeAPI{list: always(body)}, Options{})

	err := imp.PopulateZoneList(context.Background())
	assert.True(t, errors.Is(err, timezonedb.ErrMissingKey))
}

func TestLogAPIError_Truncates(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	imp := newTestImporter(t, store, &fakeAPI{}, Options{})

	require.NoError(t, imp.LogAPIError(ctx, strings.Repeat("x", 1500)))

	entries, err := store.ErrorLog(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Len(t, entries[0].ErrorMessage, 1000)
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "ab", truncate("ab", 5))
	assert.Equal(t, "a", truncate("aé", 2))
}

func TestSleepContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
	assert.NoError(t, sleepContext(context.Background(), 0))
}
