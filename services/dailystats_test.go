package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulseboard/models"
)

// fakeVendor is a controllable stand-in for the ring vendor's API. Paths
// without a configured body answer with an empty envelope.
type fakeVendor struct {
	*httptest.Server

	mu       sync.Mutex
	bodies   map[string]string
	status   map[string]int
	block    chan struct{}
	requests int32
}

func newFakeVendor(t *testing.T) *fakeVendor {
	v := &fakeVendor{
		bodies: make(map[string]string),
		status: make(map[string]int),
	}
	v.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v.mu.Lock()
		block := v.block
		code := v.status[r.URL.Path]
		body, ok := v.bodies[r.URL.Path]
		v.mu.Unlock()
		atomic.AddInt32(&v.requests, 1)

		if block != nil {
			<-block
		}
		if code != 0 {
			w.WriteHeader(code)
			return
		}
		if !ok {
			body = `{"data":[]}`
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(v.Server.Close)
	return v
}

func (v *fakeVendor) set(path, body string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bodies[path] = body
}

func (v *fakeVendor) fail(path string, code int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status[path] = code
}

func (v *fakeVendor) setBlock(ch chan struct{}) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.block = ch
}

func (v *fakeVendor) requestCount() int32 {
	return atomic.LoadInt32(&v.requests)
}

func envelopeOf(docs ...string) string {
	return `{"data":[` + strings.Join(docs, ",") + `]}`
}

func sleepDoc(day string, score int) string {
	return fmt.Sprintf(`{"id":"sl-%s","day":"%s","score":%d,"contributors":{}}`, day, day, score)
}

func readinessDoc(day string, score int) string {
	return fmt.Sprintf(`{"id":"rd-%s","day":"%s","score":%d,"contributors":{}}`, day, day, score)
}

func activityDoc(day string, score, steps int) string {
	return fmt.Sprintf(`{"id":"ac-%s","day":"%s","score":%d,"steps":%d,"active_calories":450,"total_calories":2100,"target_calories":500,"contributors":{}}`, day, day, score, steps)
}

func sessionDoc(day string, totalSleep int) string {
	return fmt.Sprintf(`{"id":"se-%s","day":"%s","total_sleep_duration":%d,"bedtime_start":"%sT23:10:00+02:00"}`, day, day, totalSleep, day)
}

func statsServiceFor(v *fakeVendor) *StatsService {
	return NewStatsService(testClient(v.URL), zerolog.Nop())
}

func testProfile(id string) models.Profile {
	return models.Profile{ID: id, Name: id, Token: "tok-" + id}
}

func TestAggregateSortsDescendingByDay(t *testing.T) {
	v := newFakeVendor(t)
	v.set("/daily_sleep", envelopeOf(
		sleepDoc("2024-01-02", 70),
		sleepDoc("2024-01-05", 80),
		sleepDoc("2024-01-01", 90),
	))

	stats, err := statsServiceFor(v).Aggregate(context.Background(), testProfile("p1"))
	require.NoError(t, err)

	days := make([]string, 0, len(stats.Sleep))
	for _, rec := range stats.Sleep {
		days = append(days, rec.Day)
	}
	assert.Equal(t, []string{"2024-01-05", "2024-01-02", "2024-01-01"}, days)
}

func TestAggregateOptionalCategoriesDegradeToEmpty(t *testing.T) {
	v := newFakeVendor(t)
	v.set("/daily_sleep", envelopeOf(sleepDoc("2024-01-05", 80)))
	v.set("/daily_readiness", envelopeOf(readinessDoc("2024-01-05", 75)))
	v.set("/daily_activity", envelopeOf(activityDoc("2024-01-05", 85, 9000)))
	v.fail("/daily_stress", http.StatusNotFound)
	v.fail("/daily_resilience", http.StatusNotFound)
	v.fail("/workout", http.StatusNotFound)

	stats, err := statsServiceFor(v).Aggregate(context.Background(), testProfile("p1"))
	require.NoError(t, err)

	assert.Len(t, stats.Sleep, 1)
	assert.Len(t, stats.Readiness, 1)
	assert.Len(t, stats.Activity, 1)
	assert.Empty(t, stats.Stress)
	assert.Empty(t, stats.Resilience)
	assert.Empty(t, stats.Workouts)
}

func TestAggregateMandatoryCategoryFailureFailsBundle(t *testing.T) {
	v := newFakeVendor(t)
	v.fail("/daily_readiness", http.StatusInternalServerError)

	_, err := statsServiceFor(v).Aggregate(context.Background(), testProfile("p1"))
	require.Error(t, err)
	assert.Equal(t, CategoryReadiness, FetchCategory(err))
}

func TestAggregateIdempotentAgainstStableUpstream(t *testing.T) {
	v := newFakeVendor(t)
	v.set("/daily_sleep", envelopeOf(sleepDoc("2024-01-04", 70), sleepDoc("2024-01-05", 80)))
	v.set("/daily_readiness", envelopeOf(readinessDoc("2024-01-05", 75)))
	v.set("/sleep", envelopeOf(sessionDoc("2024-01-05", 27000)))

	svc := statsServiceFor(v)
	first, err := svc.Aggregate(context.Background(), testProfile("p1"))
	require.NoError(t, err)
	second, err := svc.Aggregate(context.Background(), testProfile("p1"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRefreshStaleResultNeverOverwritesNewer(t *testing.T) {
	v := newFakeVendor(t)
	v.set("/daily_sleep", envelopeOf(sleepDoc("2024-01-05", 10)))

	svc := statsServiceFor(v)
	profile := testProfile("p1")

	// First refresh hangs inside the vendor until released.
	gate := make(chan struct{})
	v.setBlock(gate)

	var wg sync.WaitGroup
	var staleStats *models.DailyStats
	wg.Add(1)
	go func() {
		defer wg.Done()
		stats, err := svc.Refresh(context.Background(), profile)
		assert.NoError(t, err)
		staleStats = stats
	}()

	// Wait until every category fetch of the blocked refresh has reached
	// the vendor, so none of them can observe the newer fixture below.
	require.Eventually(t, func() bool { return v.requestCount() >= 8 }, 2*time.Second, 5*time.Millisecond)

	// Second refresh sees newer upstream data and completes immediately.
	v.setBlock(nil)
	v.set("/daily_sleep", envelopeOf(sleepDoc("2024-01-06", 99)))
	newer, err := svc.Refresh(context.Background(), profile)
	require.NoError(t, err)
	require.NotEmpty(t, newer.Sleep)
	assert.Equal(t, "2024-01-06", newer.Sleep[0].Day)

	// Release the stale refresh; its result must be returned to its caller
	// but silently discarded from the cache.
	close(gate)
	wg.Wait()

	require.NotNil(t, staleStats)
	require.NotEmpty(t, staleStats.Sleep)
	assert.Equal(t, "2024-01-05", staleStats.Sleep[0].Day)

	cached, ok := svc.Cached(profile.ID)
	require.True(t, ok)
	assert.Equal(t, newer, cached)
}

func TestFindByDayFallsBackToMostRecent(t *testing.T) {
	records := []models.DailySleep{
		{ID: "a", Day: "2024-01-05"},
		{ID: "b", Day: "2024-01-04"},
	}

	rec, exact := FindByDay(records, "2024-01-04")
	assert.True(t, exact)
	assert.Equal(t, "b", rec.ID)

	rec, exact = FindByDay(records, "2023-12-01")
	assert.False(t, exact)
	assert.Equal(t, "a", rec.ID)

	_, exact = FindByDay([]models.DailySleep{}, "2024-01-04")
	assert.False(t, exact)
}

func TestDayIndexMatchesFindByDayPolicy(t *testing.T) {
	records := []models.DailyReadiness{
		{ID: "new", Day: "2024-01-05"},
		{ID: "old", Day: "2024-01-04"},
	}
	idx := NewDayIndex(records)

	rec, exact := idx.Get("2024-01-04")
	assert.True(t, exact)
	assert.Equal(t, "old", rec.ID)

	rec, exact = idx.Get("1999-01-01")
	assert.False(t, exact)
	assert.Equal(t, "new", rec.ID)

	assert.False(t, idx.Empty())
	assert.True(t, NewDayIndex([]models.DailyReadiness{}).Empty())
}

func TestSessionForDayPrefersExactThenFirst(t *testing.T) {
	sessions := []models.SleepSession{
		{ID: "nap", Day: "2024-01-05"},
		{ID: "night", Day: "2024-01-04"},
	}

	sess, ok := SessionForDay(sessions, "2024-01-04")
	require.True(t, ok)
	assert.Equal(t, "night", sess.ID)

	sess, ok = SessionForDay(sessions, "2024-02-01")
	require.True(t, ok)
	assert.Equal(t, "nap", sess.ID)

	_, ok = SessionForDay(nil, "2024-01-04")
	assert.False(t, ok)
}

func TestVersusFetchesBothFullBundles(t *testing.T) {
	v := newFakeVendor(t)
	v.set("/daily_sleep", envelopeOf(sleepDoc("2024-01-05", 80)))
	v.set("/heartrate", envelopeOf(`{"bpm":58,"source":"sleep","timestamp":"2024-01-05T02:00:00+00:00"}`))

	data, err := statsServiceFor(v).FetchVersus(context.Background(), testProfile("a"), testProfile("b"))
	require.NoError(t, err)
	require.NotNil(t, data.StatsA)
	require.NotNil(t, data.StatsB)
	assert.Len(t, data.HeartRateA, 1)
	assert.Len(t, data.HeartRateB, 1)
}
