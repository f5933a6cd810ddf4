package services

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"pulseboard/models"
)

type dayKeyed interface {
	DayKey() string
}

// sortByDayDesc orders records most-recent-first. Day keys are YYYY-MM-DD so
// lexicographic order is chronological; the sort is stable so records sharing
// a day keep their upstream order deterministically.
func sortByDayDesc[T dayKeyed](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DayKey() > items[j].DayKey()
	})
}

// FindByDay returns the record for the given day key. When there is no exact
// match it falls back to the most recent record instead of nothing, mirroring
// the product's "don't show blank" preference. ok reports whether the match
// was exact, for callers where exactness matters.
func FindByDay[T dayKeyed](items []T, day string) (rec T, ok bool) {
	for _, item := range items {
		if item.DayKey() == day {
			return item, true
		}
	}
	if len(items) > 0 {
		return items[0], false
	}
	return rec, false
}

// SessionForDay picks "the" sleep session for a day: the first session whose
// day matches, else the first session at all. Days with naps have several
// sessions and the main one comes first.
func SessionForDay(sessions []models.SleepSession, day string) (models.SleepSession, bool) {
	for _, s := range sessions {
		if s.Day == day {
			return s, true
		}
	}
	if len(sessions) > 0 {
		return sessions[0], true
	}
	return models.SleepSession{}, false
}

// DayIndex is a day-key lookup built once per bundle, replacing repeated
// linear scans when several widgets resolve the same day.
type DayIndex[T dayKeyed] struct {
	byDay  map[string]T
	newest *T
}

func NewDayIndex[T dayKeyed](items []T) *DayIndex[T] {
	idx := &DayIndex[T]{byDay: make(map[string]T, len(items))}
	for i := range items {
		// keep the first occurrence; duplicate day keys are an upstream anomaly
		if _, seen := idx.byDay[items[i].DayKey()]; !seen {
			idx.byDay[items[i].DayKey()] = items[i]
		}
	}
	if len(items) > 0 {
		idx.newest = &items[0]
	}
	return idx
}

// Empty reports whether the index was built over no records at all.
func (idx *DayIndex[T]) Empty() bool {
	return idx.newest == nil
}

// Get resolves a day key with the same exact-match-or-most-recent fallback
// policy as FindByDay.
func (idx *DayIndex[T]) Get(day string) (rec T, ok bool) {
	if rec, ok = idx.byDay[day]; ok {
		return rec, true
	}
	if idx.newest != nil {
		return *idx.newest, false
	}
	return rec, false
}

// StatsService aggregates one profile's category streams into a DailyStats
// bundle and caches the latest bundle per profile. Refreshes are guarded by
// a per-profile monotonic token so a slow, stale aggregation that resolves
// after a newer one never clobbers the newer result.
type StatsService struct {
	client *OuraClient
	log    zerolog.Logger

	mu     sync.Mutex
	seq    map[string]uint64
	latest map[string]*models.DailyStats
}

func NewStatsService(client *OuraClient, logger zerolog.Logger) *StatsService {
	return &StatsService{
		client: client,
		log:    logger.With().Str("component", "stats").Logger(),
		seq:    make(map[string]uint64),
		latest: make(map[string]*models.DailyStats),
	}
}

// Aggregate fetches all categories for one profile concurrently and returns
// the sorted bundle. Sleep, readiness, activity, sessions and SpO2 are
// mandatory: any failure fails the whole aggregation. Stress, resilience and
// workouts are categories some accounts lack, so their failures degrade to
// empty slices.
func (s *StatsService) Aggregate(ctx context.Context, profile models.Profile) (*models.DailyStats, error) {
	var stats models.DailyStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.Sleep, err = s.client.DailySleep(gctx, profile.Token, DateRange{})
		return err
	})
	g.Go(func() error {
		var err error
		stats.Readiness, err = s.client.DailyReadiness(gctx, profile.Token, DateRange{})
		return err
	})
	g.Go(func() error {
		var err error
		stats.Activity, err = s.client.DailyActivity(gctx, profile.Token, DateRange{})
		return err
	})
	g.Go(func() error {
		var err error
		stats.Sessions, err = s.client.SleepSessions(gctx, profile.Token, DateRange{})
		return err
	})
	g.Go(func() error {
		var err error
		stats.SpO2, err = s.client.DailySpO2(gctx, profile.Token, DateRange{})
		return err
	})
	g.Go(func() error {
		recs, err := s.client.DailyStress(gctx, profile.Token, DateRange{})
		if err != nil {
			s.log.Warn().Err(err).Str("profile", profile.ID).Msg("stress data unavailable")
			recs = []models.DailyStress{}
		}
		stats.Stress = recs
		return nil
	})
	g.Go(func() error {
		recs, err := s.client.DailyResilience(gctx, profile.Token, DateRange{})
		if err != nil {
			s.log.Warn().Err(err).Str("profile", profile.ID).Msg("resilience data unavailable")
			recs = []models.DailyResilience{}
		}
		stats.Resilience = recs
		return nil
	})
	g.Go(func() error {
		recs, err := s.client.Workouts(gctx, profile.Token, DateRange{})
		if err != nil {
			s.log.Warn().Err(err).Str("profile", profile.ID).Msg("workout data unavailable")
			recs = []models.Workout{}
		}
		stats.Workouts = recs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortByDayDesc(stats.Sleep)
	sortByDayDesc(stats.Readiness)
	sortByDayDesc(stats.Activity)
	sortByDayDesc(stats.Sessions)
	sortByDayDesc(stats.SpO2)
	sortByDayDesc(stats.Stress)
	sortByDayDesc(stats.Resilience)
	sortByDayDesc(stats.Workouts)

	return &stats, nil
}

// Refresh aggregates and stores the result as the profile's latest bundle,
// unless a newer refresh was issued for the same profile while this one was
// in flight. The stale result is returned to the caller but silently dropped
// from the cache.
func (s *StatsService) Refresh(ctx context.Context, profile models.Profile) (*models.DailyStats, error) {
	s.mu.Lock()
	s.seq[profile.ID]++
	token := s.seq[profile.ID]
	s.mu.Unlock()

	stats, err := s.Aggregate(ctx, profile)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token == s.seq[profile.ID] {
		s.latest[profile.ID] = stats
	} else {
		s.log.Debug().Str("profile", profile.ID).Uint64("token", token).Msg("discarding stale aggregation result")
	}
	return stats, nil
}

// Cached returns the profile's latest stored bundle, if any.
func (s *StatsService) Cached(profileID string) (*models.DailyStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats, ok := s.latest[profileID]
	return stats, ok
}

// Invalidate drops the cached bundle for a removed profile.
func (s *StatsService) Invalidate(profileID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.latest, profileID)
	delete(s.seq, profileID)
}

// HeartRate fetches the profile's recent raw heart rate stream.
func (s *StatsService) HeartRate(ctx context.Context, profile models.Profile) ([]models.HeartRate, error) {
	return s.client.HeartRate(ctx, profile.Token, DateRange{})
}

// VersusData is the heavyweight two-profile fetch backing the head-to-head
// view. It is deliberately separate from the lightweight leaderboard path:
// versus mode needs full contributor and stage granularity.
type VersusData struct {
	StatsA     *models.DailyStats
	StatsB     *models.DailyStats
	HeartRateA []models.HeartRate
	HeartRateB []models.HeartRate
}

// FetchVersus pulls both profiles' full bundles and heart rate streams
// concurrently. Either profile failing fails the comparison; there is no
// one-sided versus view.
func (s *StatsService) FetchVersus(ctx context.Context, a, b models.Profile) (*VersusData, error) {
	var data VersusData

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data.StatsA, err = s.Aggregate(gctx, a)
		return err
	})
	g.Go(func() error {
		var err error
		data.StatsB, err = s.Aggregate(gctx, b)
		return err
	})
	g.Go(func() error {
		var err error
		data.HeartRateA, err = s.client.HeartRate(gctx, a.Token, DateRange{})
		return err
	})
	g.Go(func() error {
		var err error
		data.HeartRateB, err = s.client.HeartRate(gctx, b.Token, DateRange{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}
