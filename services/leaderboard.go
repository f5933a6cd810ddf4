package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"pulseboard/models"
	"pulseboard/utils"
)

// LeaderboardService ranks every known profile by today's composite score.
// Each profile gets only the lightweight fetch (sleep, readiness, activity)
// to bound cost as the profile count grows; versus mode does its own heavier
// fetch through StatsService.
type LeaderboardService struct {
	client *OuraClient
	log    zerolog.Logger
}

func NewLeaderboardService(client *OuraClient, logger zerolog.Logger) *LeaderboardService {
	return &LeaderboardService{
		client: client,
		log:    logger.With().Str("component", "leaderboard").Logger(),
	}
}

// BuildLeaderboard scores the given profile snapshot concurrently. A broken
// profile (bad token, no recent data) is logged and skipped so the rest of
// the board still renders. Entries are sorted descending by average with
// stable tie-break on the snapshot's order, then ranked 1..n.
func (s *LeaderboardService) BuildLeaderboard(ctx context.Context, profiles []models.Profile, activeID string) []models.LeaderboardEntry {
	slots := make([]*models.LeaderboardEntry, len(profiles))

	var wg sync.WaitGroup
	for i, profile := range profiles {
		wg.Add(1)
		go func(i int, profile models.Profile) {
			defer wg.Done()
			entry, err := s.scoreProfile(ctx, profile)
			if err != nil {
				s.log.Warn().Err(err).Str("profile", profile.ID).Str("name", profile.Name).
					Msg("excluding profile from leaderboard")
				return
			}
			entry.IsCurrentUser = profile.ID == activeID
			slots[i] = entry
		}(i, profile)
	}
	wg.Wait()

	entries := make([]models.LeaderboardEntry, 0, len(profiles))
	for _, entry := range slots {
		if entry != nil {
			entries = append(entries, *entry)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Average > entries[j].Average
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// scoreProfile does the lightweight three-category fetch and projects the
// latest day of each into a leaderboard entry.
func (s *LeaderboardService) scoreProfile(ctx context.Context, profile models.Profile) (*models.LeaderboardEntry, error) {
	var (
		sleep     []models.DailySleep
		readiness []models.DailyReadiness
		activity  []models.DailyActivity
		sessions  []models.SleepSession
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sleep, err = s.client.DailySleep(gctx, profile.Token, DateRange{})
		return err
	})
	g.Go(func() error {
		var err error
		readiness, err = s.client.DailyReadiness(gctx, profile.Token, DateRange{})
		return err
	})
	g.Go(func() error {
		var err error
		activity, err = s.client.DailyActivity(gctx, profile.Token, DateRange{})
		return err
	})
	g.Go(func() error {
		// Sessions only enrich the hover card; their failure never knocks a
		// profile off the board.
		recs, err := s.client.SleepSessions(gctx, profile.Token, DateRange{})
		if err != nil {
			s.log.Warn().Err(err).Str("profile", profile.ID).Msg("sleep sessions unavailable for leaderboard")
			recs = nil
		}
		sessions = recs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortByDayDesc(sleep)
	sortByDayDesc(readiness)
	sortByDayDesc(activity)
	sortByDayDesc(sessions)

	if len(sleep) == 0 || len(readiness) == 0 || len(activity) == 0 {
		return nil, fmt.Errorf("no recent records for profile %s", profile.ID)
	}

	latestSleep := sleep[0]
	latestReadiness := readiness[0]
	latestActivity := activity[0]

	name := profile.Name
	if name == "" {
		name = utils.ExtractNameFromEmail(profile.Email)
	}
	// A profile with neither name nor email still needs a row label and a
	// non-empty avatar seed.
	if name == "" {
		name = profile.ID
	}

	steps := latestActivity.Steps
	activeCalories := latestActivity.ActiveCalories

	entry := &models.LeaderboardEntry{
		ProfileID:      profile.ID,
		Name:           name,
		Avatar:         utils.AvatarURL(name),
		Readiness:      scoreOrZero(latestReadiness.Score),
		Sleep:          scoreOrZero(latestSleep.Score),
		Activity:       scoreOrZero(latestActivity.Score),
		Average:        DailyAverage(latestSleep.Score, latestReadiness.Score, latestActivity.Score),
		Steps:          &steps,
		ActiveCalories: &activeCalories,
	}
	if sess, ok := SessionForDay(sessions, latestSleep.Day); ok {
		entry.SleepDuration = sess.TotalSleepDuration
		entry.AverageHRV = sess.AverageHRV
		entry.RestingHeartRate = sess.LowestHeartRate
	}
	return entry, nil
}
