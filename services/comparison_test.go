package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulseboard/models"
)

func intPtr(v int) *int { return &v }

func statsWith(sleepScore, readinessScore, activityScore *int, steps int) *models.DailyStats {
	day := "2024-01-05"
	return &models.DailyStats{
		Sleep:     []models.DailySleep{{ID: "sl", Day: day, Score: sleepScore}},
		Readiness: []models.DailyReadiness{{ID: "rd", Day: day, Score: readinessScore}},
		Activity:  []models.DailyActivity{{ID: "ac", Day: day, Score: activityScore, Steps: steps, ActiveCalories: 400, TotalCalories: 2000}},
		Sessions: []models.SleepSession{{
			ID: "se", Day: day,
			LowestHeartRate:    intPtr(50),
			TotalSleepDuration: intPtr(27000),
			Efficiency:         intPtr(92),
		}},
	}
}

func findMetric(t *testing.T, groups []models.ComparisonGroup, groupTitle, label string) models.ComparisonMetric {
	t.Helper()
	for _, g := range groups {
		if g.Title != groupTitle {
			continue
		}
		for _, m := range g.Metrics {
			if m.Label == label {
				return m
			}
		}
	}
	t.Fatalf("metric %q not found in group %q", label, groupTitle)
	return models.ComparisonMetric{}
}

func findGroup(t *testing.T, groups []models.ComparisonGroup, title string) models.ComparisonGroup {
	t.Helper()
	for _, g := range groups {
		if g.Title == title {
			return g
		}
	}
	t.Fatalf("group %q not found", title)
	return models.ComparisonGroup{}
}

func TestCompareLatestLowerIsBetterWinner(t *testing.T) {
	statsA := statsWith(intPtr(80), intPtr(80), intPtr(80), 5000)
	statsB := statsWith(intPtr(80), intPtr(80), intPtr(80), 5000)
	statsA.Sessions[0].LowestHeartRate = intPtr(50)
	statsB.Sessions[0].LowestHeartRate = intPtr(55)

	groups := CompareLatest(statsA, statsB)
	metric := findMetric(t, groups, "Readiness", "Resting Heart Rate")
	assert.Equal(t, models.WinnerA, metric.Winner)
	assert.True(t, metric.LowerIsBetter)
}

func TestCompareLatestStepsWinnerAndDerivedScale(t *testing.T) {
	statsA := statsWith(intPtr(80), intPtr(80), intPtr(80), 5000)
	statsB := statsWith(intPtr(80), intPtr(80), intPtr(80), 7000)

	groups := CompareLatest(statsA, statsB)
	metric := findMetric(t, groups, "Activity", "Steps")
	assert.Equal(t, models.WinnerB, metric.Winner)
	assert.InDelta(t, 7700, metric.ScaleMax, 0.001)
}

func TestCompareLatestTieHasNoWinner(t *testing.T) {
	statsA := statsWith(intPtr(80), intPtr(80), intPtr(80), 6000)
	statsB := statsWith(intPtr(80), intPtr(80), intPtr(80), 6000)

	groups := CompareLatest(statsA, statsB)
	metric := findMetric(t, groups, "Activity", "Steps")
	assert.Equal(t, models.WinnerNone, metric.Winner)
}

func TestCompareLatestMissingValueOmitsRow(t *testing.T) {
	statsA := statsWith(intPtr(80), intPtr(80), intPtr(80), 5000)
	statsB := statsWith(intPtr(80), intPtr(80), intPtr(80), 5000)
	statsB.Sessions[0].LowestHeartRate = nil

	groups := CompareLatest(statsA, statsB)
	readiness := findGroup(t, groups, "Readiness")
	for _, m := range readiness.Metrics {
		assert.NotEqual(t, "Resting Heart Rate", m.Label, "row with a nil side must be omitted")
	}
}

func TestCompareLatestSessionDayMismatchFallsBackToNewest(t *testing.T) {
	// The sessions carry a different day key than the daily records; the
	// lookup must fall back to the newest session instead of dropping the
	// session-derived rows.
	statsA := statsWith(intPtr(80), intPtr(80), intPtr(80), 5000)
	statsB := statsWith(intPtr(80), intPtr(80), intPtr(80), 5000)
	statsA.Sessions[0].Day = "2024-01-04"
	statsB.Sessions[0].Day = "2024-01-04"

	groups := CompareLatest(statsA, statsB)
	metric := findMetric(t, groups, "Readiness", "Resting Heart Rate")
	assert.Equal(t, float64(50), metric.ValueA)
	findMetric(t, groups, "Sleep", "Total Sleep")
}

func TestCompareLatestGroupHeadlineWinner(t *testing.T) {
	statsA := statsWith(intPtr(78), intPtr(70), intPtr(80), 5000)
	statsB := statsWith(intPtr(85), intPtr(70), intPtr(80), 5000)

	groups := CompareLatest(statsA, statsB)
	sleep := findGroup(t, groups, "Sleep")
	require.NotNil(t, sleep.ScoreA)
	require.NotNil(t, sleep.ScoreB)
	assert.Equal(t, 78, *sleep.ScoreA)
	assert.Equal(t, 85, *sleep.ScoreB)
	assert.Equal(t, models.WinnerB, sleep.Winner)
}

func TestCompareLatestZeroValuesFallBackToDefaultScale(t *testing.T) {
	statsA := statsWith(intPtr(80), intPtr(80), intPtr(80), 0)
	statsB := statsWith(intPtr(80), intPtr(80), intPtr(80), 0)

	groups := CompareLatest(statsA, statsB)
	metric := findMetric(t, groups, "Activity", "Steps")
	assert.Equal(t, float64(100), metric.ScaleMax)
}

func TestCompareLatestEmptyBundles(t *testing.T) {
	groups := CompareLatest(&models.DailyStats{}, &models.DailyStats{})
	assert.Empty(t, groups)
}

func TestDailyAverageMissingScoreIsZeroNotExcluded(t *testing.T) {
	avg := DailyAverage(intPtr(80), nil, intPtr(70))
	assert.Equal(t, 50, avg)
}

func TestDailyAverageRounds(t *testing.T) {
	assert.Equal(t, 67, DailyAverage(intPtr(70), intPtr(65), intPtr(65)))
	assert.Equal(t, 0, DailyAverage(nil, nil, nil))
}
