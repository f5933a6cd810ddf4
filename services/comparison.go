package services

import (
	"math"

	"pulseboard/models"
)

// CompareLatest builds the versus view's metric groups from both profiles'
// latest-day records. Rows where either side has no value are omitted
// entirely rather than rendered with a placeholder; a comparison against
// nothing isn't a comparison. Group headline scores compare greater-than
// only, independent of the row winners.
func CompareLatest(statsA, statsB *models.DailyStats) []models.ComparisonGroup {
	groups := make([]models.ComparisonGroup, 0, 4)

	// The readiness and sleep groups both resolve sessions by day; build the
	// index once per side instead of rescanning the slice per group.
	sessionsA := NewDayIndex(statsA.Sessions)
	sessionsB := NewDayIndex(statsB.Sessions)

	if g, ok := readinessGroup(statsA, statsB, sessionsA, sessionsB); ok {
		groups = append(groups, g)
	}
	if g, ok := sleepGroup(statsA, statsB, sessionsA, sessionsB); ok {
		groups = append(groups, g)
	}
	if g, ok := activityGroup(statsA, statsB); ok {
		groups = append(groups, g)
	}
	if g, ok := resilienceGroup(statsA, statsB); ok {
		groups = append(groups, g)
	}
	return groups
}

func readinessGroup(statsA, statsB *models.DailyStats, sessionsA, sessionsB *DayIndex[models.SleepSession]) (models.ComparisonGroup, bool) {
	a, okA := first(statsA.Readiness)
	b, okB := first(statsB.Readiness)
	if !okA || !okB {
		return models.ComparisonGroup{}, false
	}

	group := newGroup("Readiness", a.Score, b.Score)
	addMetric(&group, "HRV Balance", intScore(a.Contributors.HRVBalance), intScore(b.Contributors.HRVBalance), "", false, 100)
	addMetric(&group, "Sleep Balance", intScore(a.Contributors.SleepBalance), intScore(b.Contributors.SleepBalance), "", false, 100)
	addMetric(&group, "Recovery Index", intScore(a.Contributors.RecoveryIndex), intScore(b.Contributors.RecoveryIndex), "", false, 100)
	addMetric(&group, "Body Temperature", intScore(a.Contributors.BodyTemperature), intScore(b.Contributors.BodyTemperature), "", false, 100)
	addMetric(&group, "Previous Night", intScore(a.Contributors.PreviousNight), intScore(b.Contributors.PreviousNight), "", false, 100)
	addMetric(&group, "Activity Balance", intScore(a.Contributors.ActivityBalance), intScore(b.Contributors.ActivityBalance), "", false, 100)

	// Resting heart rate in bpm comes from the night's sleep session, not
	// from the contributor sub-score of the same name.
	if !sessionsA.Empty() && !sessionsB.Empty() {
		sessA, _ := sessionsA.Get(a.Day)
		sessB, _ := sessionsB.Get(b.Day)
		addMetric(&group, "Resting Heart Rate", intValue(sessA.LowestHeartRate), intValue(sessB.LowestHeartRate), "bpm", true, 0)
	}
	return group, true
}

func sleepGroup(statsA, statsB *models.DailyStats, sessionsA, sessionsB *DayIndex[models.SleepSession]) (models.ComparisonGroup, bool) {
	a, okA := first(statsA.Sleep)
	b, okB := first(statsB.Sleep)
	if !okA || !okB {
		return models.ComparisonGroup{}, false
	}

	group := newGroup("Sleep", a.Score, b.Score)

	if !sessionsA.Empty() && !sessionsB.Empty() {
		sessA, _ := sessionsA.Get(a.Day)
		sessB, _ := sessionsB.Get(b.Day)
		addMetric(&group, "Total Sleep", minutes(sessA.TotalSleepDuration), minutes(sessB.TotalSleepDuration), "min", false, 0)
		addMetric(&group, "Deep Sleep", minutes(sessA.DeepSleepDuration), minutes(sessB.DeepSleepDuration), "min", false, 0)
		addMetric(&group, "REM Sleep", minutes(sessA.RemSleepDuration), minutes(sessB.RemSleepDuration), "min", false, 0)
		addMetric(&group, "Light Sleep", minutes(sessA.LightSleepDuration), minutes(sessB.LightSleepDuration), "min", false, 0)
		addMetric(&group, "Awake Time", minutes(sessA.AwakeTime), minutes(sessB.AwakeTime), "min", true, 0)
		addMetric(&group, "Sleep Efficiency", intValue(sessA.Efficiency), intValue(sessB.Efficiency), "%", false, 100)
		addMetric(&group, "Sleep Latency", minutes(sessA.Latency), minutes(sessB.Latency), "min", true, 0)
		addMetric(&group, "Average HRV", intValue(sessA.AverageHRV), intValue(sessB.AverageHRV), "ms", false, 0)
	}
	return group, true
}

func activityGroup(statsA, statsB *models.DailyStats) (models.ComparisonGroup, bool) {
	a, okA := first(statsA.Activity)
	b, okB := first(statsB.Activity)
	if !okA || !okB {
		return models.ComparisonGroup{}, false
	}

	stepsA, stepsB := float64(a.Steps), float64(b.Steps)
	activeA, activeB := float64(a.ActiveCalories), float64(b.ActiveCalories)
	totalA, totalB := float64(a.TotalCalories), float64(b.TotalCalories)

	group := newGroup("Activity", a.Score, b.Score)
	addMetric(&group, "Steps", &stepsA, &stepsB, "", false, 0)
	addMetric(&group, "Active Calories", &activeA, &activeB, "kcal", false, 0)
	addMetric(&group, "Total Calories", &totalA, &totalB, "kcal", false, 0)
	addMetric(&group, "High Activity Time", minutes(a.HighActivityTime), minutes(b.HighActivityTime), "min", false, 0)
	addMetric(&group, "Walking Distance", intValue(a.EquivalentWalkingDistance), intValue(b.EquivalentWalkingDistance), "m", false, 0)
	return group, true
}

func resilienceGroup(statsA, statsB *models.DailyStats) (models.ComparisonGroup, bool) {
	group := newGroup("Resilience & Stress", nil, nil)

	stressA, okA := first(statsA.Stress)
	stressB, okB := first(statsB.Stress)
	if okA && okB {
		addMetric(&group, "Time in High Stress", minutes(stressA.StressHigh), minutes(stressB.StressHigh), "min", true, 0)
		addMetric(&group, "Recovery Time", minutes(stressA.RecoveryHigh), minutes(stressB.RecoveryHigh), "min", false, 0)
	}

	resA, okA := first(statsA.Resilience)
	resB, okB := first(statsB.Resilience)
	if okA && okB && resA.Contributors != nil && resB.Contributors != nil {
		addMetric(&group, "Sleep Recovery", resA.Contributors.SleepRecovery, resB.Contributors.SleepRecovery, "", false, 100)
		addMetric(&group, "Daytime Recovery", resA.Contributors.DaytimeRecovery, resB.Contributors.DaytimeRecovery, "", false, 100)
		addMetric(&group, "Stress Resilience", resA.Contributors.Stress, resB.Contributors.Stress, "", false, 100)
	}

	if len(group.Metrics) == 0 {
		return models.ComparisonGroup{}, false
	}
	return group, true
}

func newGroup(title string, scoreA, scoreB *int) models.ComparisonGroup {
	group := models.ComparisonGroup{Title: title, ScoreA: scoreA, ScoreB: scoreB, Metrics: []models.ComparisonMetric{}}
	if scoreA != nil && scoreB != nil {
		switch {
		case *scoreA > *scoreB:
			group.Winner = models.WinnerA
		case *scoreB > *scoreA:
			group.Winner = models.WinnerB
		}
	}
	return group
}

// addMetric appends a row unless either side's value is missing. scaleMax 0
// means "derive": max(a, b) * 1.1, or 100 when both values are zero.
func addMetric(group *models.ComparisonGroup, label string, a, b *float64, unit string, lowerIsBetter bool, scaleMax float64) {
	if a == nil || b == nil {
		return
	}

	metric := models.ComparisonMetric{
		Label:         label,
		ValueA:        *a,
		ValueB:        *b,
		Unit:          unit,
		LowerIsBetter: lowerIsBetter,
		ScaleMax:      scaleMax,
	}
	if metric.ScaleMax == 0 {
		if derived := math.Max(*a, *b) * 1.1; derived > 0 {
			metric.ScaleMax = derived
		} else {
			metric.ScaleMax = 100
		}
	}

	switch {
	case *a == *b:
		metric.Winner = models.WinnerNone
	case (*a > *b) != lowerIsBetter:
		metric.Winner = models.WinnerA
	default:
		metric.Winner = models.WinnerB
	}

	group.Metrics = append(group.Metrics, metric)
}

func first[T any](items []T) (T, bool) {
	if len(items) == 0 {
		var zero T
		return zero, false
	}
	return items[0], true
}

func intValue(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

// intScore is intValue under a name that signals 0-100 contributor scores.
func intScore(v *int) *float64 {
	return intValue(v)
}

// minutes converts a nullable seconds duration into minutes, rounded.
func minutes(seconds *int) *float64 {
	if seconds == nil {
		return nil
	}
	m := math.Round(float64(*seconds) / 60.0)
	return &m
}
