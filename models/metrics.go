package models

// Daily records mirror the vendor's v2 usercollection payloads. Scores and
// contributor sub-scores are 0-100 and nullable; nil means the ring didn't
// produce that value, which the UI renders as absent. Day keys are the
// vendor-assigned YYYY-MM-DD strings and are never recomputed locally.

type SleepContributors struct {
	DeepSleep   *int `json:"deep_sleep,omitempty"`
	Efficiency  *int `json:"efficiency,omitempty"`
	Latency     *int `json:"latency,omitempty"`
	RemSleep    *int `json:"rem_sleep,omitempty"`
	Restfulness *int `json:"restfulness,omitempty"`
	Timing      *int `json:"timing,omitempty"`
	TotalSleep  *int `json:"total_sleep,omitempty"`
}

type DailySleep struct {
	ID           string            `json:"id"`
	Day          string            `json:"day"`
	Score        *int              `json:"score,omitempty"`
	Timestamp    string            `json:"timestamp,omitempty"`
	Contributors SleepContributors `json:"contributors"`
}

type ReadinessContributors struct {
	ActivityBalance     *int `json:"activity_balance,omitempty"`
	BodyTemperature     *int `json:"body_temperature,omitempty"`
	HRVBalance          *int `json:"hrv_balance,omitempty"`
	PreviousDayActivity *int `json:"previous_day_activity,omitempty"`
	PreviousNight       *int `json:"previous_night,omitempty"`
	RecoveryIndex       *int `json:"recovery_index,omitempty"`
	RestingHeartRate    *int `json:"resting_heart_rate,omitempty"`
	SleepBalance        *int `json:"sleep_balance,omitempty"`
}

type DailyReadiness struct {
	ID                        string                `json:"id"`
	Day                       string                `json:"day"`
	Score                     *int                  `json:"score,omitempty"`
	TemperatureDeviation      *float64              `json:"temperature_deviation,omitempty"`
	TemperatureTrendDeviation *float64              `json:"temperature_trend_deviation,omitempty"`
	Timestamp                 string                `json:"timestamp,omitempty"`
	Contributors              ReadinessContributors `json:"contributors"`
}

type ActivityContributors struct {
	MeetDailyTargets  *int `json:"meet_daily_targets,omitempty"`
	MoveEveryHour     *int `json:"move_every_hour,omitempty"`
	RecoveryTime      *int `json:"recovery_time,omitempty"`
	StayActive        *int `json:"stay_active,omitempty"`
	TrainingFrequency *int `json:"training_frequency,omitempty"`
	TrainingVolume    *int `json:"training_volume,omitempty"`
}

type DailyActivity struct {
	ID                        string               `json:"id"`
	Day                       string               `json:"day"`
	Score                     *int                 `json:"score,omitempty"`
	ActiveCalories            int                  `json:"active_calories"`
	TotalCalories             int                  `json:"total_calories"`
	TargetCalories            int                  `json:"target_calories"`
	Steps                     int                  `json:"steps"`
	EquivalentWalkingDistance *int                 `json:"equivalent_walking_distance,omitempty"`
	HighActivityTime          *int                 `json:"high_activity_time,omitempty"`
	MediumActivityTime        *int                 `json:"medium_activity_time,omitempty"`
	LowActivityTime           *int                 `json:"low_activity_time,omitempty"`
	SedentaryTime             *int                 `json:"sedentary_time,omitempty"`
	RestingTime               *int                 `json:"resting_time,omitempty"`
	NonWearTime               *int                 `json:"non_wear_time,omitempty"`
	AverageMetMinutes         *float64             `json:"average_met_minutes,omitempty"`
	Timestamp                 string               `json:"timestamp,omitempty"`
	Contributors              ActivityContributors `json:"contributors"`
}

// SleepSession is one detected sleep period, richer than the daily summary:
// absolute bed times plus second-granularity stage durations. A day can have
// zero, one or several sessions (naps).
type SleepSession struct {
	ID                 string   `json:"id"`
	Day                string   `json:"day"`
	Type               string   `json:"type,omitempty"`
	BedtimeStart       string   `json:"bedtime_start,omitempty"`
	BedtimeEnd         string   `json:"bedtime_end,omitempty"`
	AverageBreath      *float64 `json:"average_breath,omitempty"`
	AverageHeartRate   *float64 `json:"average_heart_rate,omitempty"`
	AverageHRV         *int     `json:"average_hrv,omitempty"`
	LowestHeartRate    *int     `json:"lowest_heart_rate,omitempty"`
	AwakeTime          *int     `json:"awake_time,omitempty"`
	DeepSleepDuration  *int     `json:"deep_sleep_duration,omitempty"`
	LightSleepDuration *int     `json:"light_sleep_duration,omitempty"`
	RemSleepDuration   *int     `json:"rem_sleep_duration,omitempty"`
	TotalSleepDuration *int     `json:"total_sleep_duration,omitempty"`
	TimeInBed          *int     `json:"time_in_bed,omitempty"`
	Efficiency         *int     `json:"efficiency,omitempty"`
	Latency            *int     `json:"latency,omitempty"`
	RestlessPeriods    *int     `json:"restless_periods,omitempty"`
}

type Spo2Percentage struct {
	Average *float64 `json:"average,omitempty"`
}

type DailySpO2 struct {
	ID                        string          `json:"id"`
	Day                       string          `json:"day"`
	Spo2Percentage            *Spo2Percentage `json:"spo2_percentage,omitempty"`
	BreathingDisturbanceIndex *int            `json:"breathing_disturbance_index,omitempty"`
}

type DailyStress struct {
	ID           string  `json:"id"`
	Day          string  `json:"day"`
	StressHigh   *int    `json:"stress_high,omitempty"`
	RecoveryHigh *int    `json:"recovery_high,omitempty"`
	DaySummary   *string `json:"day_summary,omitempty"`
}

type ResilienceContributors struct {
	SleepRecovery   *float64 `json:"sleep_recovery,omitempty"`
	DaytimeRecovery *float64 `json:"daytime_recovery,omitempty"`
	Stress          *float64 `json:"stress,omitempty"`
}

type DailyResilience struct {
	ID           string                  `json:"id"`
	Day          string                  `json:"day"`
	Level        *string                 `json:"level,omitempty"`
	Contributors *ResilienceContributors `json:"contributors,omitempty"`
}

type Workout struct {
	ID            string   `json:"id"`
	Activity      string   `json:"activity"`
	Day           string   `json:"day"`
	Calories      *float64 `json:"calories,omitempty"`
	Distance      *float64 `json:"distance,omitempty"`
	StartDatetime string   `json:"start_datetime"`
	EndDatetime   string   `json:"end_datetime"`
	Intensity     *string  `json:"intensity,omitempty"`
	Label         *string  `json:"label,omitempty"`
	Source        *string  `json:"source,omitempty"`
}

// HeartRate is one densely-sampled bpm reading with an absolute timestamp.
type HeartRate struct {
	Bpm       int    `json:"bpm"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

// DailyStats is one profile's aggregate bundle, every slice sorted
// descending by day so index 0 is the most recent record. The bundle is
// immutable once returned and replaced wholesale on refetch.
type DailyStats struct {
	Sleep      []DailySleep      `json:"sleep"`
	Readiness  []DailyReadiness  `json:"readiness"`
	Activity   []DailyActivity   `json:"activity"`
	Sessions   []SleepSession    `json:"session"`
	SpO2       []DailySpO2       `json:"spo2"`
	Stress     []DailyStress     `json:"stress"`
	Resilience []DailyResilience `json:"resilience"`
	Workouts   []Workout         `json:"workouts"`
}

// DayKey implementations let the shared day comparator and lookup helpers
// treat every category uniformly.

func (r DailySleep) DayKey() string      { return r.Day }
func (r DailyReadiness) DayKey() string  { return r.Day }
func (r DailyActivity) DayKey() string   { return r.Day }
func (r SleepSession) DayKey() string    { return r.Day }
func (r DailySpO2) DayKey() string       { return r.Day }
func (r DailyStress) DayKey() string     { return r.Day }
func (r DailyResilience) DayKey() string { return r.Day }
func (r Workout) DayKey() string         { return r.Day }
