package models

// LeaderboardEntry is derived per aggregation pass, never stored. Average is
// round((sleep+readiness+activity)/3) with a missing score counted as 0, so
// incomplete data is penalized rather than normalized away.
type LeaderboardEntry struct {
	ProfileID        string `json:"id"`
	Rank             int    `json:"rank"`
	Name             string `json:"name"`
	Avatar           string `json:"avatar,omitempty"`
	Readiness        int    `json:"readiness"`
	Sleep            int    `json:"sleep"`
	Activity         int    `json:"activity"`
	Average          int    `json:"average"`
	Steps            *int   `json:"steps,omitempty"`
	ActiveCalories   *int   `json:"activeCalories,omitempty"`
	SleepDuration    *int   `json:"sleepDuration,omitempty"`
	AverageHRV       *int   `json:"averageHrv,omitempty"`
	RestingHeartRate *int   `json:"restingHeartRate,omitempty"`
	IsCurrentUser    bool   `json:"isCurrentUser"`
}
