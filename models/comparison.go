package models

import "time"

// Side identifies which profile wins a comparison row. Empty means tie.
type Side string

const (
	WinnerA    Side = "a"
	WinnerB    Side = "b"
	WinnerNone Side = ""
)

// ComparisonMetric is one labeled row of the versus view. ScaleMax keeps the
// bar proportions meaningful for open-ended metrics like step count.
type ComparisonMetric struct {
	Label         string  `json:"label"`
	ValueA        float64 `json:"valueA"`
	ValueB        float64 `json:"valueB"`
	Unit          string  `json:"unit,omitempty"`
	LowerIsBetter bool    `json:"lowerIsBetter,omitempty"`
	ScaleMax      float64 `json:"scaleMax"`
	Winner        Side    `json:"winner,omitempty"`
}

// ComparisonGroup is a named cluster of metric rows with an optional pair of
// headline scores. The headline winner is a plain greater-than comparison,
// independent of the row-level logic.
type ComparisonGroup struct {
	Title   string             `json:"title"`
	ScoreA  *int               `json:"scoreA,omitempty"`
	ScoreB  *int               `json:"scoreB,omitempty"`
	Winner  Side               `json:"winner,omitempty"`
	Metrics []ComparisonMetric `json:"metrics"`
}

// AlignedHeartRate is one 5-minute bucket of the merged two-profile heart
// rate series. A nil bpm means that profile had no sample in the bucket.
type AlignedHeartRate struct {
	Time      string    `json:"time"`
	Timestamp time.Time `json:"timestamp"`
	BpmA      *int      `json:"bpmA,omitempty"`
	BpmB      *int      `json:"bpmB,omitempty"`
}
