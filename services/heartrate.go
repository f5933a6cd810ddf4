package services

import (
	"sort"
	"time"

	"pulseboard/models"
)

// AlignHeartRates merges two profiles' heart rate streams into a single
// 5-minute-bucketed series for overlay plotting. Buckets are keyed by each
// sample's local wall-clock time, offset preserved from the timestamp: the
// comparison is "who fell asleep earlier by clock face", so two wearers in
// different timezones are intentionally compared on local clock time rather
// than a shared absolute timeline.
//
// Within a bucket the last sample of a stream wins; the ring's native 5
// minute sampling rarely lands two samples in one bucket anyway. The result
// is sorted ascending for a left-to-right time axis. Both streams empty
// yields an empty slice, not an error.
func AlignHeartRates(samplesA, samplesB []models.HeartRate) []models.AlignedHeartRate {
	buckets := make(map[string]*models.AlignedHeartRate)

	merge := func(samples []models.HeartRate, assign func(*models.AlignedHeartRate, int)) {
		for _, sample := range samples {
			ts, err := time.Parse(time.RFC3339, sample.Timestamp)
			if err != nil {
				continue
			}
			bucket := bucketTime(ts)
			label := bucket.Format("15:04")
			row, ok := buckets[label]
			if !ok {
				row = &models.AlignedHeartRate{Time: label, Timestamp: bucket}
				buckets[label] = row
			}
			assign(row, sample.Bpm)
		}
	}

	merge(samplesA, func(row *models.AlignedHeartRate, bpm int) { row.BpmA = &bpm })
	merge(samplesB, func(row *models.AlignedHeartRate, bpm int) { row.BpmB = &bpm })

	rows := make([]models.AlignedHeartRate, 0, len(buckets))
	for _, row := range buckets {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Timestamp.Equal(rows[j].Timestamp) {
			return rows[i].Time < rows[j].Time
		}
		return rows[i].Timestamp.Before(rows[j].Timestamp)
	})
	return rows
}

// bucketTime truncates to the preceding 5-minute boundary on the sample's
// own wall clock, not on the UTC instant.
func bucketTime(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), ts.Hour(), ts.Minute()-ts.Minute()%5, 0, 0, ts.Location())
}
