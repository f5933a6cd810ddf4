package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"pulseboard/models"
)

const (
	briefingMissingKey = "AI Briefing unavailable: API key missing."
	briefingFailed     = "Failed to generate briefing. Please try again later."
)

// BriefingService produces the "coach" briefing for a versus pair through
// Gemini. It is strictly additive: the versus metrics never wait on it, and
// every failure degrades to a fixed fallback string instead of an error.
type BriefingService struct {
	apiKey string
	model  string
	log    zerolog.Logger
}

func NewBriefingService(apiKey, model string, logger zerolog.Logger) *BriefingService {
	return &BriefingService{
		apiKey: apiKey,
		model:  model,
		log:    logger.With().Str("component", "briefing").Logger(),
	}
}

// GenerateBriefing summarizes both profiles' latest day in a sassy coach
// persona. statsA/statsB are the full bundles; only the latest day of each
// is sent to the model.
func (s *BriefingService) GenerateBriefing(ctx context.Context, statsA, statsB *models.DailyStats, nameA, nameB string) string {
	if s.apiKey == "" {
		s.log.Warn().Msg("gemini api key missing, skipping briefing")
		return briefingMissingKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create gemini client")
		return briefingFailed
	}
	defer client.Close()

	prompt := fmt.Sprintf(`Compare these two smart-ring stat snapshots for a couple, %s and %s:
%s: %s
%s: %s

Output a 3-sentence summary in a "Coach" persona (sassy but supportive):
1. Who "won" sleep (based on score, readiness, etc).
2. One specific insight (e.g., "%s's HRV tanked").
3. A fun suggestion for their day together based on their energy levels.

Keep it concise and fun.`,
		nameA, nameB,
		nameA, latestSnapshotJSON(statsA),
		nameB, latestSnapshotJSON(statsB),
		nameB,
	)

	model := client.GenerativeModel(s.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		s.log.Error().Err(err).Msg("gemini generation failed")
		return briefingFailed
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		s.log.Error().Msg("gemini returned no candidates")
		return briefingFailed
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return briefingFailed
	}
	return out
}

// latestSnapshotJSON flattens the latest day of a bundle into the compact
// shape the prompt embeds.
func latestSnapshotJSON(stats *models.DailyStats) string {
	snapshot := map[string]any{}

	if sleep, ok := first(stats.Sleep); ok {
		snapshot["sleepScore"] = sleep.Score
		snapshot["day"] = sleep.Day
		if sess, ok := SessionForDay(stats.Sessions, sleep.Day); ok {
			snapshot["totalSleepSeconds"] = sess.TotalSleepDuration
			snapshot["averageHrv"] = sess.AverageHRV
			snapshot["lowestHeartRate"] = sess.LowestHeartRate
			snapshot["bedtimeStart"] = sess.BedtimeStart
		}
	}
	if readiness, ok := first(stats.Readiness); ok {
		snapshot["readinessScore"] = readiness.Score
	}
	if activity, ok := first(stats.Activity); ok {
		snapshot["activityScore"] = activity.Score
		snapshot["steps"] = activity.Steps
		snapshot["activeCalories"] = activity.ActiveCalories
	}
	if stress, ok := first(stats.Stress); ok {
		snapshot["stressHighSeconds"] = stress.StressHigh
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "{}"
	}
	return string(data)
}
