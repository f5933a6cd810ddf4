package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pulseboard/models"
)

// Category names mirror the vendor's endpoint paths. They show up in fetch
// errors so the presentation layer can tell which stream broke.
const (
	CategorySleep        = "daily_sleep"
	CategoryReadiness    = "daily_readiness"
	CategoryActivity     = "daily_activity"
	CategorySessions     = "sleep"
	CategoryHeartRate    = "heartrate"
	CategorySpO2         = "daily_spo2"
	CategoryStress       = "daily_stress"
	CategoryResilience   = "daily_resilience"
	CategoryWorkouts     = "workout"
	CategoryPersonalInfo = "personal_info"
)

var ErrInvalidDateRange = errors.New("date range start is after end")

// FetchError is a failed category fetch: which category, and the HTTP status
// when the vendor answered at all. A 401 means the profile's token is dead
// and only that profile should be deauthorized.
type FetchError struct {
	Category   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Category, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Category, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is a vendor 401 for some category.
func IsUnauthorized(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.StatusCode == http.StatusUnauthorized
}

// FetchCategory returns the category carried by a FetchError, or "".
func FetchCategory(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Category
	}
	return ""
}

// DateRange is a [start, end] day pair, day granularity. The zero value asks
// the client for its per-category default.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

func (r DateRange) Validate() error {
	if r.End.Before(r.Start) {
		return ErrInvalidDateRange
	}
	return nil
}

// LastNDays is the range ending today and starting n days back, computed
// from the wall-clock date.
func LastNDays(n int) DateRange {
	now := time.Now()
	return DateRange{Start: now.AddDate(0, 0, -n), End: now}
}

const dayFormat = "2006-01-02"

// OuraClient fetches one category of time-series data per call. It holds no
// state across calls; caching belongs to the aggregation layer.
type OuraClient struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewOuraClient(baseURL string, logger zerolog.Logger) *OuraClient {
	return &OuraClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     logger.With().Str("component", "oura_client").Logger(),
	}
}

// envelope is the vendor's response shape. An absent data key decodes to a
// nil slice and is treated as "no records", not an error.
type envelope[T any] struct {
	Data []T `json:"data"`
}

func (c *OuraClient) get(ctx context.Context, category, path, token string, query url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, &FetchError{Category: category, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Category: category, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			Category:   category,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Category: category, Err: fmt.Errorf("read response: %w", err)}
	}
	return body, nil
}

func fetchCollection[T any](ctx context.Context, c *OuraClient, category, path, token string, query url.Values) ([]T, error) {
	body, err := c.get(ctx, category, path, token, query)
	if err != nil {
		return nil, err
	}
	var env envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &FetchError{Category: category, Err: fmt.Errorf("decode response: %w", err)}
	}
	if env.Data == nil {
		return []T{}, nil
	}
	return env.Data, nil
}

func dateQuery(r DateRange) url.Values {
	return url.Values{
		"start_date": {r.Start.Format(dayFormat)},
		"end_date":   {r.End.Format(dayFormat)},
	}
}

// datetimeQuery spans the range's whole days, for the high-density
// heart rate endpoint which takes datetimes instead of dates.
func datetimeQuery(r DateRange) url.Values {
	return url.Values{
		"start_datetime": {r.Start.Format(dayFormat) + "T00:00:00"},
		"end_datetime":   {r.End.Format(dayFormat) + "T23:59:59"},
	}
}

func resolveRange(r DateRange, defaultDays int) (DateRange, error) {
	if r.IsZero() {
		return LastNDays(defaultDays), nil
	}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

func (c *OuraClient) DailySleep(ctx context.Context, token string, r DateRange) ([]models.DailySleep, error) {
	r, err := resolveRange(r, 30)
	if err != nil {
		return nil, err
	}
	return fetchCollection[models.DailySleep](ctx, c, CategorySleep, "/daily_sleep", token, dateQuery(r))
}

func (c *OuraClient) DailyReadiness(ctx context.Context, token string, r DateRange) ([]models.DailyReadiness, error) {
	r, err := resolveRange(r, 30)
	if err != nil {
		return nil, err
	}
	return fetchCollection[models.DailyReadiness](ctx, c, CategoryReadiness, "/daily_readiness", token, dateQuery(r))
}

func (c *OuraClient) DailyActivity(ctx context.Context, token string, r DateRange) ([]models.DailyActivity, error) {
	r, err := resolveRange(r, 30)
	if err != nil {
		return nil, err
	}
	return fetchCollection[models.DailyActivity](ctx, c, CategoryActivity, "/daily_activity", token, dateQuery(r))
}

func (c *OuraClient) SleepSessions(ctx context.Context, token string, r DateRange) ([]models.SleepSession, error) {
	r, err := resolveRange(r, 30)
	if err != nil {
		return nil, err
	}
	return fetchCollection[models.SleepSession](ctx, c, CategorySessions, "/sleep", token, dateQuery(r))
}

// HeartRate defaults to the last 2 days: the endpoint is sampled roughly
// every 5 minutes and a 30-day pull would be enormous.
func (c *OuraClient) HeartRate(ctx context.Context, token string, r DateRange) ([]models.HeartRate, error) {
	r, err := resolveRange(r, 2)
	if err != nil {
		return nil, err
	}
	return fetchCollection[models.HeartRate](ctx, c, CategoryHeartRate, "/heartrate", token, datetimeQuery(r))
}

func (c *OuraClient) DailySpO2(ctx context.Context, token string, r DateRange) ([]models.DailySpO2, error) {
	r, err := resolveRange(r, 30)
	if err != nil {
		return nil, err
	}
	return fetchCollection[models.DailySpO2](ctx, c, CategorySpO2, "/daily_spo2", token, dateQuery(r))
}

func (c *OuraClient) DailyStress(ctx context.Context, token string, r DateRange) ([]models.DailyStress, error) {
	r, err := resolveRange(r, 30)
	if err != nil {
		return nil, err
	}
	return fetchCollection[models.DailyStress](ctx, c, CategoryStress, "/daily_stress", token, dateQuery(r))
}

func (c *OuraClient) DailyResilience(ctx context.Context, token string, r DateRange) ([]models.DailyResilience, error) {
	r, err := resolveRange(r, 30)
	if err != nil {
		return nil, err
	}
	return fetchCollection[models.DailyResilience](ctx, c, CategoryResilience, "/daily_resilience", token, dateQuery(r))
}

func (c *OuraClient) Workouts(ctx context.Context, token string, r DateRange) ([]models.Workout, error) {
	r, err := resolveRange(r, 30)
	if err != nil {
		return nil, err
	}
	return fetchCollection[models.Workout](ctx, c, CategoryWorkouts, "/workout", token, dateQuery(r))
}

// PersonalInfo is the only non-enveloped endpoint: a single identity record.
func (c *OuraClient) PersonalInfo(ctx context.Context, token string) (*models.PersonalInfo, error) {
	body, err := c.get(ctx, CategoryPersonalInfo, "/personal_info", token, url.Values{})
	if err != nil {
		return nil, err
	}
	var info models.PersonalInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, &FetchError{Category: CategoryPersonalInfo, Err: fmt.Errorf("decode response: %w", err)}
	}
	return &info, nil
}
