package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *OuraClient {
	return NewOuraClient(baseURL, zerolog.Nop())
}

func TestDailySleepMissingDataKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	records, err := testClient(srv.URL).DailySleep(context.Background(), "tok", DateRange{})
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestDailySleepEmptyDataArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	records, err := testClient(srv.URL).DailySleep(context.Background(), "tok", DateRange{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetchErrorCarriesCategoryAndStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).DailyReadiness(context.Background(), "tok", DateRange{})
	require.Error(t, err)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, CategoryReadiness, fe.Category)
	assert.Equal(t, http.StatusInternalServerError, fe.StatusCode)
	assert.False(t, IsUnauthorized(err))
}

func TestUnauthorizedIsDistinguishable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).DailyActivity(context.Background(), "expired", DateRange{})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, CategoryActivity, FetchCategory(err))
}

func TestInvalidDateRangeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be issued for an invalid range")
	}))
	defer srv.Close()

	bad := DateRange{
		Start: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	_, err := testClient(srv.URL).DailySleep(context.Background(), "tok", bad)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestHeartRateUsesDatetimeParams(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Write([]byte(`{"data":[{"bpm":62,"source":"sleep","timestamp":"2024-01-02T03:04:00+00:00"}]}`))
	}))
	defer srv.Close()

	r := DateRange{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	samples, err := testClient(srv.URL).HeartRate(context.Background(), "tok", r)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, 62, samples[0].Bpm)
	assert.Contains(t, query, "start_datetime=2024-01-01T00%3A00%3A00")
	assert.Contains(t, query, "end_datetime=2024-01-02T23%3A59%3A59")
}

func TestBearerTokenSent(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).DailyStress(context.Background(), "secret-token", DateRange{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", auth)
}

func TestPersonalInfoDecodesSingleRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/personal_info", r.URL.Path)
		w.Write([]byte(`{"id":"u1","age":34,"email":"alice@example.com","biological_sex":"female"}`))
	}))
	defer srv.Close()

	info, err := testClient(srv.URL).PersonalInfo(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", info.Email)
	require.NotNil(t, info.Age)
	assert.Equal(t, 34, *info.Age)
}
