package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rut304/Matchups-sub005/pkg/models"
)

type fakeStore struct {
	pingErr   error
	alerts    []models.EdgeAlert
	alertsErr error
	buckets   []models.CLVBucket
	bets      []models.BetRecord
	summaries []models.JobSummary

	gotSport  string
	gotSince  time.Time
	gotLimit  int
	gotOffset int
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) ActiveAlerts(_ context.Context, sport string, _ time.Time, limit, offset int) ([]models.EdgeAlert, error) {
	f.gotSport, f.gotLimit, f.gotOffset = sport, limit, offset
	return f.alerts, f.alertsErr
}

func (f *fakeStore) CLVReport(context.Context) ([]models.CLVBucket, error) {
	return f.buckets, nil
}

func (f *fakeStore) RecentlyGraded(_ context.Context, since time.Time, limit, offset int) ([]models.BetRecord, error) {
	f.gotSince, f.gotLimit, f.gotOffset = since, limit, offset
	return f.bets, nil
}

func (f *fakeStore) RecentSummaries(_ context.Context, limit int) ([]models.JobSummary, error) {
	f.gotLimit = limit
	return f.summaries, nil
}

func doRequest(t *testing.T, store *fakeStore, path string) *httptest.ResponseRecorder {
	t.Helper()
	router := Router(NewHandler(store), []string{"*"})
	req := httptest.NewRequest("GET", path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	rec := doRequest(t, &fakeStore{}, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, &fakeStore{pingErr: errors.New("connection refused")}, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetAlerts(t *testing.T) {
	store := &fakeStore{alerts: []models.EdgeAlert{
		{ID: "a1", Type: models.AlertTypeSteam, Sport: "nfl", Severity: models.SeverityMajor},
	}}

	rec := doRequest(t, store, "/api/v1/alerts?sport=nfl&limit=25&offset=50")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "nfl", store.gotSport)
	assert.Equal(t, 25, store.gotLimit)
	assert.Equal(t, 50, store.gotOffset)

	var body struct {
		Alerts []models.EdgeAlert `json:"alerts"`
		Count  int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Alerts, 1)
	assert.Equal(t, "a1", body.Alerts[0].ID)
	assert.Equal(t, 1, body.Count)
}

func TestGetAlertsCapsLimit(t *testing.T) {
	store := &fakeStore{}
	rec := doRequest(t, store, "/api/v1/alerts?limit=9999")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 500, store.gotLimit)
}

func TestGetAlertsStoreError(t *testing.T) {
	store := &fakeStore{alertsErr: errors.New("query timeout")}
	rec := doRequest(t, store, "/api/v1/alerts")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, http.StatusInternalServerError, errResp.Code)
}

func TestGetCLVReport(t *testing.T) {
	store := &fakeStore{buckets: []models.CLVBucket{
		{BetType: models.BetTypeSpread, Count: 40, AvgCLV: 0.75, BeatCloseRate: 0.55},
	}}

	rec := doRequest(t, store, "/api/v1/clv/report")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Buckets []models.CLVBucket `json:"buckets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Buckets, 1)
	assert.Equal(t, models.BetTypeSpread, body.Buckets[0].BetType)
}

func TestGetGradedBetsSinceParam(t *testing.T) {
	store := &fakeStore{}

	rec := doRequest(t, store, "/api/v1/bets/graded?since=2024-01-14T00:00:00Z")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2024, store.gotSince.Year())

	rec = doRequest(t, store, "/api/v1/bets/graded?since=yesterday")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetJobSummaries(t *testing.T) {
	store := &fakeStore{summaries: []models.JobSummary{
		{Job: "backfill", Sport: "nfl", Updated: 12},
	}}

	rec := doRequest(t, store, "/api/v1/jobs?limit=10")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, store.gotLimit)

	var body struct {
		Jobs []models.JobSummary `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Jobs, 1)
	assert.Equal(t, "backfill", body.Jobs[0].Job)
}
