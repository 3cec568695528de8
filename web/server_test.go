// ABOUTME: Tests for the web server routes
// ABOUTME: Runs handlers through httptest against a seeded in-memory store
package web

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/energycrm/crm"
	"github.com/harperreed/energycrm/metrics"
	"github.com/harperreed/energycrm/seed"
	"github.com/harperreed/energycrm/store"
)

var webNow = time.Date(2025, 1, 12, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, *crm.Service) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	s := store.New(store.WithDispatchHook(m.ObserveDispatch))
	require.NoError(t, s.Dispatch(context.Background(), store.LoadData{Data: seed.Partial()}))
	svc := crm.New(s, crm.WithClock(func() time.Time { return webNow }))

	srv, err := NewServer(svc,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithGatherer(reg))
	require.NoError(t, err)
	return srv, svc
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestDashboardPage(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Pipeline by stage")
	assert.Contains(t, body, "closed won")
	assert.Contains(t, body, "Mesa Verde 200MW Solar")

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/nope").Code)
}

func TestListPagesFilter(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(t, srv, "/contacts?q=delgado")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rosa Delgado")
	assert.NotContains(t, rec.Body.String(), "Wesley Grant")

	rec = get(t, srv, "/companies?q=gulf")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Gulf Coast Power &amp; Light")
	assert.NotContains(t, rec.Body.String(), "Prairie Storage Systems")

	rec = get(t, srv, "/deals?stage=negotiation")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1 deal(s)")

	rec = get(t, srv, "/activities")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Proposal walkthrough")
}

func TestAPIDeals(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(t, srv, "/api/deals?where=value+%3E+5000000&limit=2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Deals []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"deals"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Deals, 2)
	assert.Equal(t, "d3", body.Deals[0].ID)

	rec = get(t, srv, "/api/deals?where=value+%3E")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportDownload(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(t, srv, "/export?format=yaml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".yaml")
	assert.Contains(t, rec.Body.String(), "deals:")

	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/export?format=xml").Code)
}

func TestGraphAndDealPartials(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(t, srv, "/partials/graph?type=pipeline")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "digraph")

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/partials/graph?type=company&entity_id=nope").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/partials/graph?type=org").Code)

	rec = get(t, srv, "/partials/deal-detail?id=d1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Mesa Verde 200MW Solar")
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/partials/deal-detail?id=zzz").Code)
}

func TestFollowupDone(t *testing.T) {
	srv, svc := newTestServer(t)

	rec := get(t, srv, "/followups")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "followup-a1")

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/followups/done/a1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Follow-up done")

	a, ok := svc.State().FindActivity("a1")
	require.True(t, ok)
	assert.Nil(t, a.FollowUpDate)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/followups/done/zzz", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `energycrm_store_actions_total{action="load_data"`)
}
