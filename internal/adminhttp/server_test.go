package adminhttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kestreldata/geofleet/internal/catalog"
	"github.com/kestreldata/geofleet/internal/geonames"
	"github.com/kestreldata/geofleet/internal/manager"
	"github.com/kestreldata/geofleet/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHandle is a no-op manager.Handle that reports a fixed index once
// "started", mirroring the manager package's own test double.
type fakeHandle struct {
	entries []geonames.CountryIndexEntry
}

func (h *fakeHandle) Shutdown()     {}
func (h *fakeHandle) SetTrace(bool) {}
func (h *fakeHandle) Entries() []geonames.CountryIndexEntry { return h.entries }

func newTestServer(t *testing.T, entries ...catalog.Entry) *Server {
	t.Helper()
	cat, err := catalog.New(entries)
	require.NoError(t, err)
	mgr := manager.New(cat, nil, func(ctx context.Context, e catalog.Entry, progress chan<- manager.ProgressEvent, exit chan<- manager.ExitEvent) manager.Handle {
		return &fakeHandle{}
	})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = mgr.Run(ctx) }()
	return New(mgr)
}

func TestHandleServerStatus_RejectsNonGET(t *testing.T) {
	s := newTestServer(t, catalog.Entry{Code: "GB", Name: "United Kingdom", Continent: "Europe"})
	req := httptest.NewRequest(http.MethodPost, "/server_status", nil)
	w := httptest.NewRecorder()
	s.handleServerStatus(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandleServerStatus_ReturnsSnapshot(t *testing.T) {
	s := newTestServer(t, catalog.Entry{Code: "GB", Name: "United Kingdom", Continent: "Europe"})
	req := httptest.NewRequest(http.MethodGet, "/server_status", nil)
	w := httptest.NewRecorder()
	s.handleServerStatus(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp statusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Servers, 1)
	assert.Equal(t, "GB", resp.Servers[0].CountryCode)
	assert.Equal(t, "stopped", resp.Servers[0].Status)
	assert.NotEmpty(t, resp.ErlangMemoryUsage)
}

func TestHandleSearch_TermTooShort(t *testing.T) {
	s := newTestServer(t, catalog.Entry{Code: "GB", Name: "United Kingdom", Continent: "Europe"})
	req := httptest.NewRequest(http.MethodGet, "/search?search_term=ab", nil)
	w := httptest.NewRecorder()
	s.handleSearch(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSearch_NoStartedCountriesReturnsEmpty(t *testing.T) {
	s := newTestServer(t, catalog.Entry{Code: "GB", Name: "United Kingdom", Continent: "Europe"})
	req := httptest.NewRequest(http.MethodGet, "/search?search_term=london", nil)
	w := httptest.NewRecorder()
	s.handleSearch(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var results []search.CityObject
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	assert.Empty(t, results)
}

func TestHandleCmdStart_MissingCode(t *testing.T) {
	s := newTestServer(t, catalog.Entry{Code: "GB", Name: "United Kingdom", Continent: "Europe"})
	req := httptest.NewRequest(http.MethodGet, "/cmd/start", nil)
	w := httptest.NewRecorder()
	s.handleCmdStart(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCmdStart_UnknownCountryReportsError(t *testing.T) {
	s := newTestServer(t, catalog.Entry{Code: "GB", Name: "United Kingdom", Continent: "Europe"})
	req := httptest.NewRequest(http.MethodGet, "/cmd/start?code=XX", nil)
	w := httptest.NewRecorder()
	s.handleCmdStart(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "country_server_not_found", env.Reason)
}

func TestHandleCmdStart_ThenStopRoundTrips(t *testing.T) {
	s := newTestServer(t, catalog.Entry{Code: "GB", Name: "United Kingdom", Continent: "Europe"})

	startReq := httptest.NewRequest(http.MethodGet, "/cmd/start?code=GB", nil)
	startW := httptest.NewRecorder()
	s.handleCmdStart(startW, startReq)
	require.Equal(t, http.StatusOK, startW.Code)

	var startEnv envelope
	require.NoError(t, json.Unmarshal(startW.Body.Bytes(), &startEnv))
	assert.Equal(t, "ok", startEnv.Status)
	assert.Equal(t, "country_server_gb", startEnv.FromServer)

	stopReq := httptest.NewRequest(http.MethodGet, "/cmd/stop?code=GB", nil)
	stopW := httptest.NewRecorder()
	s.handleCmdStop(stopW, stopReq)
	require.Equal(t, http.StatusOK, stopW.Code)
}

func TestHandleCmdTrace_ManagerWide(t *testing.T) {
	s := newTestServer(t, catalog.Entry{Code: "GB", Name: "United Kingdom", Continent: "Europe"})
	req := httptest.NewRequest(http.MethodGet, "/cmd/trace?value=on", nil)
	w := httptest.NewRecorder()
	s.handleCmdTrace(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "ok", env.Status)
	assert.Equal(t, "country_manager", env.FromServer)
}

func TestHandleCmdTrace_UnknownCountry(t *testing.T) {
	s := newTestServer(t, catalog.Entry{Code: "GB", Name: "United Kingdom", Continent: "Europe"})
	req := httptest.NewRequest(http.MethodGet, "/cmd/trace?code=XX&value=on", nil)
	w := httptest.NewRecorder()
	s.handleCmdTrace(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "no_such_country_server", env.Reason)
}

func TestHandleServerInfo_RendersHTML(t *testing.T) {
	s := newTestServer(t, catalog.Entry{Code: "GB", Name: "United Kingdom", Continent: "Europe"})
	req := httptest.NewRequest(http.MethodGet, "/server_info", nil)
	w := httptest.NewRecorder()
	s.handleServerInfo(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "United Kingdom")
}

func TestServer_CommandTimeoutIsBounded(t *testing.T) {
	assert.LessOrEqual(t, CommandTimeout, 30*time.Second)
}
