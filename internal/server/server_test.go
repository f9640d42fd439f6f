package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seabeam/echofetch/internal/blobstore/memstore"
	"github.com/seabeam/echofetch/internal/discover"
	"github.com/seabeam/echofetch/internal/fetch"
	"github.com/seabeam/echofetch/internal/resolve"
)

const (
	cacheBucket   = "echofetch-cache"
	archiveBucket = "noaa-wcsd-pds"

	rawName    = "2107RL_CW-D20210813-T220732.raw"
	rawArchKey = "data/raw/Reuben_Lasker/RL2107/EK80/" + rawName
)

func newTestServer(t *testing.T) (*Server, *memstore.Store, *memstore.Store) {
	t.Helper()
	cache := memstore.New()
	archive := memstore.New()

	resolver := &resolve.Resolver{
		Cache:         cache,
		CacheBucket:   cacheBucket,
		Archive:       archive,
		ArchiveBucket: archiveBucket,
	}
	srv := &Server{
		Resolver: resolver,
		Orchestrator: &fetch.Orchestrator{
			Resolver:   resolver,
			StagingDir: t.TempDir(),
		},
		Explorer: &discover.Explorer{Store: archive, Bucket: archiveBucket},
	}
	return srv, cache, archive
}

func doRequest(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["version"])
}

func TestResolveFound(t *testing.T) {
	srv, _, archive := newTestServer(t)
	archive.Seed(archiveBucket, rawArchKey, []byte("raw-payload"))

	rec := doRequest(t, srv, http.MethodGet,
		"/v1/resolve?ship=Reuben_Lasker&survey=RL2107&echosounder=EK80&file_name="+rawName, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body resolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "archive", body.FoundIn)
	assert.Equal(t, rawArchKey, body.Key)
	assert.Equal(t, int64(len("raw-payload")), body.Size)
}

func TestResolveNowhere(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodGet,
		"/v1/resolve?ship=Reuben_Lasker&survey=RL2107&echosounder=EK80&file_name="+rawName, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body resolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "none", body.FoundIn)
}

func TestResolveUnknownShip(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodGet,
		"/v1/resolve?ship=Not_A_Vessel&survey=RL2107&echosounder=EK80&file_name="+rawName, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unknown_ship", body.Kind)
}

func TestFetchEndpoint(t *testing.T) {
	srv, cache, archive := newTestServer(t)
	archive.Seed(archiveBucket, rawArchKey, []byte("raw-payload"))

	rec := doRequest(t, srv, http.MethodPost, "/v1/fetch", `{
		"ship": "Reuben_Lasker",
		"survey": "RL2107",
		"echosounder": "EK80",
		"file_name": "`+rawName+`"
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body fetchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "done", body.State)
	assert.Equal(t, "archive", body.Source)
	assert.NotEmpty(t, body.RunID)

	cacheKey := "NCEI/Reuben_Lasker/RL2107/EK80/data/raw/" + rawName
	assert.Equal(t, []byte("raw-payload"), cache.Bytes(cacheBucket, cacheKey))
}

func TestFetchMissingIs404(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodPost, "/v1/fetch", `{
		"ship": "Reuben_Lasker",
		"survey": "RL2107",
		"echosounder": "EK80",
		"file_name": "`+rawName+`"
	}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFetchMalformedBody(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodPost, "/v1/fetch", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestArchiveBrowsing(t *testing.T) {
	srv, _, archive := newTestServer(t)
	archive.Seed(archiveBucket, rawArchKey, []byte("x"))
	archive.Seed(archiveBucket, "data/raw/Oscar_Dyson/DY2206/EK60/2206DY-D20220601-T120000.raw", []byte("x"))

	rec := doRequest(t, srv, http.MethodGet, "/v1/archive/ships", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var ships map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ships))
	assert.Equal(t, []string{"Oscar_Dyson", "Reuben_Lasker"}, ships["ships"])

	rec = doRequest(t, srv, http.MethodGet, "/v1/archive/ships/Reuben_Lasker/surveys", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var surveys map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &surveys))
	assert.Equal(t, []string{"RL2107"}, surveys["surveys"])

	rec = doRequest(t, srv, http.MethodGet,
		"/v1/archive/ships/Reuben_Lasker/surveys/RL2107/echosounders/EK80/files", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var files map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &files))
	assert.Equal(t, []string{rawName}, files["files"])
}

func TestArchiveBrowsingEmpty(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/v1/archive/ships", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var ships map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ships))
	assert.NotNil(t, ships["ships"])
	assert.Empty(t, ships["ships"])
}
