package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/TFMV/burrow/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{"docs", "src"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, dir), 0755))
	}
	for _, file := range []string{"docs/guide.md", "src/guide_test.go", "README"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, file), []byte(file), 0644))
	}
	return New(search.Options{Logger: zap.NewNop()}), root
}

func get(t *testing.T, s *Server, path string, params url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path+"?"+params.Encode(), nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestSearchEndpoint(t *testing.T) {
	s, root := newTestServer(t)

	for _, strategy := range []string{"", "parallel", "pool"} {
		rec := get(t, s, "/api/search", url.Values{"q": {"guide"}, "path": {root}, "strategy": {strategy}})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var resp RecordsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Records, 2)
		assert.Equal(t, "guide", resp.Records[0].Name)
		assert.Equal(t, "md", resp.Records[0].Ext)
		assert.Equal(t, "guide_test", resp.Records[1].Name)
		assert.Empty(t, resp.Errors)
	}
}

func TestSearchWireFormat(t *testing.T) {
	s, root := newTestServer(t)

	rec := get(t, s, "/api/search", url.Values{"q": {"docs"}, "path": {root}})
	require.Equal(t, http.StatusOK, rec.Code)

	var raw struct {
		Records []map[string]interface{} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.Len(t, raw.Records, 1)
	for _, key := range []string{"name", "path", "is_directory", "icon", "ext"} {
		assert.Contains(t, raw.Records[0], key)
	}
	assert.Equal(t, true, raw.Records[0]["is_directory"])
}

func TestSearchEndpointErrors(t *testing.T) {
	s, root := newTestServer(t)

	rec := get(t, s, "/api/search", url.Values{"q": {"x"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(t, s, "/api/search", url.Values{"path": {root}, "strategy": {"threads"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	missing := filepath.Join(root, "missing")
	rec = get(t, s, "/api/search", url.Values{"path": {missing}, "strategy": {"pool"}})
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, KindEnumeration, resp.Error.Kind)
	assert.Equal(t, missing, resp.Error.Path)
	assert.NotEmpty(t, resp.Error.Message)
}

func TestSearchEndpointPartial(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	s, root := newTestServer(t)
	locked := filepath.Join(root, "src")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	rec := get(t, s, "/api/search", url.Values{"q": {"guide"}, "path": {root}})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RecordsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Records, 1)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, KindEnumeration, resp.Errors[0].Kind)
	assert.Equal(t, locked, resp.Errors[0].Path)
}

func TestListEndpoint(t *testing.T) {
	s, root := newTestServer(t)

	rec := get(t, s, "/api/list", url.Values{"path": {root}})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RecordsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	var got []string
	for _, r := range resp.Records {
		got = append(got, r.Name)
	}
	assert.Equal(t, []string{"docs", "src", "README"}, got)

	rec = get(t, s, "/api/list", url.Values{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	get(t, s, "/api/list", url.Values{"path": {t.TempDir()}})
	rec = get(t, s, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "burrow_http_requests_total")
}
