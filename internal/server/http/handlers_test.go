package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/medline-fetcher/internal/fetcher"
)

const testESearchXML = `<?xml version="1.0"?>
<eSearchResult>
<Count>2</Count>
<IdList>
<Id>11111111</Id>
<Id>22222222</Id>
</IdList>
</eSearchResult>`

const testEFetchXML = `<?xml version="1.0"?>
<PubmedArticleSet>
	<PubmedArticle>
		<MedlineCitation Status="MEDLINE">
			<PMID>11111111</PMID>
			<Article>
				<Journal>
					<JournalIssue><PubDate><Year>2020</Year></PubDate></JournalIssue>
					<Title>Test Journal</Title>
					<ISOAbbreviation>Test J</ISOAbbreviation>
				</Journal>
				<ArticleTitle>Handler Test Article</ArticleTitle>
			</Article>
		</MedlineCitation>
	</PubmedArticle>
</PubmedArticleSet>`

// newTestServer builds a Server whose fetcher points at a mock E-utilities
// endpoint.
func newTestServer(t *testing.T, upstream http.HandlerFunc) *Server {
	t.Helper()

	mock := httptest.NewServer(upstream)
	t.Cleanup(mock.Close)

	httpClient := fetcher.NewHTTPClient(fetcher.HTTPClientConfig{RateLimit: 100, BurstSize: 10})
	f := fetcher.NewWithHTTPClient(fetcher.Config{BaseURL: mock.URL}, httpClient, zerolog.Nop())

	return NewServer(Config{Address: "127.0.0.1:0"}, f, nil, zerolog.Nop())
}

func eutilsHandler(esearchBody, efetchBody string, esearchStatus, efetchStatus int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "esearch.fcgi") {
			w.WriteHeader(esearchStatus)
			io.WriteString(w, esearchBody)
			return
		}
		w.WriteHeader(efetchStatus)
		io.WriteString(w, efetchBody)
	}
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t, eutilsHandler("", "", http.StatusOK, http.StatusOK))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestSearchHandler(t *testing.T) {
	t.Run("returns cleaned entries", func(t *testing.T) {
		s := newTestServer(t, eutilsHandler(testESearchXML, testEFetchXML, http.StatusOK, http.StatusOK))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=cancer", nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp searchResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		assert.Equal(t, "cancer", resp.Query)
		assert.Equal(t, 1, resp.Count)
		require.Len(t, resp.Entries, 1)
		assert.Equal(t, "Handler Test Article", resp.Entries[0].Fields["title"])

		// Provider-internal fields are stripped before serving.
		assert.NotContains(t, resp.Entries[0].Fields, "journal-abbreviation")
		assert.NotContains(t, resp.Entries[0].Fields, "status")
	})

	t.Run("empty query returns an empty result without upstream calls", func(t *testing.T) {
		var upstreamCalls int
		s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			upstreamCalls++
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp searchResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 0, resp.Count)
		assert.Empty(t, resp.Entries)
		assert.Equal(t, 0, upstreamCalls)
	})

	t.Run("upstream failure maps to bad gateway", func(t *testing.T) {
		s := newTestServer(t, eutilsHandler("overloaded", "", http.StatusServiceUnavailable, http.StatusOK))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=cancer", nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("oversized query is rejected", func(t *testing.T) {
		s := newTestServer(t, eutilsHandler(testESearchXML, testEFetchXML, http.StatusOK, http.StatusOK))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q="+strings.Repeat("a", maxQueryLength+1), nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetEntryHandler(t *testing.T) {
	t.Run("returns a single cleaned entry", func(t *testing.T) {
		s := newTestServer(t, eutilsHandler("", testEFetchXML, http.StatusOK, http.StatusOK))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/entries/11111111", nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp entryResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Entry)
		assert.Equal(t, "Handler Test Article", resp.Entry.Fields["title"])
		assert.NotContains(t, resp.Entry.Fields, "status")
	})

	t.Run("rejects non-numeric entry id", func(t *testing.T) {
		var upstreamCalls int
		s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			upstreamCalls++
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/entries/not-a-pmid", nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, 0, upstreamCalls)
	})

	t.Run("missing entry returns not found", func(t *testing.T) {
		s := newTestServer(t, eutilsHandler("", `<?xml version="1.0"?><PubmedArticleSet></PubmedArticleSet>`, http.StatusOK, http.StatusOK))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/entries/99999999", nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCorrelationIDMiddleware(t *testing.T) {
	t.Run("generates an id when absent", func(t *testing.T) {
		s := newTestServer(t, eutilsHandler("", "", http.StatusOK, http.StatusOK))

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
	})

	t.Run("echoes a caller-provided id", func(t *testing.T) {
		s := newTestServer(t, eutilsHandler("", "", http.StatusOK, http.StatusOK))

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("X-Correlation-ID", "caller-id-42")
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		assert.Equal(t, "caller-id-42", rec.Header().Get("X-Correlation-ID"))
	})
}
