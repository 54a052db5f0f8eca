package fetcher

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/helixir/medline-fetcher/internal/domain"
	"github.com/helixir/medline-fetcher/internal/importer"
	"github.com/helixir/medline-fetcher/internal/importer/medline"
)

const (
	// DefaultBaseURL is the base URL for the NCBI E-utilities API.
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	// DefaultRateLimit is the rate limit without an API key (3 requests/second).
	DefaultRateLimit = 3.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 3

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 30 * time.Second

	// fetcherName is the human-readable name for this fetcher.
	fetcherName = "Medline"

	// maxErrorBody caps how much of an error response body is read back for
	// diagnostics.
	maxErrorBody = 1 << 20
)

// Patterns for the esearch response scan. Identifiers and the total count
// each appear on their own tag-delimited line in the response header region.
var (
	idPattern    = regexp.MustCompile(`<Id>(\d+)</Id>`)
	countPattern = regexp.MustCompile(`<Count>(\d+)</Count>`)
)

// idListCloseTag marks the end of the relevant region of an esearch
// response; nothing after it is read.
const idListCloseTag = "</IdList>"

// Config holds the configuration for the medline fetcher.
type Config struct {
	// BaseURL is the base URL for the E-utilities API.
	// Defaults to DefaultBaseURL if empty.
	BaseURL string

	// APIKey is the NCBI API key for higher rate limits.
	// Optional but recommended for production use.
	APIKey string

	// Timeout is the request timeout.
	// Defaults to DefaultTimeout if zero.
	Timeout time.Duration

	// RateLimit is the maximum requests per second.
	// Defaults to DefaultRateLimit (3 req/sec) if zero.
	RateLimit float64

	// BurstSize is the maximum burst of requests allowed.
	// Defaults to DefaultBurstSize if zero.
	BurstSize int
}

// applyDefaults applies default values to the config.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RateLimit == 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.BurstSize == 0 {
		c.BurstSize = DefaultBurstSize
	}
}

// SearchOutcome is the result of the search phase: the identifiers the API
// enumerated plus the total match count it reported. Count may exceed
// len(IDs) because the API caps how many identifiers one response lists;
// the fetcher does not renegotiate that cap. CountKnown is false when the
// count tag never appeared before the identifier list closed.
type SearchOutcome struct {
	IDs        []string
	Count      int
	CountKnown bool
}

// Fetcher resolves free-text queries into bibliographic entries via the
// two-phase search/fetch pipeline. It holds no per-call state and is safe
// for concurrent use.
type Fetcher struct {
	config     Config
	httpClient *HTTPClient
	parser     importer.Parser
	logger     zerolog.Logger
}

// New creates a new medline fetcher with the given configuration.
func New(cfg Config, logger zerolog.Logger) *Fetcher {
	cfg.applyDefaults()

	httpClient := NewHTTPClient(HTTPClientConfig{
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
		BurstSize: cfg.BurstSize,
	})

	return NewWithHTTPClient(cfg, httpClient, logger)
}

// NewWithHTTPClient creates a new medline fetcher with a custom HTTP client.
// This is useful for testing with mock servers.
func NewWithHTTPClient(cfg Config, httpClient *HTTPClient, logger zerolog.Logger) *Fetcher {
	cfg.applyDefaults()
	return &Fetcher{
		config:     cfg,
		httpClient: httpClient,
		parser:     medline.New(),
		logger:     logger.With().Str("fetcher", fetcherName).Logger(),
	}
}

// Name returns the human-readable name of this fetcher.
func (f *Fetcher) Name() string {
	return fetcherName
}

// normalizeQuery rewrites free-text comma syntax into the boolean
// conjunction the E-utilities term parameter expects. The comma-space pass
// runs first so "a, b" becomes "a AND b" rather than "a AND  b".
// Normalization is idempotent.
func normalizeQuery(query string) string {
	query = strings.ReplaceAll(query, ", ", " AND ")
	return strings.ReplaceAll(query, ",", " AND ")
}

// EntryURL returns the efetch URL retrieving the record(s) named by
// identifier. Multiple identifiers may be passed comma-joined; that is how
// the batch fetch services arbitrarily many records in one round trip.
func (f *Fetcher) EntryURL(identifier string) (*url.URL, error) {
	u, err := url.Parse(f.config.BaseURL + "/efetch.fcgi")
	if err != nil {
		return nil, &domain.RequestError{URL: f.config.BaseURL, Cause: err}
	}

	q := u.Query()
	q.Set("db", "pubmed")
	q.Set("retmode", "xml")
	q.Set("id", identifier)
	if f.config.APIKey != "" {
		q.Set("api_key", f.config.APIKey)
	}
	u.RawQuery = q.Encode()
	return u, nil
}

// searchURL builds the esearch URL for a normalized query term.
func (f *Fetcher) searchURL(term string) (*url.URL, error) {
	u, err := url.Parse(f.config.BaseURL + "/esearch.fcgi")
	if err != nil {
		return nil, &domain.RequestError{URL: f.config.BaseURL, Cause: err}
	}

	q := u.Query()
	q.Set("db", "pubmed")
	q.Set("sort", "relevance")
	q.Set("term", term)
	if f.config.APIKey != "" {
		q.Set("api_key", f.config.APIKey)
	}
	u.RawQuery = q.Encode()
	return u, nil
}

// Search queries the search endpoint and scans the response incrementally
// for matching identifiers and the total-count tag. The scan stops at the
// closing identifier-list tag: the response is a large document and only its
// header region carries the needed signals, so the rest is never read or
// materialized. On any failure the partial scan is discarded.
func (f *Fetcher) Search(ctx context.Context, query string) (*SearchOutcome, error) {
	term := normalizeQuery(query)

	u, err := f.searchURL(term)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &domain.RequestError{URL: u.String(), Cause: err}
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewFetchError("esearch request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, domain.NewExternalAPIError(fetcherName, resp.StatusCode, string(body), nil)
	}

	outcome := &SearchOutcome{}
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxErrorBody)

	// Everything relevant is listed before the IdList closes, so the scan
	// breaks right there.
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, idListCloseTag) {
			break
		}
		if m := idPattern.FindStringSubmatch(line); m != nil {
			outcome.IDs = append(outcome.IDs, m[1])
		}
		if m := countPattern.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				outcome.Count = n
				outcome.CountKnown = true
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, domain.NewFetchError("read esearch response", err)
	}

	return outcome, nil
}

// FetchBatch retrieves the full records for the given identifiers with a
// single efetch request and hands the response stream to the record parser.
// Parser warnings are logged and processing continues with the entries that
// were recovered; a fatal parse condition is surfaced as an error.
func (f *Fetcher) FetchBatch(ctx context.Context, ids []string) ([]*domain.Entry, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	u, err := f.EntryURL(strings.Join(ids, ","))
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &domain.RequestError{URL: u.String(), Cause: err}
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewFetchError("efetch request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, domain.NewExternalAPIError(fetcherName, resp.StatusCode, string(body), nil)
	}

	result, err := f.parser.Parse(bufio.NewReader(resp.Body))
	if err != nil {
		return nil, err
	}
	if result.HasWarnings() {
		f.logger.Warn().
			Int("entries", len(result.Entries)).
			Str("warnings", result.WarningMessage()).
			Msg("record parser reported warnings")
	}

	return result.Entries, nil
}

// cleanupFields names the provider-only metadata removed from every fetched
// entry before it is handed to the caller.
var cleanupFields = []string{
	domain.FieldJournalAbbreviation,
	domain.FieldStatus,
	domain.FieldCopyright,
}

// CleanupEntry removes provider-specific metadata fields not relevant to the
// caller's schema. It is idempotent and callable standalone; no other field
// is touched.
func (f *Fetcher) CleanupEntry(entry *domain.Entry) {
	for _, field := range cleanupFields {
		entry.ClearField(field)
	}
}

// PerformSearch resolves a free-text query into cleaned bibliographic
// entries: normalize, search for identifiers, fetch the enumerated subset in
// one batch, post-process each record. An empty query returns an empty list
// without any network access. A failure in either network phase aborts the
// whole operation; no partial result is returned.
func (f *Fetcher) PerformSearch(ctx context.Context, query string) ([]*domain.Entry, error) {
	if query == "" {
		return []*domain.Entry{}, nil
	}

	term := normalizeQuery(query)

	outcome, err := f.Search(ctx, term)
	if err != nil {
		return nil, err
	}

	if len(outcome.IDs) == 0 {
		f.logger.Info().Str("query", query).Msg("no results found")
	}
	if outcome.CountKnown && outcome.Count > len(outcome.IDs) {
		// The API caps how many identifiers one search response enumerates.
		// Log-only: no follow-up pagination request is issued.
		f.logger.Info().
			Int("total_results", outcome.Count).
			Int("fetched", len(outcome.IDs)).
			Msg("more results found than will be fetched")
	}

	var entries []*domain.Entry
	if len(outcome.IDs) > 0 {
		entries, err = f.FetchBatch(ctx, outcome.IDs)
		if err != nil {
			return nil, err
		}
	}

	for _, entry := range entries {
		f.CleanupEntry(entry)
	}

	if entries == nil {
		entries = []*domain.Entry{}
	}
	return entries, nil
}
