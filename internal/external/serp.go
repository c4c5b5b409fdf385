package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"jobrec/search-service/internal/geo"
	"jobrec/search-service/internal/model"
)

const (
	serpBaseURL = "https://serpapi.com/search"
	serpTimeout = 15 * time.Second

	// keywords requested from the extraction service per listing
	extractKeywordsPerListing = 3

	// provider rate limit: requests per second with a small burst
	serpRequestsPerSecond = 2
	serpBurst             = 4
)

// KeywordExtractor enriches a text blob with ranked keywords.
type KeywordExtractor interface {
	Extract(ctx context.Context, text string, maxKeywords int) []string
}

// SerpClient fetches job listings from Google Jobs via SerpAPI.
// With no API key configured, Search returns (nil, nil) so callers serve an
// empty result set instead of failing the request.
type SerpClient struct {
	apiKey         string
	baseURL        string
	defaultKeyword string
	resultsLimit   int

	converter geo.Converter
	extractor KeywordExtractor
	client    *http.Client
	limiter   *rate.Limiter
}

// NewSerpClient constructs a job search client with a shared HTTP client.
func NewSerpClient(apiKey, defaultKeyword string, resultsLimit int, converter geo.Converter, extractor KeywordExtractor) *SerpClient {
	return &SerpClient{
		apiKey:         apiKey,
		baseURL:        serpBaseURL,
		defaultKeyword: defaultKeyword,
		resultsLimit:   resultsLimit,
		converter:      converter,
		extractor:      extractor,
		client:         &http.Client{Timeout: serpTimeout},
		limiter:        rate.NewLimiter(rate.Limit(serpRequestsPerSecond), serpBurst),
	}
}

// serpResponse mirrors the top-level SerpAPI Google Jobs response.
type serpResponse struct {
	JobsResults []serpJob `json:"jobs_results"`
}

// serpJob mirrors a single Google Jobs listing.
type serpJob struct {
	JobID        string              `json:"job_id"`
	Title        string              `json:"title"`
	CompanyName  string              `json:"company_name"`
	Location     string              `json:"location"`
	Via          string              `json:"via"`
	Description  string              `json:"description"`
	JobHighlight []serpHighlightNode `json:"job_highlights"`
	RelatedLinks []serpRelatedLink   `json:"related_links"`
	Extensions   []string            `json:"extensions"`
}

type serpHighlightNode struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

type serpRelatedLink struct {
	Link string `json:"link"`
}

// Search fetches listings near (lat, lon) matching keyword. An empty keyword
// is replaced with the configured default term. Transport and parse failures
// return an error; the caller degrades to an empty result set rather than
// failing the request.
func (c *SerpClient) Search(ctx context.Context, lat, lon float64, keyword string) ([]model.Listing, error) {
	if c.apiKey == "" {
		log.Println("[serp] SERPAPI_KEY not set, skipping external search")
		return nil, nil
	}

	if keyword == "" {
		keyword = c.defaultKeyword
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("engine", "google_jobs")
	params.Set("q", keyword)
	params.Set("uule", c.converter.Convert(lat, lon))
	params.Set("api_key", c.apiKey)

	reqURL := c.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	// Non-200 and empty bodies are "no results", not errors: the provider
	// being unhappy must never fail the search request.
	if resp.StatusCode != http.StatusOK {
		log.Printf("[serp] provider returned %d, treating as no results", resp.StatusCode)
		return nil, nil
	}
	if len(body) == 0 {
		return nil, nil
	}

	listings, err := parseSearchResponse(body)
	if err != nil {
		return nil, err
	}
	if c.resultsLimit > 0 && len(listings) > c.resultsLimit {
		listings = listings[:c.resultsLimit]
	}

	c.enrichKeywords(ctx, listings)
	return listings, nil
}

// parseSearchResponse converts the provider JSON into canonical listings,
// preserving the provider's result order.
func parseSearchResponse(body []byte) ([]model.Listing, error) {
	var r serpResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	listings := make([]model.Listing, 0, len(r.JobsResults))
	for _, j := range r.JobsResults {
		var highlights []string
		for _, group := range j.JobHighlight {
			highlights = append(highlights, group.Items...)
		}

		var applyURL string
		if len(j.RelatedLinks) > 0 {
			applyURL = j.RelatedLinks[0].Link
		}

		listings = append(listings, model.Listing{
			ID:          j.JobID,
			Title:       j.Title,
			CompanyName: j.CompanyName,
			Location:    j.Location,
			Via:         j.Via,
			Description: j.Description,
			Highlights:  highlights,
			URL:         applyURL,
			Keywords:    uniqueKeywords(j.Extensions, nil),
		})
	}
	return listings, nil
}

// enrichKeywords runs keyword extraction for every listing over its
// description and highlights. Extraction calls are independent, so they run
// concurrently; listing order is preserved because each goroutine writes only
// its own index.
func (c *SerpClient) enrichKeywords(ctx context.Context, listings []model.Listing) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i := range listings {
		i := i
		g.Go(func() error {
			article := listings[i].Description + ". " + strings.Join(listings[i].Highlights, ". ")
			extracted := c.extractor.Extract(gctx, article, extractKeywordsPerListing)
			listings[i].Keywords = uniqueKeywords(listings[i].Keywords, extracted)
			return nil
		})
	}
	_ = g.Wait() // extraction never reports errors; it degrades instead
}

// uniqueKeywords unions two keyword lists into a sorted, deduplicated slice.
// Sorting keeps the JSON output stable across requests and cache round-trips.
func uniqueKeywords(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	merged := make([]string, 0, len(a)+len(b))
	for _, kw := range append(append([]string{}, a...), b...) {
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		merged = append(merged, kw)
	}
	sort.Strings(merged)
	return merged
}
