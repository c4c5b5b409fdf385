// Package external wraps the third-party APIs the search path depends on:
// the Google Jobs search provider (via SerpAPI) and the EdenAI keyword
// extraction service. Both clients degrade instead of failing: a missing key
// or an unreachable provider yields empty results, never a hard error on the
// request path.
package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"time"
)

const (
	edenExtractURL = "https://api.edenai.run/v2/text/keyword_extraction"
	edenTimeout    = 10 * time.Second
)

// EdenClient extracts ranked keywords from a text blob.
// If APIKey is empty, Extract returns nil gracefully.
type EdenClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewEdenClient constructs a keyword extraction client.
func NewEdenClient(apiKey string) *EdenClient {
	return &EdenClient{
		apiKey:  apiKey,
		baseURL: edenExtractURL,
		client:  &http.Client{Timeout: edenTimeout},
	}
}

type edenRequest struct {
	Providers string `json:"providers"`
	Text      string `json:"text"`
	Language  string `json:"language"`
}

// edenResponse mirrors the provider-scoped EdenAI response.
type edenResponse struct {
	IBM *edenProviderResult `json:"ibm"`
}

type edenProviderResult struct {
	Items []edenKeyword `json:"items"`
}

type edenKeyword struct {
	Keyword    string  `json:"keyword"`
	Importance float64 `json:"importance"`
}

// Extract returns up to maxKeywords keywords for text, ranked by importance.
// Any HTTP failure, non-200 status or unexpected response shape degrades to
// an empty result: keyword extraction is an enrichment, never a requirement.
func (c *EdenClient) Extract(ctx context.Context, text string, maxKeywords int) []string {
	if c.apiKey == "" || text == "" || maxKeywords <= 0 {
		return nil
	}

	payload, err := json.Marshal(edenRequest{Providers: "ibm", Text: text, Language: "en"})
	if err != nil {
		log.Printf("[eden] marshal request: %v", err)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		log.Printf("[eden] build request: %v", err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("[eden] http POST: %v", err)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[eden] read body: %v", err)
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("[eden] keyword extraction returned %d", resp.StatusCode)
		return nil
	}

	items, err := parseExtractResponse(body)
	if err != nil {
		log.Printf("[eden] %v", err)
		return nil
	}

	return selectTopKeywords(items, maxKeywords)
}

// parseExtractResponse pulls the (keyword, importance) pairs out of the
// provider-scoped response, erroring when the expected structure is absent.
func parseExtractResponse(body []byte) ([]edenKeyword, error) {
	var r edenResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if r.IBM == nil {
		return nil, fmt.Errorf("no ibm results in response")
	}
	return r.IBM.Items, nil
}

// selectTopKeywords picks up to max keywords, consuming whole importance
// tiers from the highest score downward and individual keywords within a
// tier in encounter order. A tier may be only partially consumed when the
// cap is reached mid-tier.
func selectTopKeywords(items []edenKeyword, max int) []string {
	if len(items) == 0 || max <= 0 {
		return nil
	}

	tiers := make(map[float64][]string)
	scores := make([]float64, 0, len(items))
	for _, it := range items {
		if _, seen := tiers[it.Importance]; !seen {
			scores = append(scores, it.Importance)
		}
		tiers[it.Importance] = append(tiers[it.Importance], it.Keyword)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))

	selected := make([]string, 0, max)
	seen := make(map[string]struct{})
	for _, score := range scores {
		for _, kw := range tiers[score] {
			if len(selected) == max {
				return selected
			}
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			selected = append(selected, kw)
		}
	}
	return selected
}
