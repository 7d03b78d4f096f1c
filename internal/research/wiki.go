// Package research provides factual lookups used to ground debate prompts.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultWikiEndpoint = "https://en.wikipedia.org/w/api.php"

// Fact is a single factual snippet with its source.
type Fact struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// WikiClient performs factual lookups against the Wikipedia query API.
type WikiClient struct {
	endpoint   string
	httpClient *http.Client
	// snippetWords bounds the snippet length taken from the page extract.
	snippetWords int
}

// NewWikiClient creates a client for the default Wikipedia endpoint.
func NewWikiClient() *WikiClient {
	return &WikiClient{
		endpoint: defaultWikiEndpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		snippetWords: 40,
	}
}

// NewWikiClientWithEndpoint creates a client for a custom endpoint.
func NewWikiClientWithEndpoint(endpoint string) *WikiClient {
	c := NewWikiClient()
	c.endpoint = endpoint
	return c
}

// wikiResponse mirrors the slice of the MediaWiki query response we consume.
type wikiResponse struct {
	Query struct {
		Pages map[string]struct {
			Title   string `json:"title"`
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

// Lookup fetches the intro extract for the page best matching the query.
func (c *WikiClient) Lookup(ctx context.Context, query string) (*Fact, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("prop", "extracts")
	params.Set("exintro", "true")
	params.Set("explaintext", "true")
	params.Set("redirects", "true")
	params.Set("titles", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wiki request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wiki request failed: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read wiki response: %w", err)
	}

	var parsed wikiResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON from wiki API: %w", err)
	}

	for _, page := range parsed.Query.Pages {
		if page.Extract == "" {
			continue
		}
		words := strings.Fields(page.Extract)
		if len(words) > c.snippetWords {
			words = words[:c.snippetWords]
		}
		return &Fact{
			Title:   page.Title,
			Snippet: strings.Join(words, " "),
			URL:     "https://en.wikipedia.org/wiki/" + strings.ReplaceAll(page.Title, " ", "_"),
		}, nil
	}

	return nil, fmt.Errorf("no results found for %q", query)
}

// FormatFacts renders facts as a block suitable for inclusion in a prompt.
func FormatFacts(facts ...*Fact) string {
	var b strings.Builder
	b.WriteString("Wikipedia facts:\n")
	for i, f := range facts {
		if f == nil {
			continue
		}
		fmt.Fprintf(&b, "%d. %s\n   %s\n   URL: %s\n", i+1, f.Title, f.Snippet, f.URL)
	}
	return b.String()
}
