package research

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("action") != "query" || q.Get("prop") != "extracts" {
			t.Errorf("unexpected query params: %s", r.URL.RawQuery)
		}
		if q.Get("titles") != "Artificial intelligence" {
			t.Errorf("titles = %q", q.Get("titles"))
		}
		w.Write([]byte(`{"query":{"pages":{"123":{"title":"Artificial intelligence","extract":"Artificial intelligence is the capability of computational systems to perform tasks typically associated with human intelligence."}}}}`))
	}))
	defer srv.Close()

	c := NewWikiClientWithEndpoint(srv.URL)
	fact, err := c.Lookup(context.Background(), "Artificial intelligence")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if fact.Title != "Artificial intelligence" {
		t.Errorf("title = %q", fact.Title)
	}
	if !strings.HasPrefix(fact.Snippet, "Artificial intelligence is") {
		t.Errorf("snippet = %q", fact.Snippet)
	}
	if fact.URL != "https://en.wikipedia.org/wiki/Artificial_intelligence" {
		t.Errorf("url = %q", fact.URL)
	}
}

func TestLookupSnippetBounded(t *testing.T) {
	long := strings.Repeat("word ", 500)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query":{"pages":{"1":{"title":"Long","extract":"` + strings.TrimSpace(long) + `"}}}}`))
	}))
	defer srv.Close()

	c := NewWikiClientWithEndpoint(srv.URL)
	fact, err := c.Lookup(context.Background(), "Long")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got := len(strings.Fields(fact.Snippet)); got > 40 {
		t.Errorf("snippet has %d words, want <= 40", got)
	}
}

func TestLookupNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query":{"pages":{"-1":{"title":"Nope"}}}}`))
	}))
	defer srv.Close()

	c := NewWikiClientWithEndpoint(srv.URL)
	if _, err := c.Lookup(context.Background(), "Nope"); err == nil {
		t.Error("expected error when no page has an extract")
	}
}

func TestLookupHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewWikiClientWithEndpoint(srv.URL)
	if _, err := c.Lookup(context.Background(), "x"); err == nil {
		t.Error("expected error for HTTP 503")
	}
}

func TestFormatFacts(t *testing.T) {
	out := FormatFacts(&Fact{Title: "Go", Snippet: "Go is a language.", URL: "https://en.wikipedia.org/wiki/Go"})
	for _, want := range []string{"Wikipedia facts:", "1. Go", "Go is a language.", "URL: https://en.wikipedia.org/wiki/Go"} {
		if !strings.Contains(out, want) {
			t.Errorf("formatted facts missing %q", want)
		}
	}
}
