package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestWebResearcherExecute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><script>ignored()</script></head>
<body><nav>menu</nav><p>Quarterly revenue reached 4.2 million dollars.</p><footer>legal</footer></body></html>`))
	}))
	defer server.Close()

	model := &fakeCompleter{answer: "Revenue reached 4.2 million."}
	w := NewWebResearcher(model)
	result := w.Execute(context.Background(), Request{
		URL:   server.URL,
		Query: "what was the revenue?",
	})
	if !result.Success {
		t.Fatalf("expected success, got %s", result.Error)
	}
	if result.Data["answer"] != model.answer {
		t.Fatalf("unexpected answer %v", result.Data["answer"])
	}
	if result.Data["url"] != server.URL {
		t.Fatalf("unexpected url %v", result.Data["url"])
	}
	if result.Data["content_truncated"].(bool) {
		t.Fatalf("short page should not be truncated")
	}

	prompt := model.prompts[0]
	if !strings.Contains(prompt, "Quarterly revenue reached 4.2 million dollars.") {
		t.Fatalf("expected page text in prompt")
	}
	if strings.Contains(prompt, "ignored()") || strings.Contains(prompt, "menu") {
		t.Fatalf("script and nav content should be stripped from prompt")
	}
}

func TestWebResearcherValidation(t *testing.T) {
	w := NewWebResearcher(&fakeCompleter{})

	result := w.Execute(context.Background(), Request{Query: "anything"})
	if result.Success || result.Error != "No URL provided" {
		t.Fatalf("unexpected result %+v", result)
	}
	result = w.Execute(context.Background(), Request{URL: "https://example.com"})
	if result.Success || result.Error != "No query provided" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestWebResearcherFetchFailureWithoutFallback(t *testing.T) {
	w := &WebResearcher{
		model:      &fakeCompleter{},
		httpClient: &http.Client{},
	}
	result := w.Execute(context.Background(), Request{
		URL:   "not-a-url",
		Query: "anything",
	})
	if result.Success {
		t.Fatalf("expected failure for invalid url without search fallback")
	}
	if !strings.Contains(result.Error, "Failed to fetch URL") {
		t.Fatalf("unexpected error %q", result.Error)
	}
}

func TestWebResearcherTruncatesLongContent(t *testing.T) {
	long := strings.Repeat("financial data point. ", 400)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>" + long + "</p></body></html>"))
	}))
	defer server.Close()

	w := NewWebResearcher(&fakeCompleter{answer: "summary"})
	result := w.Execute(context.Background(), Request{URL: server.URL, Query: "summarize"})
	if !result.Success {
		t.Fatalf("expected success, got %s", result.Error)
	}
	if !result.Data["content_truncated"].(bool) {
		t.Fatalf("expected long page to be truncated")
	}
}

func TestWebResearcherTruncatesMultibyteContent(t *testing.T) {
	long := strings.Repeat("कंपनी का राजस्व बढ़ा। ", 300)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body><p>" + long + "</p></body></html>"))
	}))
	defer server.Close()

	model := &fakeCompleter{answer: "summary"}
	w := NewWebResearcher(model)
	result := w.Execute(context.Background(), Request{URL: server.URL, Query: "summarize"})
	if !result.Success {
		t.Fatalf("expected success, got %s", result.Error)
	}
	if !result.Data["content_truncated"].(bool) {
		t.Fatalf("expected long page to be truncated")
	}
	if !utf8.ValidString(model.prompts[0]) {
		t.Fatalf("truncation split a multi-byte character in the prompt")
	}
}
