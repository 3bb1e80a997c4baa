package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/Drashti7312/FinancialChatBot/internal/logx"
	"github.com/Drashti7312/FinancialChatBot/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/cloudwego/eino-ext/components/tool/duckduckgo/v2"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
)

const (
	webFetchTimeout     = 30 * time.Second
	maxWebContentLength = 4000
	browserUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// WebResearcher answers questions about web page content. When the page
// cannot be fetched it falls back to a DuckDuckGo search on the query.
type WebResearcher struct {
	model      Completer
	httpClient *http.Client
	searcher   tool.InvokableTool
}

func NewWebResearcher(model Completer) *WebResearcher {
	return &WebResearcher{
		model:      model,
		httpClient: &http.Client{Timeout: webFetchTimeout},
		searcher:   initSearchFallback(),
	}
}

func initSearchFallback() tool.InvokableTool {
	searcher, err := duckduckgo.NewTextSearchTool(context.Background(), &duckduckgo.Config{
		ToolName:   "web_search_ddg",
		ToolDesc:   "DuckDuckGo Search Tool (no token required)",
		MaxResults: 3,
		Region:     duckduckgo.RegionWT,
		Timeout:    10 * time.Second,
	})
	if err != nil {
		logx.Warn().Err(err).Msg("search fallback disabled")
		return nil
	}
	return searcher
}

func (w *WebResearcher) Name() string { return "web_research" }

func (w *WebResearcher) Info() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name: w.Name(),
		Desc: "Answer user questions based on web URL content",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"url": {
				Desc:     "The web URL to fetch content from",
				Type:     schema.String,
				Required: true,
			},
			"query": {
				Desc:     "The user's question about the web content",
				Type:     schema.String,
				Required: true,
			},
		}),
	}
}

func (w *WebResearcher) Execute(ctx context.Context, req Request) models.ToolResult {
	target := strings.TrimSpace(req.URL)
	query := strings.TrimSpace(req.Query)
	if target == "" {
		return models.FailureResult("No URL provided")
	}
	if query == "" {
		return models.FailureResult("No query provided")
	}

	content, err := w.fetchWebContent(ctx, target)
	if err != nil {
		logx.Warn().Str("url", target).Err(err).Msg("web fetch failed, trying search")
		content, err = w.searchFallback(ctx, query)
		if err != nil {
			return models.FailureResult(fmt.Sprintf("Failed to fetch URL: %s", err))
		}
	}

	runes := []rune(content)
	truncated := len(runes) > maxWebContentLength
	if truncated {
		content = string(runes[:maxWebContentLength]) + "...\n[Content truncated due to length]"
	}

	answer, err := w.answerQuery(ctx, content, query, target)
	if err != nil {
		return models.FailureResult(fmt.Sprintf("Error processing query: %s", err))
	}

	return models.SuccessResult(map[string]any{
		"answer":            answer,
		"url":               target,
		"query":             query,
		"content_length":    len(content),
		"content_truncated": truncated,
	})
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func (w *WebResearcher) fetchWebContent(ctx context.Context, target string) (string, error) {
	parsed, err := url.Parse(target)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid URL format")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", browserUserAgent)

	resp, err := w.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("fetch %s: status %d", target, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, nav, footer, header, aside").Remove()

	text := whitespaceRun.ReplaceAllString(doc.Text(), " ")
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("no readable content found on the webpage")
	}
	return text, nil
}

func (w *WebResearcher) searchFallback(ctx context.Context, query string) (string, error) {
	if w.searcher == nil {
		return "", fmt.Errorf("no search provider available")
	}
	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return "", fmt.Errorf("marshal search params: %w", err)
	}
	result, err := w.searcher.InvokableRun(ctx, string(payload))
	if err != nil {
		return "", fmt.Errorf("search: %w", err)
	}
	if strings.TrimSpace(result) == "" {
		return "", fmt.Errorf("search returned no results")
	}
	return result, nil
}

func (w *WebResearcher) answerQuery(ctx context.Context, content, query, source string) (string, error) {
	prompt := fmt.Sprintf(`You are an intelligent assistant that answers questions based on web content. You have been provided with the content from a webpage and a user's query about that content.

Your task is to:
1. Analyze the provided web content thoroughly
2. Answer the user's question accurately and comprehensively
3. Base your answer ONLY on the information available in the provided content
4. If the content doesn't contain enough information to answer the question, clearly state that
5. Provide specific details and quotes when relevant
6. Structure your answer in a clear, organized manner

Web Content Source: %s

Web Content:
%s

User Query: %s

Instructions:
- Be precise and factual in your response
- If you find relevant information, provide a detailed answer with specific examples
- If the information is incomplete, mention what aspects cannot be answered from the content
- Use clear headings or bullet points when appropriate for better readability
- Maintain a professional and helpful tone

Summarize in 500 words`, source, content, query)

	answer, err := w.model.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}
