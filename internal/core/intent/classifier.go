package intent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Drashti7312/FinancialChatBot/internal/logx"
	"github.com/Drashti7312/FinancialChatBot/internal/models"
)

// Completer is the single-prompt completion surface this package needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type intentRule struct {
	intent   models.Intent
	patterns []*regexp.Regexp
}

func compileAll(exprs ...string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		patterns = append(patterns, regexp.MustCompile(expr))
	}
	return patterns
}

// Rules are checked in order against the lowercased query; the first match
// wins, so more specific intents sit above general_query.
var rules = []intentRule{
	{models.IntentStatisticalAnalysis, compileAll(
		`analyze.*csv`, `analyze.*excel`, `data.*analysis`,
		`statistical.*analysis`, `average.*monthly`, `correlation`,
		`standard.*deviation`, `statistical.*summary`, `descriptive.*statistics`,
		`mean.*median`, `analyze.*data`, `csv.*analysis`,
	)},
	{models.IntentFinancialTrendAnalysis, compileAll(
		`trend.*analysis`, `show.*trend`, `trend.*over.*time`,
		`growth.*pattern`, `trend.*comparison`, `revenue.*trend`,
		`profit.*analysis`, `financial.*trend`, `quarterly.*trend`,
		`sales.*trend`, `trend.*in.*data`,
	)},
	{models.IntentExtractTableData, compileAll(
		`extract.*table`, `get.*data.*table`, `table.*information`,
		`top.*products`, `extract.*from.*table`, `table.*data`,
		`get.*top.*records`, `filter.*data`, `search.*in.*table`,
	)},
	{models.IntentDocumentSummarizer, compileAll(
		`summarize.*document`, `summary.*pdf`, `key.*points`,
		`summarize.*docx`, `overview.*document`, `document.*summary`,
		`summarize.*file`, `main.*points`,
	)},
	{models.IntentWebResearch, compileAll(
		`latest.*news`, `current.*market`, `web.*research`,
		`online.*report`, `market.*trends.*online`, `search.*web`,
		`web.*query`, `url.*analysis`, `website.*content`,
	)},
	{models.IntentComparativeAnalysis, compileAll(
		`compare.*documents`, `comparative.*analysis`, `comparison.*between`,
		`compare.*files`, `difference.*between`, `contrast.*documents`,
		`compare.*reports`, `side.*by.*side`, `vs`, `versus`,
	)},
	{models.IntentGeneralQuery, compileAll(
		`what.*is`, `how.*to`, `explain`, `tell.*me.*about`,
		`last.*question`, `previous.*conversation`, `help.*me`,
		`can.*you`, `hello`, `hi`, `thanks`, `thank.*you`,
	)},
}

// Classifier resolves a user query to one of the seven intents, trying the
// rule table first and falling back to the model for anything ambiguous.
type Classifier struct {
	model Completer
}

func NewClassifier(model Completer) *Classifier {
	return &Classifier{model: model}
}

// Classify never fails: any model error or unrecognized answer collapses
// to general_query. conversation carries the recent transcript so the model
// can resolve queries that only make sense in context.
func (c *Classifier) Classify(ctx context.Context, query, conversation string) models.Intent {
	lowered := strings.ToLower(query)
	for _, rule := range rules {
		for _, pattern := range rule.patterns {
			if pattern.MatchString(lowered) {
				logx.Debug().Str("intent", string(rule.intent)).Msg("intent classified via rules")
				return rule.intent
			}
		}
	}

	contextBlock := ""
	if strings.TrimSpace(conversation) != "" {
		contextBlock = fmt.Sprintf("Recent conversation:\n%s\n", conversation)
	}
	prompt := fmt.Sprintf(`Classify the following query into one of these financial chatbot intents:
The user query may be in any of the languages.
Detect the intent regardless of the language and translate internally if necessary.
- statistical_analysis: For analyzing CSV/Excel data, calculating statistics, descriptive analysis
- financial_trend_analysis: For analyzing trends in financial data over time, growth patterns
- extract_table_data: For extracting specific data from tables, filtering, getting top records
- document_summarizer: For summarizing PDF/DOCX documents, getting key points
- web_research: For researching current market/financial information online, analyzing web content
- comparative_analysis: For comparing multiple documents or datasets side by side
- general_query: For general questions, greetings, and conversations

%sQuery: "%s"

Consider the recent conversation when the query alone is ambiguous.
Prefer web_research when the query mentions URLs or asks about latest news.
Return only the intent name exactly as listed above.`, contextBlock, query)

	answer, err := c.model.Complete(ctx, prompt)
	if err != nil {
		logx.Warn().Err(err).Msg("intent classification fallback failed")
		return models.IntentGeneralQuery
	}
	if intent, ok := models.ParseIntent(answer); ok {
		logx.Debug().Str("intent", string(intent)).Msg("intent classified via model")
		return intent
	}
	logx.Warn().Str("answer", answer).Msg("model returned unknown intent")
	return models.IntentGeneralQuery
}
