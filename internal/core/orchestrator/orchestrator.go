package orchestrator

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/Drashti7312/FinancialChatBot/internal/core/intent"
	"github.com/Drashti7312/FinancialChatBot/internal/core/lang"
	"github.com/Drashti7312/FinancialChatBot/internal/core/params"
	"github.com/Drashti7312/FinancialChatBot/internal/core/response"
	"github.com/Drashti7312/FinancialChatBot/internal/logx"
	"github.com/Drashti7312/FinancialChatBot/internal/models"
	"github.com/Drashti7312/FinancialChatBot/internal/service/store"
	"github.com/Drashti7312/FinancialChatBot/internal/tools"
)

const (
	noResponseApology = "I apologize, but I couldn't process your request properly."
	errorApology      = "I apologize, but I encountered an error while processing your request."
)

// State carries one query through the processing pipeline.
type State struct {
	SessionID  string
	UserID     string
	MessageID  string
	Query      string
	Language   string
	Intent     models.Intent
	Documents  *models.SessionDocuments
	ToolResult models.ToolResult
	Response   string
}

// Orchestrator runs the four-stage pipeline: language, intent, tool,
// response. Every stage absorbs its own failures so a user always gets a
// reply.
type Orchestrator struct {
	detector   *lang.Detector
	classifier *intent.Classifier
	processor  *response.Processor
	registry   *tools.Registry
	store      *store.Service
}

func New(detector *lang.Detector, classifier *intent.Classifier, processor *response.Processor, registry *tools.Registry, st *store.Service) *Orchestrator {
	return &Orchestrator{
		detector:   detector,
		classifier: classifier,
		processor:  processor,
		registry:   registry,
		store:      st,
	}
}

// ProcessQuery resolves the user's language and intent, dispatches the
// matching tool, and formats the result. It never returns an error; worst
// case the reply is an apology.
func (o *Orchestrator) ProcessQuery(ctx context.Context, state *State) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Any("panic", r).Msg("query pipeline panicked")
			reply = errorApology
		}
	}()
	if state == nil || state.Query == "" {
		return noResponseApology
	}

	state.Language = o.detector.GetOrDetect(ctx, state.UserID, state.SessionID, state.Query)
	state.Intent = o.classifier.Classify(ctx, state.Query, o.recentHistory(ctx, state))
	state.ToolResult = o.executeTool(ctx, state)

	if state.ToolResult.Success {
		state.Response = o.processor.Format(ctx, state.ToolResult, state.Intent, state.Query, state.Language)
	} else {
		state.Response = o.processor.HandleFailure(ctx, state.ToolResult, state.Intent, state.Query, state.Language)
	}
	if strings.TrimSpace(state.Response) == "" {
		return o.processor.Translate(ctx, noResponseApology, state.Language)
	}

	logx.Info().
		Str("session_id", state.SessionID).
		Str("intent", string(state.Intent)).
		Bool("tool_success", state.ToolResult.Success).
		Msg("query processed")
	return state.Response
}

// recentHistory renders the last few messages for the classifier's model
// fallback.
func (o *Orchestrator) recentHistory(ctx context.Context, state *State) string {
	messages, err := o.store.GetMessages(ctx, state.SessionID, state.UserID, 5)
	if err != nil {
		logx.Warn().Err(err).Msg("load classification context")
		return ""
	}
	return params.FormatHistory(messages)
}

func (o *Orchestrator) executeTool(ctx context.Context, state *State) models.ToolResult {
	switch state.Intent {
	case models.IntentStatisticalAnalysis, models.IntentFinancialTrendAnalysis, models.IntentExtractTableData:
		return o.runDataAnalysis(ctx, state)
	case models.IntentDocumentSummarizer:
		return o.runSummarizer(ctx, state)
	case models.IntentWebResearch:
		return o.runWebResearch(ctx, state)
	case models.IntentComparativeAnalysis:
		return o.runComparative(ctx, state)
	default:
		return o.runGeneralQuery(ctx, state)
	}
}

// dataFileKinds is the lookup order for tabular tools.
var dataFileKinds = []string{"csv", "excel", "xlsx", "xls"}

// documentFileKinds is the lookup order for document tools.
var documentFileKinds = []string{"pdf", "docx"}

func (o *Orchestrator) runDataAnalysis(ctx context.Context, state *State) models.ToolResult {
	data, kind, ok := o.firstRelevantFile(ctx, state.Documents, dataFileKinds)
	if !ok {
		name := strings.ReplaceAll(string(state.Intent), "_", " ")
		return models.FailureResult(fmt.Sprintf("No relevant files found for %s", name))
	}

	req := tools.Request{
		Query:     state.Query,
		MessageID: state.MessageID,
		FileData:  data,
		FileType:  kind,
	}
	switch state.Intent {
	case models.IntentFinancialTrendAnalysis:
		req.Metric = params.ExtractMetric(state.Query)
	case models.IntentExtractTableData:
		req.Table = params.ParseTableParams(state.Query)
	}
	return o.invoke(ctx, string(state.Intent), req)
}

func (o *Orchestrator) runSummarizer(ctx context.Context, state *State) models.ToolResult {
	data, kind, ok := o.firstRelevantFile(ctx, state.Documents, documentFileKinds)
	if !ok {
		return models.FailureResult("No PDF or DOCX files found for summarization")
	}
	return o.invoke(ctx, string(state.Intent), tools.Request{
		Query:    state.Query,
		FileData: data,
		FileType: kind,
	})
}

func (o *Orchestrator) runWebResearch(ctx context.Context, state *State) models.ToolResult {
	target := ""
	if urls := params.ExtractURLs(state.Query); len(urls) > 0 {
		target = urls[0]
	} else {
		link, err := o.store.LatestLink(ctx, state.SessionID, state.UserID)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				logx.Warn().Err(err).Msg("load latest link")
			}
			return models.FailureResult("No URL provided for web research")
		}
		target = link.URL
	}
	return o.invoke(ctx, string(state.Intent), tools.Request{
		Query: state.Query,
		URL:   target,
	})
}

func (o *Orchestrator) runComparative(ctx context.Context, state *State) models.ToolResult {
	var docs []tools.DocumentInput
	if state.Documents != nil {
		for _, kind := range documentFileKinds {
			for _, id := range state.Documents.IDsForKind(kind) {
				_, content, err := o.store.LoadFile(ctx, id)
				if err != nil {
					logx.Warn().Str("document_id", id).Err(err).Msg("load comparison document")
					continue
				}
				docs = append(docs, tools.DocumentInput{
					DocumentType: kind,
					DocumentName: fmt.Sprintf("Document_%d", len(docs)+1),
					FileData:     base64.StdEncoding.EncodeToString(content),
				})
			}
		}
	}
	if len(docs) < 2 {
		return models.FailureResult("Need at least 2 documents for comparative analysis")
	}
	return o.invoke(ctx, string(state.Intent), tools.Request{
		Query:     state.Query,
		MessageID: state.MessageID,
		Documents: docs,
	})
}

func (o *Orchestrator) runGeneralQuery(ctx context.Context, state *State) models.ToolResult {
	contextStr := ""
	messages, err := o.store.GetMessages(ctx, state.SessionID, state.UserID, 5)
	if err != nil {
		logx.Warn().Err(err).Msg("load conversation context")
	} else {
		contextStr = params.ConversationContext(messages)
	}
	return o.invoke(ctx, "general_query", tools.Request{
		Query:   state.Query,
		Context: contextStr,
	})
}

// firstRelevantFile loads the newest stored file matching the kind order.
func (o *Orchestrator) firstRelevantFile(ctx context.Context, docs *models.SessionDocuments, kinds []string) ([]byte, string, bool) {
	if docs == nil {
		return nil, "", false
	}
	for _, kind := range kinds {
		for _, id := range docs.IDsForKind(kind) {
			_, content, err := o.store.LoadFile(ctx, id)
			if err != nil {
				logx.Warn().Str("document_id", id).Err(err).Msg("load session file")
				continue
			}
			return content, kind, true
		}
	}
	return nil, "", false
}

func (o *Orchestrator) invoke(ctx context.Context, name string, req tools.Request) models.ToolResult {
	t, ok := o.registry.Get(name)
	if !ok {
		return models.FailureResult(fmt.Sprintf("Tool execution failed: unknown tool %s", name))
	}
	return t.Execute(ctx, req)
}
