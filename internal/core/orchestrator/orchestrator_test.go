package orchestrator

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/Drashti7312/FinancialChatBot/internal/config"
	"github.com/Drashti7312/FinancialChatBot/internal/core/intent"
	"github.com/Drashti7312/FinancialChatBot/internal/core/lang"
	"github.com/Drashti7312/FinancialChatBot/internal/core/response"
	"github.com/Drashti7312/FinancialChatBot/internal/models"
	"github.com/Drashti7312/FinancialChatBot/internal/service/store"
	"github.com/Drashti7312/FinancialChatBot/internal/storage"
	"github.com/Drashti7312/FinancialChatBot/internal/tools"
)

// fakeCompleter answers language detection prompts with English and echoes
// a canned reply for everything else, recording the prompts it saw.
type fakeCompleter struct {
	reply   string
	prompts []string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if strings.Contains(prompt, "Detect the language") {
		return "English", nil
	}
	return f.reply, nil
}

func newTestOrchestrator(t *testing.T, model *fakeCompleter) (*Orchestrator, *store.Service, *sql.DB) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Database.Driver = "sqlite3"
	cfg.Database.DSN = ":memory:"
	db, err := storage.Open(cfg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := storage.Migrate(db, "sqlite3"); err != nil {
		t.Fatalf("migrate db: %v", err)
	}
	st := store.NewService(db, nil)
	registry := tools.NewRegistry(
		tools.NewStatisticalAnalyzer(),
		tools.NewTrendAnalyzer(),
		tools.NewTableExtractor(),
		tools.NewDocumentSummarizer(model),
		tools.NewWebResearcher(model),
		tools.NewComparativeAnalyzer(model),
		tools.NewGeneralQuery(model),
	)
	orch := New(
		lang.NewDetector(model, st),
		intent.NewClassifier(model),
		response.NewProcessor(model),
		registry,
		st,
	)
	return orch, st, db
}

func TestProcessQueryEmptyInput(t *testing.T) {
	orch, _, db := newTestOrchestrator(t, &fakeCompleter{reply: "ok"})
	defer db.Close()

	if got := orch.ProcessQuery(context.Background(), nil); got != noResponseApology {
		t.Fatalf("nil state should apologize, got %q", got)
	}
	if got := orch.ProcessQuery(context.Background(), &State{}); got != noResponseApology {
		t.Fatalf("empty query should apologize, got %q", got)
	}
}

func TestProcessQueryGeneralConversation(t *testing.T) {
	model := &fakeCompleter{reply: "Hello! How can I help with your finances?"}
	orch, _, db := newTestOrchestrator(t, model)
	defer db.Close()

	state := &State{SessionID: "s1", UserID: "u1", MessageID: "m1", Query: "hello there"}
	reply := orch.ProcessQuery(context.Background(), state)
	if reply == "" {
		t.Fatalf("expected a reply")
	}
	if state.Intent != models.IntentGeneralQuery {
		t.Fatalf("expected general_query intent, got %s", state.Intent)
	}
	if !state.ToolResult.Success {
		t.Fatalf("general query should succeed, got %s", state.ToolResult.Error)
	}
}

func TestProcessQueryDataAnalysisWithoutFiles(t *testing.T) {
	model := &fakeCompleter{reply: "Please upload a data file first."}
	orch, _, db := newTestOrchestrator(t, model)
	defer db.Close()

	state := &State{SessionID: "s1", UserID: "u1", Query: "analyze my csv data"}
	reply := orch.ProcessQuery(context.Background(), state)
	if reply == "" {
		t.Fatalf("expected a reply")
	}
	if state.Intent != models.IntentStatisticalAnalysis {
		t.Fatalf("expected statistical_analysis, got %s", state.Intent)
	}
	if state.ToolResult.Success {
		t.Fatalf("expected failure without uploaded files")
	}
	if state.ToolResult.Error != "No relevant files found for statistical analysis" {
		t.Fatalf("unexpected error %q", state.ToolResult.Error)
	}
}

func TestProcessQueryStatisticalAnalysisWithFile(t *testing.T) {
	model := &fakeCompleter{reply: "Sales average 25 across four rows."}
	orch, st, db := newTestOrchestrator(t, model)
	defer db.Close()
	ctx := context.Background()

	if _, err := st.StoreFile(ctx, "s1", "u1", "sales.csv", "csv", []byte("Product,Sales\nA,10\nB,20\nC,30\nD,40\n")); err != nil {
		t.Fatalf("store file: %v", err)
	}
	docs, err := st.GetSessionDocuments(ctx, "s1", "u1")
	if err != nil {
		t.Fatalf("get documents: %v", err)
	}

	state := &State{SessionID: "s1", UserID: "u1", Query: "run a statistical analysis", Documents: docs}
	reply := orch.ProcessQuery(ctx, state)
	if !state.ToolResult.Success {
		t.Fatalf("expected tool success, got %s", state.ToolResult.Error)
	}
	if reply != model.reply {
		t.Fatalf("expected formatted model reply, got %q", reply)
	}
}

func TestProcessQuerySummarizerWithoutDocuments(t *testing.T) {
	orch, _, db := newTestOrchestrator(t, &fakeCompleter{reply: "upload something"})
	defer db.Close()

	state := &State{SessionID: "s1", UserID: "u1", Query: "summarize the document"}
	orch.ProcessQuery(context.Background(), state)
	if state.ToolResult.Success {
		t.Fatalf("expected failure without documents")
	}
	if state.ToolResult.Error != "No PDF or DOCX files found for summarization" {
		t.Fatalf("unexpected error %q", state.ToolResult.Error)
	}
}

func TestProcessQueryComparativeNeedsTwoDocuments(t *testing.T) {
	orch, _, db := newTestOrchestrator(t, &fakeCompleter{reply: "need more docs"})
	defer db.Close()

	state := &State{SessionID: "s1", UserID: "u1", Query: "compare these documents"}
	orch.ProcessQuery(context.Background(), state)
	if state.ToolResult.Success {
		t.Fatalf("expected failure with no documents")
	}
	if state.ToolResult.Error != "Need at least 2 documents for comparative analysis" {
		t.Fatalf("unexpected error %q", state.ToolResult.Error)
	}
}

func TestProcessQueryWebResearchWithoutURL(t *testing.T) {
	orch, _, db := newTestOrchestrator(t, &fakeCompleter{reply: "no url"})
	defer db.Close()

	state := &State{SessionID: "s1", UserID: "u1", Query: "do some web research on markets"}
	orch.ProcessQuery(context.Background(), state)
	if state.ToolResult.Success {
		t.Fatalf("expected failure without url or saved link")
	}
	if state.ToolResult.Error != "No URL provided for web research" {
		t.Fatalf("unexpected error %q", state.ToolResult.Error)
	}
}

func TestProcessQueryClassificationFallbackSeesHistory(t *testing.T) {
	model := &fakeCompleter{reply: "happy to help"}
	orch, st, db := newTestOrchestrator(t, model)
	defer db.Close()

	if _, err := st.AppendMessage(context.Background(), models.Message{
		SessionID: "s1",
		UserID:    "u1",
		Role:      models.RoleHuman,
		Content:   "check https://example.com/markets for me",
		MessageID: "m0",
	}); err != nil {
		t.Fatalf("seed history: %v", err)
	}

	state := &State{SessionID: "s1", UserID: "u1", MessageID: "m1", Query: "xyzzy"}
	orch.ProcessQuery(context.Background(), state)

	var classifyPrompt string
	for _, prompt := range model.prompts {
		if strings.Contains(prompt, "Classify the following query") {
			classifyPrompt = prompt
			break
		}
	}
	if classifyPrompt == "" {
		t.Fatalf("expected the classifier to fall back to the model")
	}
	if !strings.Contains(classifyPrompt, "Recent conversation:") ||
		!strings.Contains(classifyPrompt, "User: check https://example.com/markets for me") {
		t.Fatalf("classification prompt missing conversation history:\n%s", classifyPrompt)
	}
}
