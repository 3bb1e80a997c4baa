package response

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Drashti7312/FinancialChatBot/internal/models"
)

type fakeCompleter struct {
	answer  string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.answer, f.err
}

func TestFormatUsesModel(t *testing.T) {
	model := &fakeCompleter{answer: "  Revenue is up 12%.  "}
	p := NewProcessor(model)

	result := models.SuccessResult(map[string]any{"growth": 12})
	got := p.Format(context.Background(), result, models.IntentFinancialTrendAnalysis, "how did we do?", "English")
	if got != "Revenue is up 12%." {
		t.Fatalf("expected trimmed model answer, got %q", got)
	}
	if !strings.Contains(model.prompts[0], "how did we do?") {
		t.Fatalf("expected query in prompt")
	}
	if !strings.Contains(model.prompts[0], "Respond in English.") {
		t.Fatalf("expected english instruction for english sessions")
	}
}

func TestFormatNonEnglishInstruction(t *testing.T) {
	model := &fakeCompleter{answer: "ok"}
	p := NewProcessor(model)

	p.Format(context.Background(), models.SuccessResult(nil), models.IntentGeneralQuery, "hola", "Spanish")
	if !strings.Contains(model.prompts[0], "must be in Spanish") {
		t.Fatalf("expected spanish instruction in prompt")
	}
}

func TestFormatFallsBackToTemplate(t *testing.T) {
	model := &fakeCompleter{err: errors.New("provider down")}
	p := NewProcessor(model)

	result := models.SuccessResult(map[string]any{"growth": 12})
	got := p.Format(context.Background(), result, models.IntentGeneralQuery, "q", "English")
	if !strings.HasPrefix(got, "Here's what I found:") {
		t.Fatalf("expected local template, got %q", got)
	}
}

func TestHandleFailureUsesModel(t *testing.T) {
	model := &fakeCompleter{answer: "Please upload a CSV file first."}
	p := NewProcessor(model)

	result := models.FailureResult("No relevant files found for statistical analysis")
	got := p.HandleFailure(context.Background(), result, models.IntentStatisticalAnalysis, "analyze my data", "English")
	if got != model.answer {
		t.Fatalf("unexpected reply %q", got)
	}
	if !strings.Contains(model.prompts[0], "No relevant files found") {
		t.Fatalf("expected error detail in prompt")
	}
}

func TestHandleFailureUltimateFallback(t *testing.T) {
	model := &fakeCompleter{err: errors.New("provider down")}
	p := NewProcessor(model)

	got := p.HandleFailure(context.Background(), models.FailureResult("boom"), models.IntentGeneralQuery, "q", "English")
	if got != UltimateFallback {
		t.Fatalf("expected ultimate fallback, got %q", got)
	}
}

func TestTranslate(t *testing.T) {
	model := &fakeCompleter{answer: "Hola"}
	p := NewProcessor(model)

	if got := p.Translate(context.Background(), "Hello", "English"); got != "Hello" {
		t.Fatalf("english should pass through, got %q", got)
	}
	if len(model.prompts) != 0 {
		t.Fatalf("english translation must not call the model")
	}
	if got := p.Translate(context.Background(), "Hello", "Spanish"); got != "Hola" {
		t.Fatalf("expected translation, got %q", got)
	}

	failing := NewProcessor(&fakeCompleter{err: errors.New("down")})
	if got := failing.Translate(context.Background(), "Hello", "Spanish"); got != "Hello" {
		t.Fatalf("translation failure should return input, got %q", got)
	}
}
