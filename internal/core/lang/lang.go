package lang

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Drashti7312/FinancialChatBot/internal/logx"
	"github.com/Drashti7312/FinancialChatBot/internal/service/store"
)

// DefaultLanguage is used whenever detection fails or returns something
// outside the supported set.
const DefaultLanguage = "English"

// unsupportedSentinel is what the detection prompt instructs the model to
// answer for languages outside the supported set.
const unsupportedSentinel = "language is not support"

// Supported lists every language the assistant can respond in.
var Supported = []string{
	"English", "Spanish", "French", "German", "Italian",
	"Portuguese", "Dutch", "Russian", "Chinese", "Japanese",
	"Korean", "Arabic", "Hindi", "Gujarati", "Marathi",
}

// Completer is the single-prompt completion surface this package needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Detector resolves and caches per-session language preferences.
type Detector struct {
	model Completer
	store *store.Service
}

func NewDetector(model Completer, st *store.Service) *Detector {
	return &Detector{model: model, store: st}
}

// Canonical maps a case-insensitive language name onto its supported
// spelling. The second return reports membership.
func Canonical(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	for _, lang := range Supported {
		if strings.EqualFold(trimmed, lang) {
			return lang, true
		}
	}
	return "", false
}

// GetOrDetect returns the language to respond in. A stored preference wins;
// otherwise the query text is detected and, when the model actually named a
// supported language, stored for the session. Failure fallbacks to English
// are not stored, so a session that opened with a failed call is not pinned.
func (d *Detector) GetOrDetect(ctx context.Context, userID, sessionID, query string) string {
	cached, err := d.store.GetLanguage(ctx, userID, sessionID)
	if err == nil {
		if canonical, ok := Canonical(cached); ok {
			return canonical
		}
	} else if !errors.Is(err, store.ErrLanguageNotSet) {
		logx.Warn().Err(err).Msg("language preference lookup")
	}

	detected, genuine := d.detect(ctx, query)
	if genuine {
		if err := d.store.UpsertLanguage(ctx, userID, sessionID, detected); err != nil {
			logx.Warn().Err(err).Msg("store detected language")
		}
	}
	return detected
}

// Set records an explicit language choice. Unsupported names are rejected.
func (d *Detector) Set(ctx context.Context, userID, sessionID, language string) (string, error) {
	canonical, ok := Canonical(language)
	if !ok {
		return "", fmt.Errorf("unsupported language: %s", language)
	}
	if err := d.store.UpsertLanguage(ctx, userID, sessionID, canonical); err != nil {
		return "", fmt.Errorf("store language preference: %w", err)
	}
	return canonical, nil
}

// detect asks the model for the query's language. The second return reports
// whether the model actually named a supported language; error and sentinel
// paths fall back to English without claiming a detection.
func (d *Detector) detect(ctx context.Context, query string) (string, bool) {
	prompt := fmt.Sprintf(`Detect the language of the following text.
Supported languages: %s.
Respond with only the language name from the supported list.
If the language is not in the supported list, respond with exactly: %s

Text: %s`, strings.Join(Supported, ", "), unsupportedSentinel, query)

	answer, err := d.model.Complete(ctx, prompt)
	if err != nil {
		logx.Warn().Err(err).Msg("language detection")
		return DefaultLanguage, false
	}
	answer = strings.TrimSpace(answer)
	if strings.EqualFold(answer, unsupportedSentinel) {
		return DefaultLanguage, false
	}
	if canonical, ok := Canonical(answer); ok {
		return canonical, true
	}
	return DefaultLanguage, false
}
