package response

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Drashti7312/FinancialChatBot/internal/logx"
	"github.com/Drashti7312/FinancialChatBot/internal/models"
)

// UltimateFallback is the last-resort reply when even failure handling
// cannot reach the model.
const UltimateFallback = "I apologize, but I'm currently unable to process your request. Please try again later or rephrase your question."

// Completer is the single-prompt completion surface this package needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Processor turns tool results into user-facing text in the user's
// language. Formatting degrades gracefully: a model failure falls back to a
// local template, and translation failures fall back to English.
type Processor struct {
	model Completer
}

func NewProcessor(model Completer) *Processor {
	return &Processor{model: model}
}

// Format structures a successful tool result and translates it in one
// model call.
func (p *Processor) Format(ctx context.Context, result models.ToolResult, intent models.Intent, query, language string) string {
	toolData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		toolData = []byte(fmt.Sprint(result.Data))
	}

	languageInstruction := "Respond in English."
	if language != "English" {
		languageInstruction = fmt.Sprintf(`IMPORTANT: Your final response must be in %s.
- Maintain all numerical values and dates exactly as they are
- Keep technical financial terms but provide brief explanations in parentheses if needed
- Preserve professional tone and formatting in %s`, language, language)
	}

	prompt := fmt.Sprintf(`You are a financial intelligence assistant. Process the following tool result and create a clear, professional response for the user.

User Query: %s
Intent: %s
Tool Result: %s

Instructions:
1. Structure the information clearly and professionally
2. If possible, use tables to organize complex information, else provide data in a clear format
3. Include all relevant numbers, dates, and key details
4. Make the response conversational but professional
5. If the tool failed, explain what went wrong and suggest alternatives
6. Focus on what's most important to the user
7. Keep the response concise but complete
8. Directly answer the user's question based on the tool result
9. Do not add anything other than tool result, just modify tool result as needed

%s

Provide your structured response:`, query, intent, toolData, languageInstruction)

	formatted, err := p.model.Complete(ctx, prompt)
	if err != nil {
		logx.Warn().Err(err).Msg("response formatting failed, using template")
		return p.localTemplate(ctx, result, language)
	}
	return strings.TrimSpace(formatted)
}

// HandleFailure produces a short, helpful reply for a failed tool result.
func (p *Processor) HandleFailure(ctx context.Context, result models.ToolResult, intent models.Intent, query, language string) string {
	errorInfo := result.Error
	if errorInfo == "" {
		errorInfo = "Unknown error occurred"
	}

	languageInstruction := "Respond in English."
	if language != "English" {
		languageInstruction = fmt.Sprintf("Respond in %s while maintaining professional tone.", language)
	}

	prompt := fmt.Sprintf(`You are a Expert Financial ChatBot
The tool execution failed for a financial query. Provide a helpful response that:
1. Acknowledges the issue professionally
2. Explains what might have gone wrong (in simple terms)
3. If the issue related document suggest them to upload relevant documents

Answer in max in one or two line.

User Query: %s
Intent: %s
Error: %s

%s

Create a helpful, professional response that maintains user confidence:`, query, intent, errorInfo, languageInstruction)

	reply, err := p.model.Complete(ctx, prompt)
	if err != nil {
		logx.Warn().Err(err).Msg("failure handling failed, using fallback")
		return p.Translate(ctx, UltimateFallback, language)
	}
	return strings.TrimSpace(reply)
}

// Translate converts short text into the target language, returning the
// input untouched on any failure or when the target is English.
func (p *Processor) Translate(ctx context.Context, text, language string) string {
	if language == "" || language == "English" {
		return text
	}
	prompt := fmt.Sprintf(`Translate this text to %s:
"%s"

Provide only the translation:`, language, text)

	translated, err := p.model.Complete(ctx, prompt)
	if err != nil {
		return text
	}
	return strings.TrimSpace(translated)
}

func (p *Processor) localTemplate(ctx context.Context, result models.ToolResult, language string) string {
	var text string
	if result.Success {
		text = fmt.Sprintf("Here's what I found: %v", result.Data)
	} else {
		errorInfo := result.Error
		if errorInfo == "" {
			errorInfo = "Unknown error occurred"
		}
		text = fmt.Sprintf("I encountered an issue: %s", errorInfo)
	}
	return p.Translate(ctx, text, language)
}
