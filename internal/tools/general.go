package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/Drashti7312/FinancialChatBot/internal/models"

	"github.com/cloudwego/eino/schema"
)

// GeneralQuery handles conversational questions, keeping answers scoped to
// financial topics.
type GeneralQuery struct {
	model Completer
}

func NewGeneralQuery(model Completer) *GeneralQuery {
	return &GeneralQuery{model: model}
}

func (g *GeneralQuery) Name() string { return "general_query" }

func (g *GeneralQuery) Info() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name: g.Name(),
		Desc: "Handles general financial queries and conversations with financial context validation",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"query": {
				Desc:     "User query to be processed",
				Type:     schema.String,
				Required: true,
			},
			"context": {
				Desc: "Additional context from conversation history",
				Type: schema.String,
			},
		}),
	}
}

func (g *GeneralQuery) Execute(ctx context.Context, req Request) models.ToolResult {
	contextStr := ""
	if req.Context != "" {
		contextStr = "\nContext: " + req.Context
	}

	prompt := fmt.Sprintf(`You are a financial intelligence assistant. Analyze the user's query and respond appropriately:

If the query is related to finance, business, economics, investing, money management, or any financial topic:
- Provide a helpful, accurate answer
- Keep your response short and simple (maximum 50 words)
- Be direct and informative

If the query is NOT related to financial topics:
- Respond exactly with: "I am a financial chatbot, please ask questions related to financial."

User Query: %s%s

Response:`, req.Query, contextStr)

	answer, err := g.model.Complete(ctx, prompt)
	if err != nil {
		return models.FailureResult(fmt.Sprintf("General query processing failed: %s", err))
	}
	return models.SuccessResult(map[string]any{
		"response": strings.TrimSpace(answer),
	})
}
