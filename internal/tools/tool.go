package tools

import (
	"context"

	"github.com/Drashti7312/FinancialChatBot/internal/models"

	"github.com/cloudwego/eino/schema"
)

// Completer is the single-prompt completion surface tools need.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// DocumentInput is one document handed to comparative analysis. FileData is
// base64 encoded.
type DocumentInput struct {
	DocumentType string `json:"document_type"`
	DocumentName string `json:"document_name"`
	FileData     string `json:"file_data"`
}

// Request carries everything a tool invocation may need. The dispatcher
// fills only the fields the target tool reads.
type Request struct {
	Query     string
	Context   string
	MessageID string
	FileData  []byte
	FileType  string
	Metric    string
	Table     models.TableParams
	URL       string
	Documents []DocumentInput
}

// Tool is one dispatchable analysis capability. Execute reports failures
// through the result envelope rather than an error so callers always get
// something renderable.
type Tool interface {
	Name() string
	Info() *schema.ToolInfo
	Execute(ctx context.Context, req Request) models.ToolResult
}

// Registry holds the available tools keyed by name.
type Registry struct {
	order []string
	tools map[string]Tool
}

func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		r.order = append(r.order, t.Name())
		r.tools[t.Name()] = t
	}
	return r
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List returns the registered tools in registration order.
func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}
