package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/Drashti7312/FinancialChatBot/internal/models"

	"github.com/cloudwego/eino/schema"
)

// DocumentSummarizer extracts text from a PDF or DOCX document and asks the
// model for a summary.
type DocumentSummarizer struct {
	model Completer
}

func NewDocumentSummarizer(model Completer) *DocumentSummarizer {
	return &DocumentSummarizer{model: model}
}

func (d *DocumentSummarizer) Name() string { return "document_summarizer" }

func (d *DocumentSummarizer) Info() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name: d.Name(),
		Desc: "Summarize PDF or DOCX documents",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"file_data": {
				Desc:     "Base64 encoded file data",
				Type:     schema.String,
				Required: true,
			},
			"file_type": {
				Desc:     "Type of the document file (pdf or docx)",
				Type:     schema.String,
				Enum:     []string{"pdf", "docx"},
				Required: true,
			},
		}),
	}
}

func (d *DocumentSummarizer) Execute(ctx context.Context, req Request) models.ToolResult {
	if len(req.FileData) == 0 {
		return models.FailureResult("No file data provided")
	}
	if req.FileType == "" {
		return models.FailureResult("File type not specified")
	}

	text, err := ExtractText(req.FileData, req.FileType)
	if err != nil {
		return models.FailureResult(err.Error())
	}
	if strings.TrimSpace(text) == "" {
		return models.FailureResult("No text content found in the document")
	}

	prompt := fmt.Sprintf(`Please provide a concise summary of the following document. Focus on capturing the main insights, key points, and important findings. Keep the summary clear and well-structured.

Document content:
%s

Summary:`, text)

	summary, err := d.model.Complete(ctx, prompt)
	if err != nil {
		return models.FailureResult(fmt.Sprintf("Error generating summary: %s", err))
	}

	return models.SuccessResult(map[string]any{
		"summary":               summary,
		"extracted_text_length": len(text),
		"file_type":             req.FileType,
	})
}
