package tools

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/Drashti7312/FinancialChatBot/internal/logx"
	"github.com/Drashti7312/FinancialChatBot/internal/models"

	"github.com/cloudwego/eino/schema"
)

const maxComparedDocLength = 3000

// ComparativeAnalyzer compares financial content across multiple PDF/DOCX
// documents.
type ComparativeAnalyzer struct {
	model Completer
}

func NewComparativeAnalyzer(model Completer) *ComparativeAnalyzer {
	return &ComparativeAnalyzer{model: model}
}

func (c *ComparativeAnalyzer) Name() string { return "comparative_analysis" }

func (c *ComparativeAnalyzer) Info() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name: c.Name(),
		Desc: "Compare financial data across multiple PDF/DOCX documents",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"message_id": {
				Desc:     "Unique identifier for the message/request",
				Type:     schema.String,
				Required: true,
			},
			"documents": {
				Desc:     "Documents to compare, each with document_type, document_name and base64 file_data",
				Type:     schema.Array,
				Required: true,
			},
		}),
	}
}

func (c *ComparativeAnalyzer) Execute(ctx context.Context, req Request) models.ToolResult {
	if len(req.Documents) == 0 {
		return models.FailureResult("No documents provided for analysis")
	}
	if len(req.Documents) < 2 {
		return models.FailureResult("At least 2 documents are required for comparison")
	}

	type extracted struct {
		name string
		text string
	}
	var docs []extracted
	for i, doc := range req.Documents {
		docType := strings.ToLower(doc.DocumentType)
		if docType != "pdf" && docType != "docx" {
			return models.FailureResult(fmt.Sprintf("Document %d: document_type must be 'pdf' or 'docx'", i+1))
		}
		raw, err := base64.StdEncoding.DecodeString(doc.FileData)
		if err != nil {
			return models.FailureResult(fmt.Sprintf("Document %d (%s): invalid base64 file data", i+1, doc.DocumentName))
		}
		text, err := ExtractText(raw, docType)
		if err != nil {
			logx.Warn().Str("document", doc.DocumentName).Err(err).Msg("extract comparison document")
			continue
		}
		if runes := []rune(text); len(runes) > maxComparedDocLength {
			text = string(runes[:maxComparedDocLength]) + "..."
		}
		docs = append(docs, extracted{name: doc.DocumentName, text: text})
	}
	if len(docs) < 2 {
		return models.FailureResult("Could not extract readable content from at least 2 documents")
	}

	var b strings.Builder
	for _, doc := range docs {
		b.WriteString(fmt.Sprintf("=== %s ===\n%s\n\n", doc.name, doc.text))
	}

	prompt := fmt.Sprintf(`You are a financial analyst. Compare the following documents side by side.

%s
Instructions:
1. Identify the key financial figures present in each document
2. Compare matching metrics across documents and quantify the differences
3. Highlight notable trends, improvements, or declines between documents
4. Summarize which document shows the stronger financial position and why
5. Structure the comparison clearly, using tables where helpful

Provide your comparative analysis:`, b.String())

	analysis, err := c.model.Complete(ctx, prompt)
	if err != nil {
		return models.FailureResult(fmt.Sprintf("Comparative analysis execution failed: %s", err))
	}

	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		names = append(names, doc.name)
	}
	return models.SuccessResult(map[string]any{
		"insights":           analysis,
		"documents_compared": names,
	})
}
