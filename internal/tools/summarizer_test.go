package tools

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
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

func TestDocumentSummarizerExecute(t *testing.T) {
	model := &fakeCompleter{answer: "Revenue grew while costs held steady."}
	docx := buildDocx(t, sampleDocumentXML)

	result := NewDocumentSummarizer(model).Execute(context.Background(), Request{
		FileData: docx,
		FileType: "docx",
	})
	if !result.Success {
		t.Fatalf("expected success, got %s", result.Error)
	}
	if result.Data["summary"] != model.answer {
		t.Fatalf("unexpected summary %v", result.Data["summary"])
	}
	if result.Data["file_type"] != "docx" {
		t.Fatalf("unexpected file_type %v", result.Data["file_type"])
	}
	if n := result.Data["extracted_text_length"].(int); n == 0 {
		t.Fatalf("expected non-zero extracted text length")
	}
	if len(model.prompts) != 1 || !strings.Contains(model.prompts[0], "Annual revenue grew") {
		t.Fatalf("expected document text inside the prompt")
	}
}

func TestDocumentSummarizerValidation(t *testing.T) {
	s := NewDocumentSummarizer(&fakeCompleter{})

	result := s.Execute(context.Background(), Request{FileType: "pdf"})
	if result.Success || result.Error != "No file data provided" {
		t.Fatalf("unexpected result %+v", result)
	}

	result = s.Execute(context.Background(), Request{FileData: []byte("x")})
	if result.Success || result.Error != "File type not specified" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestDocumentSummarizerModelError(t *testing.T) {
	model := &fakeCompleter{err: errors.New("provider down")}
	result := NewDocumentSummarizer(model).Execute(context.Background(), Request{
		FileData: buildDocx(t, sampleDocumentXML),
		FileType: "docx",
	})
	if result.Success {
		t.Fatalf("expected failure when model errors")
	}
}

func TestComparativeAnalyzerExecute(t *testing.T) {
	model := &fakeCompleter{answer: "Document one reports higher growth."}
	encoded := base64.StdEncoding.EncodeToString(buildDocx(t, sampleDocumentXML))

	result := NewComparativeAnalyzer(model).Execute(context.Background(), Request{
		Query: "compare these",
		Documents: []DocumentInput{
			{DocumentType: "docx", DocumentName: "Document_1", FileData: encoded},
			{DocumentType: "docx", DocumentName: "Document_2", FileData: encoded},
		},
	})
	if !result.Success {
		t.Fatalf("expected success, got %s", result.Error)
	}
	if result.Data["insights"] != model.answer {
		t.Fatalf("unexpected insights %v", result.Data["insights"])
	}
	if got := result.Data["documents_compared"].(int); got != 2 {
		t.Fatalf("documents_compared = %d, want 2", got)
	}
	if !strings.Contains(model.prompts[0], "=== Document_1 ===") {
		t.Fatalf("expected named document sections in prompt")
	}
}

func TestComparativeAnalyzerTruncatesMultibyteDocuments(t *testing.T) {
	long := strings.Repeat("राजस्व", 800)
	xml := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body><w:p><w:r><w:t>` + long + `</w:t></w:r></w:p></w:body>
</w:document>`
	encoded := base64.StdEncoding.EncodeToString(buildDocx(t, xml))

	model := &fakeCompleter{answer: "comparison"}
	result := NewComparativeAnalyzer(model).Execute(context.Background(), Request{
		Query: "compare these",
		Documents: []DocumentInput{
			{DocumentType: "docx", DocumentName: "Document_1", FileData: encoded},
			{DocumentType: "docx", DocumentName: "Document_2", FileData: encoded},
		},
	})
	if !result.Success {
		t.Fatalf("expected success, got %s", result.Error)
	}
	if !utf8.ValidString(model.prompts[0]) {
		t.Fatalf("truncation split a multi-byte character in the prompt")
	}
}

func TestComparativeAnalyzerValidation(t *testing.T) {
	c := NewComparativeAnalyzer(&fakeCompleter{})

	result := c.Execute(context.Background(), Request{})
	if result.Success || result.Error != "No documents provided for analysis" {
		t.Fatalf("unexpected result %+v", result)
	}

	result = c.Execute(context.Background(), Request{
		Documents: []DocumentInput{{DocumentType: "docx", DocumentName: "only", FileData: "aGk="}},
	})
	if result.Success || result.Error != "At least 2 documents are required for comparison" {
		t.Fatalf("unexpected result %+v", result)
	}

	result = c.Execute(context.Background(), Request{
		Documents: []DocumentInput{
			{DocumentType: "txt", DocumentName: "a", FileData: "aGk="},
			{DocumentType: "docx", DocumentName: "b", FileData: "aGk="},
		},
	})
	if result.Success || result.Error != "Document 1: document_type must be 'pdf' or 'docx'" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestGeneralQueryExecute(t *testing.T) {
	model := &fakeCompleter{answer: "Compound interest grows your principal over time."}
	result := NewGeneralQuery(model).Execute(context.Background(), Request{
		Query:   "what is compound interest?",
		Context: "User: hello...\n",
	})
	if !result.Success {
		t.Fatalf("expected success, got %s", result.Error)
	}
	if result.Data["response"] != model.answer {
		t.Fatalf("unexpected response %v", result.Data["response"])
	}
	if !strings.Contains(model.prompts[0], "what is compound interest?") {
		t.Fatalf("expected query in prompt")
	}
}

func TestGeneralQueryModelError(t *testing.T) {
	result := NewGeneralQuery(&fakeCompleter{err: errors.New("provider down")}).
		Execute(context.Background(), Request{Query: "hi"})
	if result.Success {
		t.Fatalf("expected failure when model errors")
	}
	if !strings.Contains(result.Error, "General query processing failed") {
		t.Fatalf("unexpected error %q", result.Error)
	}
}
