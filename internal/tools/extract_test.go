package tools

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write document.xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

const sampleDocumentXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Annual revenue grew by 12 percent.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Operating costs </w:t></w:r><w:r><w:t>remained flat.</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestExtractTextDocx(t *testing.T) {
	data := buildDocx(t, sampleDocumentXML)
	text, err := ExtractText(data, "docx")
	if err != nil {
		t.Fatalf("extract docx: %v", err)
	}
	if !strings.Contains(text, "Annual revenue grew by 12 percent.") {
		t.Fatalf("missing first paragraph: %q", text)
	}
	if !strings.Contains(text, "Operating costs remained flat.") {
		t.Fatalf("runs in one paragraph should join without separator: %q", text)
	}
	if !strings.Contains(text, "\n") {
		t.Fatalf("paragraphs should be newline separated: %q", text)
	}
}

func TestExtractTextDocxMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("word/styles.xml")
	_, _ = w.Write([]byte("<styles/>"))
	_ = zw.Close()

	if _, err := ExtractText(buf.Bytes(), "docx"); err == nil {
		t.Fatalf("expected error for archive without document.xml")
	}
}

func TestExtractTextDocxNotAnArchive(t *testing.T) {
	if _, err := ExtractText([]byte("plain text, not a zip"), "docx"); err == nil {
		t.Fatalf("expected error for non-zip input")
	}
}

func TestExtractTextPDFGarbage(t *testing.T) {
	if _, err := ExtractText([]byte("not a pdf"), "pdf"); err == nil {
		t.Fatalf("expected error for invalid pdf bytes")
	}
}

func TestExtractTextUnsupportedType(t *testing.T) {
	if _, err := ExtractText([]byte("data"), "txt"); err == nil {
		t.Fatalf("expected error for unsupported file type")
	}
}
