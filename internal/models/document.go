package models

import "time"

// Document is an uploaded file's metadata; the payload bytes live in the
// content store and are resolved by ID.
type Document struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Filename  string    `json:"filename"`
	Kind      string    `json:"kind"` // csv, excel, pdf, docx
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionDocuments groups the document references available to one
// session/user pair, ordered by upload time per kind.
type SessionDocuments struct {
	CSVIDs   []string `json:"csv_ids"`
	ExcelIDs []string `json:"excel_ids"`
	PDFIDs   []string `json:"pdf_ids"`
	DocxIDs  []string `json:"docx_ids"`
	LinkIDs  []string `json:"link_ids"`
}

// IDsForKind returns the stored ids for one document kind.
func (d SessionDocuments) IDsForKind(kind string) []string {
	switch kind {
	case "csv":
		return d.CSVIDs
	case "excel", "xlsx", "xls":
		return d.ExcelIDs
	case "pdf":
		return d.PDFIDs
	case "docx":
		return d.DocxIDs
	default:
		return nil
	}
}

// Link is a stored web link attached to a session.
type Link struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
