package model

import "time"

// Document types accepted by the backend.
const (
	DocTypeTitleDeed     = "title_deed"
	DocTypeSaleAgreement = "sale_agreement"
	DocTypeTaxRecord     = "tax_record"
	DocTypeLease         = "lease"
	DocTypeOther         = "other"
)

type Document struct {
	ID                 string         `json:"id"`
	PropertyID         string         `json:"property_id"`
	UserID             string         `json:"user_id"`
	DocumentType       string         `json:"document_type"`
	Filename           string         `json:"filename"`
	FileSize           int64          `json:"file_size"`
	MimeType           string         `json:"mime_type"`
	Status             string         `json:"status"`
	ProcessingProgress int            `json:"processing_progress"`
	PageCount          *int           `json:"page_count,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	ProcessedAt        *time.Time     `json:"processed_at,omitempty"`
}

type DocumentDetail struct {
	Document
	ExtractedText string   `json:"extracted_text,omitempty"`
	OCRUsed       bool     `json:"ocr_used"`
	OCRConfidence *float64 `json:"ocr_confidence,omitempty"`
}

type DocumentList struct {
	Items []Document `json:"items"`
	Total int        `json:"total"`
}

type DocumentUploadResult struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	DocumentType string `json:"document_type,omitempty"`
	Status       string `json:"status"`
	Message      string `json:"message"`
}

type DocumentProcessResult struct {
	JobID         string `json:"job_id"`
	DocumentCount int    `json:"document_count"`
	EstimatedTime int    `json:"estimated_time"`
	Status        string `json:"status"`
}

// TaskStatus reports progress of an upload-processing task.
type TaskStatus struct {
	TaskID   string         `json:"task_id"`
	Status   string         `json:"status"`
	Progress int            `json:"progress"`
	Result   map[string]any `json:"result,omitempty"`
	Error    string         `json:"error,omitempty"`
}
