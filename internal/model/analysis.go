package model

import "time"

type RiskFinding struct {
	ID             string    `json:"id"`
	AnalysisJobID  string    `json:"analysis_job_id"`
	DocumentID     *string   `json:"document_id,omitempty"`
	Category       string    `json:"category"`
	Severity       string    `json:"severity"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Recommendation string    `json:"recommendation"`
	Confidence     float64   `json:"confidence"`
	LocationRef    string    `json:"location_ref,omitempty"`
	QuotedText     string    `json:"quoted_text,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type NegotiationPoint struct {
	ID              string    `json:"id"`
	AnalysisJobID   string    `json:"analysis_job_id"`
	DocumentID      *string   `json:"document_id,omitempty"`
	PointType       string    `json:"point_type"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	LeverageLevel   string    `json:"leverage_level"`
	EstimatedImpact string    `json:"estimated_impact,omitempty"`
	SuggestedAction string    `json:"suggested_action"`
	ClauseReference string    `json:"clause_reference,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type AnalysisJob struct {
	ID                string             `json:"id"`
	PropertyID        string             `json:"property_id"`
	UserID            string             `json:"user_id"`
	AnalysisTypes     []string           `json:"analysis_types"`
	Status            string             `json:"status"`
	Progress          int                `json:"progress"`
	RiskScore         *int               `json:"risk_score,omitempty"`
	RiskLevel         string             `json:"risk_level,omitempty"`
	Summary           string             `json:"summary,omitempty"`
	StartedAt         *time.Time         `json:"started_at,omitempty"`
	CompletedAt       *time.Time         `json:"completed_at,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	Findings          []RiskFinding      `json:"findings,omitempty"`
	NegotiationPoints []NegotiationPoint `json:"negotiation_points,omitempty"`
}

// AnalysisStarted is the backend's acknowledgement of a new analysis job.
type AnalysisStarted struct {
	JobID         string `json:"job_id"`
	Status        string `json:"status"`
	Message       string `json:"message"`
	EstimatedTime int    `json:"estimated_time"`
}

type AnalysisStatus struct {
	JobID         string     `json:"job_id"`
	Status        string     `json:"status"`
	Progress      int        `json:"progress"`
	RiskScore     *int       `json:"risk_score,omitempty"`
	RiskLevel     string     `json:"risk_level,omitempty"`
	FindingsCount int        `json:"findings_count"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

type Report struct {
	ID                    string           `json:"id"`
	AnalysisJobID         string           `json:"analysis_job_id"`
	PropertyID            string           `json:"property_id"`
	UserID                string           `json:"user_id"`
	ReportType            string           `json:"report_type"`
	RiskScore             int              `json:"risk_score"`
	RiskLevel             string           `json:"risk_level"`
	ExecutiveSummary      string           `json:"executive_summary"`
	TitleAnalysis         map[string]any   `json:"title_analysis"`
	ContractAnalysis      map[string]any   `json:"contract_analysis"`
	CrossDocumentAnalysis map[string]any   `json:"cross_document_analysis"`
	NegotiationTips       []map[string]any `json:"negotiation_tips"`
	Status                string           `json:"status"`
	CreatedAt             time.Time        `json:"created_at"`
	ViewedAt              *time.Time       `json:"viewed_at,omitempty"`
}
