package model

// RegisterInput is the registration payload. The backend validates password
// strength and email shape; the dashboard surfaces its detail verbatim.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Company  string `json:"company,omitempty"`
}

type PasswordChangeInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type PasswordResetConfirmInput struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type DocumentUpdateInput struct {
	DocumentType string `json:"document_type,omitempty"`
	Status       string `json:"status,omitempty"`
}

type AnalysisInput struct {
	PropertyID     string   `json:"property_id"`
	AnalysisTypes  []string `json:"analysis_types"`
	GenerateReport bool     `json:"generate_report"`
}

type SearchInput struct {
	Query        string `json:"query"`
	DocumentType string `json:"document_type,omitempty"`
	Limit        int    `json:"limit,omitempty"`
}
