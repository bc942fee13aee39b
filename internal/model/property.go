package model

import "time"

type Property struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	Address     string         `json:"property_address"`
	City        string         `json:"property_city"`
	Zone        string         `json:"property_zone"`
	Description string         `json:"property_description"`
	Status      string         `json:"status"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   *time.Time     `json:"updated_at,omitempty"`
}

// PropertyDetail is the single-property response, which embeds documents.
type PropertyDetail struct {
	Property
	Documents []Document `json:"documents"`
}

// PropertyAnalysisStarted acknowledges the property-scoped analyze action,
// which consumes a credit and flips the property to analyzing.
type PropertyAnalysisStarted struct {
	Message       string `json:"message"`
	PropertyID    string `json:"property_id"`
	DocumentCount int    `json:"document_count"`
}

// PropertyInput carries the create/update form fields.
type PropertyInput struct {
	Address     string `json:"property_address,omitempty"`
	City        string `json:"property_city,omitempty"`
	Zone        string `json:"property_zone,omitempty"`
	Description string `json:"property_description,omitempty"`
	Status      string `json:"status,omitempty"`
}
