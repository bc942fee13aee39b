package model

// SearchHit is one semantic-search match from the RAG surface.
type SearchHit struct {
	Score        float64 `json:"score"`
	DocumentID   string  `json:"document_id"`
	Filename     string  `json:"filename"`
	DocumentType string  `json:"document_type,omitempty"`
	ChunkIndex   int     `json:"chunk_index"`
	ChunkText    string  `json:"chunk_text"`
	PageNumber   *int    `json:"page_number,omitempty"`
	SectionTitle string  `json:"section_title,omitempty"`
}

// QueryAnswer is the response to a natural-language document query.
type QueryAnswer struct {
	Query         string           `json:"query"`
	AnalysisType  string           `json:"analysis_type,omitempty"`
	Response      string           `json:"response"`
	DocumentsUsed []map[string]any `json:"documents_used,omitempty"`
}

// IndexStats describes the vector index backing search.
type IndexStats struct {
	TotalVectorCount     int      `json:"total_vector_count"`
	Dimension            int      `json:"dimension"`
	IndexFullness        float64  `json:"index_fullness"`
	Namespaces           []string `json:"namespaces"`
	NamespaceVectorCount int      `json:"namespace_vector_count"`
}
