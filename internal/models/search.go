package models

// SearchResult — строка глобального поиска по компаниям/контактам/сделкам.
type SearchResult struct {
	ID       int    `json:"id"`
	Label    string `json:"label"`
	Subtitle string `json:"subtitle,omitempty"`
	Type     string `json:"type"` // 'company' | 'contact' | 'deal'
}
