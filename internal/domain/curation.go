package domain

// CurationStats summarizes curation progress over the source collection.
type CurationStats struct {
	Total       int64 `json:"total"`
	Transferred int64 `json:"transferred"`
	Pending     int64 `json:"pending"`
}
