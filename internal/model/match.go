package model

// Candidate is a scored match suggestion between two items of opposite
// type. Candidates are computed on demand and never persisted.
type Candidate struct {
	Item  *Item   `json:"item"`
	Score float64 `json:"score"`
}
