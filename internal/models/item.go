package models

import "time"

const (
	KindRepository = "repository"
	KindCommit     = "commit"
)

// Item is a normalised search hit. ID is the repository full name for
// repositories and the commit SHA for commits.
type Item struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Owner     string    `json:"owner"`
	URL       string    `json:"url"`
	Summary   string    `json:"summary,omitempty"`
	Language  string    `json:"language,omitempty"`
	Stars     int       `json:"stars,omitempty"`
	Forks     int       `json:"forks,omitempty"`
	Fork      bool      `json:"fork,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}
