package models

// FileContent is a file (or directory listing) fetched from a repository.
type FileContent struct {
	Owner   string         `json:"owner"`
	Repo    string         `json:"repo"`
	Path    string         `json:"path"`
	Name    string         `json:"name,omitempty"`
	Type    string         `json:"type,omitempty"`
	SHA     string         `json:"sha,omitempty"`
	Size    int            `json:"size,omitempty"`
	HTMLURL string         `json:"html_url,omitempty"`
	Content string         `json:"content,omitempty"`
	Entries []ContentEntry `json:"entries,omitempty"`
}

// ContentEntry is one element of a directory listing.
type ContentEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
	Size int    `json:"size"`
}
