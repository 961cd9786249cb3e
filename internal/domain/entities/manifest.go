package entities

// Manifest is the subset of the project manifest the synchronization consumes.
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
