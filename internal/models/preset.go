package models

// ThumbnailPreset is a read-only catalog entry offering a ready-made prompt.
// Presets are seeded into the database and never mutated by the application.
type ThumbnailPreset struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Prompt      string `json:"prompt"`
	Description string `json:"description"`
}
