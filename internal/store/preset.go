// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"thumbstudio/internal/models"
)

// PresetStore reads the thumbnail preset catalog. The catalog is seeded at
// startup and read-only at runtime.
type PresetStore struct {
	db *sql.DB
}

// NewPresetStore returns a new PresetStore backed by the given database.
func NewPresetStore(db *sql.DB) *PresetStore {
	return &PresetStore{db: db}
}

// List returns every preset in display order.
func (s *PresetStore) List() ([]models.ThumbnailPreset, error) {
	rows, err := s.db.Query(`
		SELECT id, name, prompt, description
		FROM thumbnail_presets ORDER BY sort_order ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer rows.Close()

	var presets []models.ThumbnailPreset
	for rows.Next() {
		var p models.ThumbnailPreset
		if err := rows.Scan(&p.ID, &p.Name, &p.Prompt, &p.Description); err != nil {
			return nil, fmt.Errorf("scan preset: %w", err)
		}
		presets = append(presets, p)
	}
	return presets, rows.Err()
}

// Find returns a single preset by ID. Returns nil if not found.
func (s *PresetStore) Find(id string) (*models.ThumbnailPreset, error) {
	p := &models.ThumbnailPreset{}
	err := s.db.QueryRow(`
		SELECT id, name, prompt, description
		FROM thumbnail_presets WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Prompt, &p.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find preset: %w", err)
	}
	return p, nil
}
