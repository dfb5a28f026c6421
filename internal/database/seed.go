package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// defaultPresets is the built-in thumbnail preset catalog. Seeded once;
// presets are read-only at runtime.
var defaultPresets = []struct {
	id, name, prompt, description string
}{
	{
		"reaction-face",
		"Shock Reaction",
		"Extreme close-up of a shocked face with wide eyes and open mouth, bold red arrow pointing at a glowing object, saturated colors, dramatic studio lighting, YouTube thumbnail style",
		"High-CTR reaction shot with an arrow callout",
	},
	{
		"versus-split",
		"Versus Split",
		"Split screen thumbnail, left side shows a triumphant winner bathed in golden light, right side shows a defeated rival in cold blue shadow, giant VS lettering in the middle, cinematic contrast",
		"Classic A-versus-B comparison layout",
	},
	{
		"epic-transformation",
		"Epic Transformation",
		"Before and after transformation, ordinary person on the left morphing into a powerful heroic figure wreathed in fire on the right, energy particles, dark background, hyper-detailed",
		"Underdog-to-hero glow-up scene",
	},
	{
		"money-stack",
		"Money Stack",
		"Mountain of cash and gold coins raining down around an excited person, green dollar-sign glow, bold outlined text space at the top, vibrant and punchy",
		"Finance and giveaway videos",
	},
	{
		"mystery-box",
		"Mystery Box",
		"Huge glowing box with light rays escaping from under the lid, silhouetted figure reaching toward it, question marks floating in fog, purple and teal color grade",
		"Unboxing and reveal teasers",
	},
}

// Seed populates the database with initial data: the preset catalog and,
// in development, a demo user. Existing rows are left untouched.
func Seed(db *sql.DB, dev bool) error {
	for _, p := range defaultPresets {
		_, err := db.Exec(`
			INSERT INTO thumbnail_presets (id, name, prompt, description, sort_order)
			VALUES ($1, $2, $3, $4, (SELECT COALESCE(MAX(sort_order), 0) + 1 FROM thumbnail_presets))
			ON CONFLICT (id) DO NOTHING
		`, p.id, p.name, p.prompt, p.description)
		if err != nil {
			return fmt.Errorf("seed preset %s: %w", p.id, err)
		}
	}

	if !dev {
		return nil
	}

	// Development convenience account. Skipped if any user already exists.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("users already present, skipping demo account")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("creator"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, tokens, last_reset_month)
		VALUES ($1, $2, $3, $4, $5)
	`, "creator@thumbstudio.local", string(hash), "Creator", 200, int(time.Now().Month()))
	if err != nil {
		return fmt.Errorf("seed insert demo user: %w", err)
	}

	slog.Info("database seeded with demo user",
		"email", "creator@thumbstudio.local",
		"password", "creator",
	)

	return nil
}
