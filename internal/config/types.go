package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Turso         TursoConfig
	ProjectID     string
	Invite        InviteConfig
	Rating        RatingConfig
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// InviteConfig tunes the invite lifecycle.
type InviteConfig struct {
	// TTLHours is the fixed invite time-to-live.
	TTLHours int
}

// RatingConfig selects and tunes the rating algorithm.
type RatingConfig struct {
	// Algorithm is "deterministic" or "elo-decay".
	Algorithm string
	// BaseDelta is the deterministic algorithm's nominal step.
	BaseDelta float64
	// KBase is the elo-decay K-factor at full confidence.
	KBase float64
	// InactivityThresholdDays is how long before confidence decays.
	InactivityThresholdDays int
}
