package cmd

// Config carries the environment-driven settings for the service. Baseline
// minutes are strings straight from the environment; the composition root
// parses them and falls back to handler defaults when unset or malformed.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	TravelBaselineMinutes string
	UnloadBaselineMinutes string
}
