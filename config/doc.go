// Package config loads service configuration from config.yml, .env files and
// environment variables using viper and godotenv.
//
// Environment variables are mapped onto nested keys by splitting on
// underscores, so TRANSCRIBE_REGION sets transcribe.region and
// TRANSCRIBE_RETRY_MAX_ATTEMPTS sets transcribe.retry.max_attempts.
//
//	var cfg AppConfig
//	err := config.LoadConfig("transcribe", &cfg, config.WithEnvPrefix("TRANSCRIBE", "LOG"))
package config
