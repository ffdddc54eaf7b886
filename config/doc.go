// Package config loads tool configuration from config.yml, .env files and
// the environment into tagged structs.
//
// It uses Viper for file and environment handling and godotenv for .env
// files. Keys use mapstructure tags:
//
//	var cfg Config
//	err := config.LoadConfig("flowctl", &cfg,
//		config.WithConfigFile(path),
//		config.WithDefaults(map[string]any{"pipeline.take": -1}),
//	)
//
// Environment variables override file values using the tool's prefix with
// underscore-separated paths (e.g., FLOWCTL_PIPELINE_TAKE).
package config
