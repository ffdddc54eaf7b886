package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/flowkit/logger"
)

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver handles finding and resolving config and env files.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles finds config and env files for a tool.
// Returns explicit paths if provided, otherwise searches for them.
func (cr *Resolver) ResolveFiles(name string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = cr.first(configSearchPaths(name))
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = cr.first(envSearchPaths(name))
	}
	return resolved
}

func (cr *Resolver) first(paths []string) string {
	for _, path := range paths {
		if cr.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

// configSearchPaths lists config.yml candidates, most specific first.
func configSearchPaths(name string) []string {
	return []string{
		fmt.Sprintf("./cmd/%s/config.yml", name),
		fmt.Sprintf("../cmd/%s/config.yml", name),
		fmt.Sprintf("../../cmd/%s/config.yml", name),
		fmt.Sprintf("./%s.yml", name),
		"./config/config.yml",
		"./config.yml",
	}
}

// envSearchPaths lists .env candidates, most specific first.
func envSearchPaths(name string) []string {
	var paths []string
	for _, file := range []string{".env." + name, ".env"} {
		paths = append(paths,
			fmt.Sprintf("./cmd/%s/%s", name, file),
			fmt.Sprintf("../cmd/%s/%s", name, file),
			"./config/"+file,
			"./"+file,
		)
	}
	return paths
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string         // Direct config file path (optional)
	EnvFile    string         // Direct env file path (optional)
	EnvPrefix  string         // Only variables with this prefix are bound (optional)
	Defaults   map[string]any // Values used when neither file nor env sets a key
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix overrides the environment prefix. The default is the upper
// cased name with dashes replaced by underscores, e.g. FLOWCTL_.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// WithDefaults sets fallback values keyed by dotted config path.
func WithDefaults(defaults map[string]any) LoaderOption {
	return func(lc *LoaderConfig) { lc.Defaults = defaults }
}

// LoadConfig loads configuration for name into the provided cfg struct.
// Precedence, lowest first: defaults, config.yml, .env, process environment.
// Environment variables are matched by prefix against keys the defaults or
// the config file define, so FLOWCTL_PIPELINE_TAKE sets pipeline.take.
func LoadConfig(name string, cfg interface{}, opts ...LoaderOption) error {
	lc := LoaderConfig{EnvPrefix: defaultEnvPrefix(name)}
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(name, lc)

	return load(name, cfg, files, lc)
}

func load(name string, cfg interface{}, files ResolvedFiles, lc LoaderConfig) error {
	log := logger.Get("config")
	v := viper.New()

	for key, value := range lc.Defaults {
		v.SetDefault(key, value)
	}

	// 1. YAML config (base configuration)
	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", files.ConfigFile, err)
		}
		log.Debug("config file loaded", logger.Fields("file", files.ConfigFile))
	}

	// 2. .env file; godotenv never overrides variables already set
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			log.Warn("failed to load .env file", logger.Fields("file", files.EnvFile, "error", err.Error()))
		}
	}

	// 3. Environment
	bindPrefixedEnv(v, lc.EnvPrefix)

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for %s: %w", name, err)
	}
	return nil
}

func defaultEnvPrefix(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_")) + "_"
}

// bindPrefixedEnv maps each prefixed environment variable onto the first
// known key (from defaults or the config file) among its dotted variants.
// Variables that match no known key are ignored.
func bindPrefixedEnv(v *viper.Viper, prefix string) {
	known := make(map[string]bool)
	for _, k := range v.AllKeys() {
		known[k] = true
	}
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		if prefix != "" {
			if !strings.HasPrefix(key, prefix) {
				continue
			}
			key = strings.TrimPrefix(key, prefix)
		}
		for _, variant := range generateEnvKeyVariants(key) {
			if known[variant] {
				v.Set(variant, value)
				break
			}
		}
	}
}

// generateEnvKeyVariants creates the possible dotted keys for an environment
// variable name.
//
//	PIPELINE_TAKE -> [pipeline_take, pipeline.take]
//	PIPELINE_SKIP_WHILE_PREFIX -> [pipeline_skip_while_prefix, pipeline.skip.while.prefix, pipeline.skip_while_prefix, ...]
func generateEnvKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")
	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{
		lowerKey,
		strings.ReplaceAll(lowerKey, "_", "."),
	}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}
	return removeDuplicates(variants)
}

// removeDuplicates removes duplicate strings from a slice.
func removeDuplicates(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}
