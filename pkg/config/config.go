package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is read by Load when no other file is given
const DefaultEnvFile = ".env"

// Config holds settings shared by the CLI and the web server.
// Zero image settings leave the choice to the scene and renderer defaults.
type Config struct {
	Scene     string  // TINYRAY_SCENE
	ScenesDir string  // TINYRAY_SCENES_DIR
	Output    string  // TINYRAY_OUTPUT
	Width     int     // TINYRAY_WIDTH
	Height    int     // TINYRAY_HEIGHT
	FOV       float64 // TINYRAY_FOV, radians
	Workers   int     // TINYRAY_WORKERS, 0 = CPU count
	Scale     int     // TINYRAY_SCALE, integer upscale factor
	Watermark bool    // TINYRAY_WATERMARK
	Port      string  // TINYRAY_PORT, web server only

	S3 S3Config
}

// S3Config holds the object storage settings used for publishing renders
type S3Config struct {
	AccessKey string // S3_ACCESS_KEY
	SecretKey string // S3_SECRET_KEY
	Endpoint  string // S3_ENDPOINT, empty for AWS
	Region    string // S3_REGION
	Bucket    string // S3_BUCKET, empty disables publishing
	Prefix    string // S3_PREFIX, prepended to every key
	PublicURL string // S3_PUBLIC_URL, base URL reported for uploaded objects
}

// Enabled reports whether enough settings are present to publish
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		Scene:     "default",
		ScenesDir: "scenes",
		Output:    "output/tinyray.bmp",
		Scale:     1,
		Watermark: true,
		Port:      "8080",
		S3: S3Config{
			Region: "us-east-1",
		},
	}
}

// Load reads envFile into the process environment and then builds a Config from it.
// Variables already set in the environment win over the file. A missing file is not an error.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read %s: %w", envFile, err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables on top of Default
func FromEnv() (Config, error) {
	cfg := Default()
	var errs []error

	cfg.Scene = getEnv("TINYRAY_SCENE", cfg.Scene)
	cfg.ScenesDir = getEnv("TINYRAY_SCENES_DIR", cfg.ScenesDir)
	cfg.Output = getEnv("TINYRAY_OUTPUT", cfg.Output)
	cfg.Width = getInt("TINYRAY_WIDTH", cfg.Width, &errs)
	cfg.Height = getInt("TINYRAY_HEIGHT", cfg.Height, &errs)
	cfg.FOV = getFloat("TINYRAY_FOV", cfg.FOV, &errs)
	cfg.Workers = getInt("TINYRAY_WORKERS", cfg.Workers, &errs)
	cfg.Scale = getInt("TINYRAY_SCALE", cfg.Scale, &errs)
	cfg.Watermark = getBool("TINYRAY_WATERMARK", cfg.Watermark, &errs)
	cfg.Port = getEnv("TINYRAY_PORT", cfg.Port)

	cfg.S3.AccessKey = getEnv("S3_ACCESS_KEY", cfg.S3.AccessKey)
	cfg.S3.SecretKey = getEnv("S3_SECRET_KEY", cfg.S3.SecretKey)
	cfg.S3.Endpoint = getEnv("S3_ENDPOINT", cfg.S3.Endpoint)
	cfg.S3.Region = getEnv("S3_REGION", cfg.S3.Region)
	cfg.S3.Bucket = getEnv("S3_BUCKET", cfg.S3.Bucket)
	cfg.S3.Prefix = getEnv("S3_PREFIX", cfg.S3.Prefix)
	cfg.S3.PublicURL = strings.TrimSuffix(getEnv("S3_PUBLIC_URL", cfg.S3.PublicURL), "/")

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no render could use
func (c Config) Validate() error {
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("image size %dx%d must not be negative", c.Width, c.Height)
	}
	if c.FOV < 0 {
		return fmt.Errorf("field of view %v must not be negative", c.FOV)
	}
	if c.Workers < 0 {
		return fmt.Errorf("worker count %d must not be negative", c.Workers)
	}
	if c.Scale < 1 {
		return fmt.Errorf("scale factor %d must be at least 1", c.Scale)
	}
	return nil
}

// Helper to get environment variables with a default value.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int, errs *[]error) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64, errs *[]error) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return f
}

func getBool(key string, fallback bool, errs *[]error) bool {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return b
}
