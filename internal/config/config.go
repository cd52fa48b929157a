package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config carries every runtime setting. It is built once at startup and
// passed by reference into the engine; there is no ambient mutable state.
type Config struct {
	Secret     string // shared secret gating the recognition path
	GalleryDir string // directory of reference face images, user managed
	PhotoDir   string // directory for intruder photos, append only
	Camera     CameraConfig
	Encoder    EncoderConfig
	Database   DatabaseConfig
	Web        WebConfig
}

type CameraConfig struct {
	Device  string // video device path (default /dev/video0)
	Timeout int    // bounded wait for a single capture, seconds
}

type EncoderConfig struct {
	Python    string  // python interpreter running the encoder worker
	Script    string  // path to the encoder worker script
	Tolerance float64 // face match threshold, lower is stricter
	MaxWidth  int     // probe frames wider than this get downscaled
}

type DatabaseConfig struct {
	URL string // PostgreSQL connection URL; empty disables the event log
}

type WebConfig struct {
	Host string
	Port int
}

// Load reads the configuration from the environment, falling back to
// defaults that match a local single-machine deployment.
func Load() *Config {
	return &Config{
		Secret:     envString("CAPTURE_PASSWORD", "monSecret"),
		GalleryDir: envString("FACEGATE_GALLERY_DIR", "faces"),
		PhotoDir:   envString("FACEGATE_PHOTO_DIR", "photos"),
		Camera: CameraConfig{
			Device:  envString("FACEGATE_CAMERA", "/dev/video0"),
			Timeout: envInt("FACEGATE_CAPTURE_TIMEOUT", 10),
		},
		Encoder: EncoderConfig{
			Python:    envString("FACEGATE_PYTHON", "python3"),
			Script:    envString("FACEGATE_ENCODER_SCRIPT", "python/encoder.py"),
			Tolerance: envFloat("FACEGATE_MATCH_TOLERANCE", 0.6),
			MaxWidth:  envInt("FACEGATE_PROBE_MAX_WIDTH", 1280),
		},
		Database: DatabaseConfig{
			URL: databaseURL(),
		},
		Web: WebConfig{
			Host: envString("FACEGATE_HOST", "127.0.0.1"),
			Port: envInt("FACEGATE_PORT", 8080),
		},
	}
}

// databaseURL prefers the explicit connection URL and falls back to
// assembling one from the standard POSTGRES_* variables. An empty result
// disables the access-event log entirely.
func databaseURL() string {
	if url := os.Getenv("FACEGATE_DATABASE_URL"); url != "" {
		return url
	}
	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		return ""
	}
	user := os.Getenv("POSTGRES_USER")
	pass := os.Getenv("POSTGRES_PASSWORD")
	name := os.Getenv("POSTGRES_DB")
	port := os.Getenv("POSTGRES_PORT")
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, pass, host, port, name)
}

// envString reads an environment variable, returning the default when the
// variable is unset or empty.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}
