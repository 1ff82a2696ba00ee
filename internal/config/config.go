package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads .env style files into the process environment. Variables that
// are already set win. A missing file is not an error.
func Load(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func GetenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

// GetenvSeconds reads an integer number of seconds.
func GetenvSeconds(key string, fallback int) time.Duration {
	return time.Duration(GetenvInt(key, fallback)) * time.Second
}

// Sandbox is the sandboxd service configuration.
type Sandbox struct {
	Addr          string
	FPS           int
	ReplicationHz int
	TelemetryURL  string
	SessionIdle   time.Duration
}

// LoadSandbox reads the sandboxd configuration from the environment.
func LoadSandbox() Sandbox {
	c := Sandbox{
		Addr:          Getenv("SANDBOX_ADDR", ":9010"),
		FPS:           GetenvInt("SANDBOX_FPS", 60),
		ReplicationHz: GetenvInt("SANDBOX_REPLICATION_HZ", 60),
		TelemetryURL:  Getenv("TELEMETRY_URL", ""),
		SessionIdle:   GetenvSeconds("SESSION_IDLE_SEC", 900),
	}
	if c.FPS <= 0 {
		c.FPS = 60
	}
	if c.ReplicationHz <= 0 || c.ReplicationHz > c.FPS {
		c.ReplicationHz = c.FPS
	}
	return c
}
