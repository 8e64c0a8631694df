package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Addr      string
	ResizeMin time.Duration
	ResizeMax time.Duration
}

// Load reads .env if present, then applies environment overrides. Resize
// bounds default to the standard 30–50s window.
func Load(log *zap.Logger) Config {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file, using environment")
	}

	cfg := Config{
		Addr:      ":8080",
		ResizeMin: 30 * time.Second,
		ResizeMax: 50 * time.Second,
	}
	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	if d, ok := millis("RESIZE_MIN_MS"); ok {
		cfg.ResizeMin = d
	}
	if d, ok := millis("RESIZE_MAX_MS"); ok {
		cfg.ResizeMax = d
	}
	if cfg.ResizeMax <= cfg.ResizeMin {
		log.Warn("resize window empty, falling back to defaults",
			zap.Duration("min", cfg.ResizeMin), zap.Duration("max", cfg.ResizeMax))
		cfg.ResizeMin = 30 * time.Second
		cfg.ResizeMax = 50 * time.Second
	}
	return cfg
}

func millis(key string) (time.Duration, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms <= 0 {
		return 0, false
	}
	return time.Duration(ms) * time.Millisecond, true
}
