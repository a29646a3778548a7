package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dalemusser/grampanchayat/internal/app/system/fieldmodel"
)

// Config is the panchayatctl environment.
type Config struct {
	APIURL      string        `env:"PANCHAYAT_API_URL" envDefault:"http://localhost:5000/api"`
	Lang        string        `env:"PANCHAYAT_LANG" envDefault:"mr"`
	Credentials string        `env:"PANCHAYAT_CREDENTIALS"`
	Timeout     time.Duration `env:"PANCHAYAT_TIMEOUT" envDefault:"15s"`
}

// LoadConfig reads .env files (missing files are skipped) and then the
// process environment. Variables already set in the environment win over
// the files.
func LoadConfig(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if !fieldmodel.IsSupported(cfg.Lang) {
		return Config{}, fmt.Errorf("PANCHAYAT_LANG: unsupported language %q (want one of %v)", cfg.Lang, fieldmodel.Codes())
	}
	cfg.Lang = fieldmodel.Normalize(cfg.Lang)
	if cfg.Credentials == "" {
		cfg.Credentials = defaultCredentialsPath()
	}
	return cfg, nil
}

func defaultCredentialsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "panchayatctl", "credentials.json")
}
