// Package config persists tool state at ~/.config/ustudy/config.json:
// stored accounts, the active account, each account's selected course tree,
// and the study-time ranges the synthesizer reports per content category.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/sena/ustudy/internal/models"
)

// StudyRange is a reported-study-time range in seconds.
type StudyRange struct {
	Min int `json:"min" validate:"gte=0,lte=3600"`
	Max int `json:"max" validate:"gtefield=Min,lte=3600"`
}

// StudyTime holds the configured range per content category.
type StudyTime struct {
	Question StudyRange `json:"question"`
	Document StudyRange `json:"document"`
	Content  StudyRange `json:"content"`
}

// DefaultStudyRange is used for any category the user never edited.
func DefaultStudyRange() StudyRange {
	return StudyRange{Min: 180, Max: 360}
}

// UserConfig is one stored account and its tracked course tree.
type UserConfig struct {
	Site     string                   `json:"site" validate:"required"`
	Username string                   `json:"username" validate:"required"`
	Password string                   `json:"password" validate:"required"`
	Name     string                   `json:"name,omitempty"` // learner display name, required by sync payloads
	Token    string                   `json:"token,omitempty"`
	Cookies  map[string]string        `json:"cookies,omitempty"`
	Courses  map[int64]*models.Course `json:"courses,omitempty"`
}

// Config is the root of config.json.
type Config struct {
	Debug      bool                   `json:"debug"`
	ActiveUser string                 `json:"active_user"`
	Users      map[string]*UserConfig `json:"users"`
	StudyTime  StudyTime              `json:"study_time"`
	Sleep      string                 `json:"sleep,omitempty"` // duration string, default "1s"
}

var validate = validator.New()

// Dir returns ~/.config/ustudy, creating it if necessary.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	dir := filepath.Join(home, ".config", "ustudy")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}

// Load reads config.json from dir, filling defaults for anything unset.
// A missing file yields a usable empty config. A .env file in the working
// directory is loaded first so env overrides work without exporting.
func Load(dir string) (*Config, error) {
	godotenv.Load()

	cfg := &Config{}
	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Users == nil {
		cfg.Users = make(map[string]*UserConfig)
	}
	fillRange(&cfg.StudyTime.Question)
	fillRange(&cfg.StudyTime.Document)
	fillRange(&cfg.StudyTime.Content)

	return cfg, nil
}

func fillRange(r *StudyRange) {
	if r.Min == 0 && r.Max == 0 {
		*r = DefaultStudyRange()
	}
}

// Save writes the config atomically (temp file + rename).
func Save(dir string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "config-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, filepath.Join(dir, "config.json"))
}

// ValidateStudyTime checks every configured range (min <= max, 0-3600).
func ValidateStudyTime(st StudyTime) error {
	for _, r := range []struct {
		name string
		rng  StudyRange
	}{
		{"question", st.Question},
		{"document", st.Document},
		{"content", st.Content},
	} {
		if err := validate.Struct(r.rng); err != nil {
			return fmt.Errorf("%s range: %w", r.name, err)
		}
	}
	return nil
}

// ValidateUser checks the fields a login flow must provide.
func ValidateUser(u *UserConfig) error {
	return validate.Struct(u)
}

// Active returns the active user's config, or an error naming the fix.
func (c *Config) Active() (*UserConfig, error) {
	if c.ActiveUser == "" {
		return nil, fmt.Errorf("no active account (run: ustudy login)")
	}
	user, ok := c.Users[c.ActiveUser]
	if !ok {
		return nil, fmt.Errorf("active account %q not found (run: ustudy login)", c.ActiveUser)
	}
	return user, nil
}

// GetSleep returns the inter-request pacing delay.
// Priority: USTUDY_SLEEP env > config sleep > 1s.
func (c *Config) GetSleep() time.Duration {
	if v := os.Getenv("USTUDY_SLEEP"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	if c.Sleep != "" {
		if d, err := time.ParseDuration(c.Sleep); err == nil {
			return d
		}
	}
	return time.Second
}

// GetRequestTimeout returns the per-request wall-clock budget.
// Priority: USTUDY_TIMEOUT env > 15s.
func GetRequestTimeout() time.Duration {
	if v := os.Getenv("USTUDY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return 15 * time.Second
}
