package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	DefaultModel         = "gpt-5.2"
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultSMTPHost      = "smtp.gmail.com"
	DefaultSMTPPort      = 587
	DefaultSubjectPrefix = "Suggestions for things to eat this week"
	DefaultMealsPerWeek  = 7
	DefaultTitleLimit    = 60
	DefaultRecipesFile   = "recipes.txt"
)

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type MailConfig struct {
	User          string
	Password      string
	To            string
	SMTPHost      string
	SMTPPort      int
	SubjectPrefix string
}

type RecipesConfig struct {
	File          string
	IncludeSweets bool
	MealsPerWeek  int
	TitleLimit    int
	ProxyURL      string
}

// AppConfig is built once at startup and handed to each component.
type AppConfig struct {
	OpenAI         OpenAIConfig
	Mail           MailConfig
	Recipes        RecipesConfig
	PushgatewayURL string
	LogLevel       slog.Level
}

// Load reads the configuration from the process environment.
func Load() (AppConfig, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads the configuration through getenv. Required credentials are
// not checked here; OpenAIConfig.Validate and MailConfig.Validate do that
// right before the component that needs them touches the network.
func LoadFrom(getenv func(string) string) (AppConfig, error) {
	l := loader{getenv: getenv}
	cfg := AppConfig{}

	cfg.OpenAI.APIKey = l.loadOptional("OPENAI_API_KEY", "")
	cfg.OpenAI.Model = l.loadOptional("OPENAI_MODEL", DefaultModel)
	cfg.OpenAI.BaseURL = l.loadOptional("OPENAI_BASE_URL", DefaultOpenAIBaseURL)

	cfg.Mail.User = l.loadOptional("EMAIL_USER", "")
	cfg.Mail.Password = l.loadOptional("EMAIL_PASS", "")
	cfg.Mail.To = l.loadOptional("EMAIL_TO", "")
	cfg.Mail.SMTPHost = l.loadOptional("SMTP_HOST", DefaultSMTPHost)
	cfg.Mail.SubjectPrefix = l.loadOptional("EMAIL_SUBJECT_PREFIX", DefaultSubjectPrefix)

	var err error
	if cfg.Mail.SMTPPort, err = l.loadInt("SMTP_PORT", DefaultSMTPPort); err != nil {
		return AppConfig{}, err
	}
	if cfg.Recipes.MealsPerWeek, err = l.loadInt("MEALS_PER_WEEK", DefaultMealsPerWeek); err != nil {
		return AppConfig{}, err
	}
	if cfg.Recipes.MealsPerWeek <= 0 {
		return AppConfig{}, errors.Errorf("config: MEALS_PER_WEEK must be positive, got %d", cfg.Recipes.MealsPerWeek)
	}
	if cfg.Recipes.TitleLimit, err = l.loadInt("TITLE_FETCH_LIMIT", DefaultTitleLimit); err != nil {
		return AppConfig{}, err
	}

	cfg.Recipes.File = l.loadOptional("RECIPES_FILE", "")
	if cfg.Recipes.File == "" {
		cfg.Recipes.File = defaultRecipesFile()
	}
	cfg.Recipes.IncludeSweets = l.loadBool("INCLUDE_SWEETS")
	cfg.Recipes.ProxyURL = l.loadOptional("FETCH_PROXY_URL", "")

	cfg.PushgatewayURL = l.loadOptional("PUSHGATEWAY_URL", "")

	lvlString := l.loadOptional("LOG_LEVEL", "INFO")
	cfg.LogLevel, err = parseLogLevel(lvlString)
	if err != nil {
		slog.Error("Invalid LOG_LEVEL", "error", err)
		cfg.LogLevel = slog.LevelInfo
	}

	return cfg, nil
}

func (c OpenAIConfig) Validate() error {
	if c.APIKey == "" {
		return &MissingError{Keys: []string{"OPENAI_API_KEY"}}
	}
	return nil
}

func (c MailConfig) Validate() error {
	var missing []string
	if c.User == "" {
		missing = append(missing, "EMAIL_USER")
	}
	if c.Password == "" {
		missing = append(missing, "EMAIL_PASS")
	}
	if c.To == "" {
		missing = append(missing, "EMAIL_TO")
	}
	if len(missing) > 0 {
		return &MissingError{Keys: missing}
	}
	// Both end up in message headers.
	for key, value := range map[string]string{"EMAIL_USER": c.User, "EMAIL_TO": c.To} {
		if strings.ContainsAny(value, "\r\n") {
			return errors.Errorf("config: %s must not contain line breaks", key)
		}
	}
	return nil
}

// MissingError reports required settings that were not provided.
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return "config: required env vars not set: " + strings.Join(e.Keys, ", ")
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	var err = level.UnmarshalText([]byte(s))
	return level, err
}

// defaultRecipesFile prefers recipes.txt next to the binary and falls back to
// the working directory, which is where it lives under `go run`.
func defaultRecipesFile() string {
	if exe, err := os.Executable(); err == nil {
		path := filepath.Join(filepath.Dir(exe), DefaultRecipesFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return DefaultRecipesFile
}

type loader struct {
	getenv func(string) string
}

func (l loader) loadOptional(key, defaultValue string) string {
	value := strings.TrimSpace(l.getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func (l loader) loadInt(key string, defaultValue int) (int, error) {
	value := l.loadOptional(key, "")
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Wrapf(err, "config: parse %s", key)
	}
	return n, nil
}

func (l loader) loadBool(key string) bool {
	value := l.loadOptional(key, "false")
	b, err := strconv.ParseBool(value)
	if err != nil {
		slog.Error("Invalid "+key, "value", value, "error", err)
		return false
	}
	return b
}
