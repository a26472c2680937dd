// Load envs from .env
// Load YAML config
// Apply env + CLI overrides
// Validate config

package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/artistritesh/Job-Alerts/internal/logging"
)

const (
	defaultConfigPath    = "configs/config.yaml"
	defaultSMTPServer    = "smtp.gmail.com"
	defaultSMTPPort      = 465
	defaultSenderName    = "Job Bot"
	defaultMaxResults    = 20
	defaultDaysBackLimit = 7
	defaultSerpAPIRPS    = 1.0
	defaultLabel         = "Daily Job Alerts"
)

var (
	defaultKeywords  = []string{"Agile Program Manager", "Program Manager", "Scrum Master", "Project Manager"}
	defaultLocations = []string{"United States", "Europe", "Australia", "New Zealand"}
)

type Config struct {
	//Search criteria
	Keywords  []string `yaml:"keywords"`
	Locations []string `yaml:"locations"`
	Subject   string   `yaml:"subject"`

	//Filtering
	MaxResultsPerQuery int  `yaml:"max_results_per_query" env:"MAX_RESULTS_PER_QUERY"`
	DaysBackLimit      int  `yaml:"days_back_limit" env:"DAYS_BACK_LIMIT"`
	StrictMatch        bool `yaml:"strict_match" env:"STRICT_MATCH"`
	RequireSponsorship bool `yaml:"require_sponsorship_signal" env:"REQUIRE_SPONSORSHIP"`
	TitleCase          bool `yaml:"title_case" env:"TITLE_CASE"`
	Deduplicate        bool `yaml:"deduplicate" env:"DEDUPLICATE"`

	SerpAPI  SerpAPIConfig  `yaml:"serpapi"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Telegram TelegramConfig `yaml:"telegram"`

	//Output
	AttachPDF  bool   `yaml:"attach_pdf" env:"ATTACH_PDF"`
	ArchiveDir string `yaml:"archive_dir" env:"ARCHIVE_DIR"`
	DryRun     bool   `yaml:"dry_run" env:"DRY_RUN"`

	//Process
	LockPath string `yaml:"lock_path" env:"LOCK_PATH"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
}

type SerpAPIConfig struct {
	APIKey            string  `yaml:"api_key" env:"SERPAPI_KEY"`
	BaseURL           string  `yaml:"base_url"`
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"SERPAPI_RPS"`
}

type SMTPConfig struct {
	Server      string   `yaml:"server" env:"SMTP_SERVER"`
	Port        int      `yaml:"port" env:"SMTP_PORT"`
	Security    string   `yaml:"security" env:"SMTP_SECURITY"`
	Username    string   `yaml:"username" env:"SMTP_USERNAME"`
	Password    string   `yaml:"-" env:"SMTP_PASSWORD"`
	SenderEmail string   `yaml:"sender_email" env:"SENDER_EMAIL"`
	SenderName  string   `yaml:"sender_name" env:"SENDER_NAME"`
	Recipients  []string `yaml:"recipients" env:"RECIPIENT_EMAILS"`
}

type TelegramConfig struct {
	Token  string `yaml:"-" env:"TELEGRAM_BOT_TOKEN"`
	ChatID int64  `yaml:"chat_id" env:"TELEGRAM_CHAT_ID"`
}

func (t TelegramConfig) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Keywords:           append([]string(nil), defaultKeywords...),
		Locations:          append([]string(nil), defaultLocations...),
		Subject:            defaultLabel,
		MaxResultsPerQuery: defaultMaxResults,
		DaysBackLimit:      defaultDaysBackLimit,
		SerpAPI:            SerpAPIConfig{RequestsPerSecond: defaultSerpAPIRPS},
		SMTP: SMTPConfig{
			Server:     defaultSMTPServer,
			Port:       defaultSMTPPort,
			SenderName: defaultSenderName,
		},
	}
}

type cliFlags struct {
	configPath string
	keywords   string
	locations  string
	subject    string
	dryRun     bool
}

// Load builds the configuration for one run: defaults, then the YAML file,
// then .env and the environment, then CLI flags. Malformed numbers fall back
// to defaults with a warning; missing credentials are an error. --help
// returns an error wrapping flag.ErrHelp.
func Load(args []string, logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	flags, err := parseFlags(args)
	if err != nil {
		return nil, err
	}

	_ = godotenv.Load()

	cfg := Default()

	path := flags.configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	explicit := path != ""
	if path == "" {
		path = defaultConfigPath
	}
	if err := cfg.loadYAML(path, explicit, logger); err != nil {
		return nil, err
	}

	cfg.applyEnv(logger)
	cfg.applyFlags(flags)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseFlags(args []string) (cliFlags, error) {
	var f cliFlags
	fs := flag.NewFlagSet("job-alerts", flag.ContinueOnError)
	fs.StringVar(&f.configPath, "config", "", "path to YAML config (default configs/config.yaml)")
	fs.StringVar(&f.keywords, "keywords", "", "comma-separated search keywords")
	fs.StringVar(&f.locations, "locations", "", "comma-separated search locations")
	fs.StringVar(&f.subject, "subject", "", "workflow label used in the email subject")
	fs.BoolVar(&f.dryRun, "dry-run", false, "search and filter but do not deliver")
	if err := fs.Parse(args); err != nil {
		return f, fmt.Errorf("parse flags: %w", err)
	}
	return f, nil
}

func (c *Config) loadYAML(path string, explicit bool, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if explicit {
				logger.Warn("config file not found, using defaults", "path", path)
			}
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	logger.Debug("config file loaded", "path", path)
	return nil
}

func (c *Config) applyEnv(logger *slog.Logger) {
	setString(&c.SerpAPI.APIKey, "SERPAPI_KEY")
	c.SerpAPI.RequestsPerSecond = getenvFloat("SERPAPI_RPS", c.SerpAPI.RequestsPerSecond, logger)

	c.MaxResultsPerQuery = getenvInt("MAX_RESULTS_PER_QUERY", c.MaxResultsPerQuery, logger)
	c.DaysBackLimit = getenvInt("DAYS_BACK_LIMIT", c.DaysBackLimit, logger)
	c.StrictMatch = getenvBool("STRICT_MATCH", c.StrictMatch, logger)
	c.RequireSponsorship = getenvBool("REQUIRE_SPONSORSHIP", c.RequireSponsorship, logger)
	c.TitleCase = getenvBool("TITLE_CASE", c.TitleCase, logger)
	c.Deduplicate = getenvBool("DEDUPLICATE", c.Deduplicate, logger)

	setString(&c.SMTP.Server, "SMTP_SERVER")
	c.SMTP.Port = getenvInt("SMTP_PORT", c.SMTP.Port, logger)
	setString(&c.SMTP.Security, "SMTP_SECURITY")
	setString(&c.SMTP.Username, "SMTP_USERNAME")
	setString(&c.SMTP.Password, "SMTP_PASSWORD")
	setString(&c.SMTP.SenderEmail, "SENDER_EMAIL")
	setString(&c.SMTP.SenderName, "SENDER_NAME")
	if v := os.Getenv("RECIPIENT_EMAILS"); v != "" {
		c.SMTP.Recipients = SplitList(v)
	}

	setString(&c.Telegram.Token, "TELEGRAM_BOT_TOKEN")
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			logger.Warn("invalid TELEGRAM_CHAT_ID, telegram disabled", "value", v)
			c.Telegram.ChatID = 0
		} else {
			c.Telegram.ChatID = id
		}
	}

	c.AttachPDF = getenvBool("ATTACH_PDF", c.AttachPDF, logger)
	setString(&c.ArchiveDir, "ARCHIVE_DIR")
	c.DryRun = getenvBool("DRY_RUN", c.DryRun, logger)
	setString(&c.LockPath, "LOCK_PATH")
	setString(&c.LogLevel, "LOG_LEVEL")
}

func (c *Config) applyFlags(f cliFlags) {
	if f.keywords != "" {
		c.Keywords = SplitList(f.keywords)
	}
	if f.locations != "" {
		c.Locations = SplitList(f.locations)
	}
	if f.subject != "" {
		c.Subject = f.subject
	}
	if f.dryRun {
		c.DryRun = true
	}
}

//Set default values if not set or out of range
func (c *Config) applyDefaults() {
	c.Keywords = SplitList(strings.Join(c.Keywords, ","))
	c.Locations = SplitList(strings.Join(c.Locations, ","))
	if len(c.Keywords) == 0 {
		c.Keywords = append([]string(nil), defaultKeywords...)
	}
	if len(c.Locations) == 0 {
		c.Locations = append([]string(nil), defaultLocations...)
	}
	if strings.TrimSpace(c.Subject) == "" {
		c.Subject = defaultLabel
	}
	if c.MaxResultsPerQuery <= 0 {
		c.MaxResultsPerQuery = defaultMaxResults
	}
	if c.DaysBackLimit <= 0 {
		c.DaysBackLimit = defaultDaysBackLimit
	}
	if c.SerpAPI.RequestsPerSecond < 0 {
		c.SerpAPI.RequestsPerSecond = defaultSerpAPIRPS
	}
	if c.SMTP.Server == "" {
		c.SMTP.Server = defaultSMTPServer
	}
	if c.SMTP.Port <= 0 {
		c.SMTP.Port = defaultSMTPPort
	}
	c.SMTP.Security = strings.ToLower(strings.TrimSpace(c.SMTP.Security))
	//GitHub secrets can't hold spaces, so "Job_Bot" means "Job Bot"
	c.SMTP.SenderName = strings.TrimSpace(strings.ReplaceAll(c.SMTP.SenderName, "_", " "))
	if c.SMTP.SenderName == "" {
		c.SMTP.SenderName = defaultSenderName
	}
	c.SMTP.Recipients = SplitList(strings.Join(c.SMTP.Recipients, ","))
}

// Validate checks the fields a run cannot do without.
func (c *Config) Validate() error {
	var errs []error
	if c.SerpAPI.APIKey == "" {
		errs = append(errs, errors.New("SERPAPI_KEY is required"))
	}
	switch c.SMTP.Security {
	case "", "ssl", "starttls":
	default:
		errs = append(errs, fmt.Errorf("SMTP_SECURITY must be ssl or starttls, got %q", c.SMTP.Security))
	}
	if !c.DryRun {
		if c.SMTP.SenderEmail == "" {
			errs = append(errs, errors.New("SENDER_EMAIL is required"))
		}
		if c.SMTP.Username == "" {
			errs = append(errs, errors.New("SMTP_USERNAME is required"))
		}
		if len(c.SMTP.Recipients) == 0 {
			errs = append(errs, errors.New("RECIPIENT_EMAILS is required"))
		}
	}
	return errors.Join(errs...)
}

// SplitList splits a comma-separated value, trimming and dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func getenvInt(key string, def int, logger *slog.Logger) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn("invalid integer, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func getenvFloat(key string, def float64, logger *slog.Logger) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logger.Warn("invalid number, using default", "key", key, "value", v, "default", def)
		return def
	}
	return f
}

func getenvBool(key string, def bool, logger *slog.Logger) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.Warn("invalid boolean, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}
