package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
	"golang.org/x/text/language"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Data source configuration
	Source       string `long:"source" env:"SOURCE" default:"sheet" choice:"sheet" choice:"backend" description:"Where catalog records are loaded from"`
	SheetID      string `long:"sheet-id" env:"SHEET_ID" description:"Google Sheet ID (sheet source)"`
	SheetGID     string `long:"sheet-gid" env:"SHEET_GID" default:"0" description:"Sheet tab gid (sheet source)"`
	SheetURL     string `long:"sheet-url" env:"SHEET_URL" description:"Override for the gviz query endpoint (sheet source)"`
	BackendURL   string `long:"backend-url" env:"BACKEND_URL" description:"Authenticated backend endpoint (backend source)"`
	BackendToken string `long:"backend-token" env:"BACKEND_TOKEN" description:"Session token for the backend source"`
	SynonymsFile string `long:"synonyms-file" env:"SYNONYMS_FILE" description:"YAML file with additional header synonyms"`

	// Application configuration
	Port            string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl         string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://catalog.example.com)"`
	RefreshInterval int    `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"300" description:"Catalog reload interval in seconds"`
	Timeout         int    `long:"timeout" env:"TIMEOUT" default:"30" description:"Fetch timeout in seconds"`
	WorkerCount     int    `long:"worker-count" env:"WORKER_COUNT" default:"1" description:"Number of background workers"`
	MaxRetries      int    `long:"max-retries" env:"MAX_RETRIES" default:"0" description:"Retries for a failed load before waiting for the next refresh"`
	APIAccessKey    string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for the reload endpoint (optional)"`

	// Presentation
	Locale     string `long:"locale" env:"LOCALE" default:"zh-Hant" description:"BCP 47 locale used to sort filter values"`
	DateLocale string `long:"date-locale" env:"DATE_LOCALE" default:"zh_TW" description:"Locale for display dates (e.g., zh_TW, en_US)"`
	DateLayout string `long:"date-layout" env:"DATE_LAYOUT" default:"2006/1/2" description:"Go time layout for display dates"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Sheet Catalog/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for dates without a zone (e.g., UTC, Asia/Taipei)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	return LoadArgs(nil)
}

// LoadArgs parses args instead of os.Args when args is non-nil.
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Source:          raw.Source,
		SheetID:         raw.SheetID,
		SheetGID:        raw.SheetGID,
		SheetURL:        raw.SheetURL,
		BackendURL:      raw.BackendURL,
		BackendToken:    raw.BackendToken,
		SynonymsFile:    raw.SynonymsFile,
		Port:            raw.Port,
		BaseUrl:         raw.BaseUrl,
		RefreshInterval: raw.RefreshInterval,
		Timeout:         raw.Timeout,
		WorkerCount:     raw.WorkerCount,
		MaxRetries:      raw.MaxRetries,
		APIAccessKey:    raw.APIAccessKey,
		Locale:          raw.Locale,
		DateLocale:      raw.DateLocale,
		DateLayout:      raw.DateLayout,
		UserAgent:       raw.UserAgent,
		Timezone:        raw.Timezone,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

// LocaleTag returns the collation locale, falling back to Traditional
// Chinese when the configured value does not parse.
func (c *Cfg) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.TraditionalChinese
	}
	return tag
}

func validate(cfg *Cfg) error {
	switch cfg.Source {
	case SourceSheet:
		if cfg.SheetID == "" && cfg.SheetURL == "" {
			return fmt.Errorf("sheet source requires --sheet-id or --sheet-url")
		}
	case SourceBackend:
		if cfg.BackendURL == "" {
			return fmt.Errorf("backend source requires --backend-url")
		}
	default:
		return fmt.Errorf("unknown source %q", cfg.Source)
	}

	nonNegativeFields := map[string]int{
		"refresh interval": cfg.RefreshInterval,
		"timeout":          cfg.Timeout,
		"max retries":      cfg.MaxRetries,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	if cfg.WorkerCount < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}

	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
