package cfg

import "time"

const (
	SourceSheet   = "sheet"
	SourceBackend = "backend"
)

type Cfg struct {
	// Data source configuration
	Source       string
	SheetID      string
	SheetGID     string
	SheetURL     string
	BackendURL   string
	BackendToken string
	SynonymsFile string

	// Application configuration
	Port            string
	BaseUrl         string
	RefreshInterval int
	Timeout         int
	WorkerCount     int
	MaxRetries      int
	APIAccessKey    string

	// Presentation
	Locale     string
	DateLocale string
	DateLayout string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

func (c *Cfg) GetRefreshInterval() time.Duration {
	if c.RefreshInterval <= 0 {
		return 300 * time.Second
	}
	return time.Duration(c.RefreshInterval) * time.Second
}

func (c *Cfg) GetTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}
