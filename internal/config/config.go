package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"valuebot/internal/ev"
)

type Telegram struct {
	ChatID int64 `yaml:"chat_id"`
}

type OddsAPI struct {
	BaseURL           string `yaml:"base_url"`
	Regions           string `yaml:"regions"`
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
}

type Scan struct {
	IntervalMinutes int                 `yaml:"interval_minutes"`
	Sports          map[string][]string `yaml:"sports"` // sport key -> market keys
}

type Settlement struct {
	IntervalMinutes int `yaml:"interval_minutes"`
	DaysFrom        int `yaml:"days_from"`
}

type Detection struct {
	TrustedBooks    []string `yaml:"trusted_books"`
	MinEV           float64  `yaml:"min_ev"`
	MajorEVOverride float64  `yaml:"major_ev_override"`
	MaxEV           float64  `yaml:"max_ev"` // 0 disables the upper cap
	MaxHoursToStart float64  `yaml:"max_hours_to_start"`
	OutlierRatio    float64  `yaml:"outlier_ratio"`
}

type Staking struct {
	Bands []ev.Band `yaml:"bands"`
}

type Root struct {
	DatabasePath string     `yaml:"database_path"`
	HTTPPort     string     `yaml:"http_port"`
	Telegram     Telegram   `yaml:"telegram"`
	OddsAPI      OddsAPI    `yaml:"odds_api"`
	Scan         Scan       `yaml:"scan"`
	Settlement   Settlement `yaml:"settlement"`
	Detection    Detection  `yaml:"detection"`
	Staking      Staking    `yaml:"staking"`
}

// Load reads the YAML config and applies defaults for anything unset.
// Secrets (bot token, odds API key) come from the environment, not the file.
func Load(path string) (Root, error) {
	var c Root
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("failed to parse config: %w", err)
	}

	if c.DatabasePath == "" {
		c.DatabasePath = "data/valuebot.db"
	}
	if c.HTTPPort == "" {
		c.HTTPPort = "8080"
	}
	if c.OddsAPI.BaseURL == "" {
		c.OddsAPI.BaseURL = "https://api.the-odds-api.com"
	}
	if c.OddsAPI.Regions == "" {
		c.OddsAPI.Regions = "eu"
	}
	if c.OddsAPI.TimeoutSeconds == 0 {
		c.OddsAPI.TimeoutSeconds = 15
	}
	if c.OddsAPI.RequestsPerMinute == 0 {
		c.OddsAPI.RequestsPerMinute = 30
	}
	if c.Scan.IntervalMinutes == 0 {
		c.Scan.IntervalMinutes = 5
	}
	if c.Settlement.IntervalMinutes == 0 {
		c.Settlement.IntervalMinutes = 15
	}
	if c.Settlement.DaysFrom == 0 {
		c.Settlement.DaysFrom = 3
	}
	if c.Detection.MinEV == 0 {
		c.Detection.MinEV = 0.03
	}
	if c.Detection.MajorEVOverride == 0 {
		c.Detection.MajorEVOverride = 0.10
	}
	if c.Detection.MaxHoursToStart == 0 {
		c.Detection.MaxHoursToStart = 48
	}
	if c.Detection.OutlierRatio == 0 {
		c.Detection.OutlierRatio = 1.15
	}
	if len(c.Staking.Bands) == 0 {
		c.Staking.Bands = []ev.Band{
			{MinEV: 0.03, Units: 1},
			{MinEV: 0.06, Units: 2},
			{MinEV: 0.10, Units: 3},
		}
	}
	sort.Slice(c.Staking.Bands, func(i, j int) bool {
		return c.Staking.Bands[i].MinEV < c.Staking.Bands[j].MinEV
	})

	if len(c.Scan.Sports) == 0 {
		return c, fmt.Errorf("config has no sports to scan")
	}
	if len(c.Detection.TrustedBooks) < 2 {
		return c, fmt.Errorf("config needs at least two trusted books")
	}

	return c, nil
}
