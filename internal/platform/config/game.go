package config

import (
	"flag"
	"fmt"
	"strings"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreBolt   = "bolt"
)

// UI modes.
const (
	UIAuto  = "auto"
	UITUI   = "tui"
	UIPlain = "plain"
)

// Game holds the settings for the interactive game binary.
type Game struct {
	DBPath      string `env:"SHELL_DB_PATH" envDefault:"saves/shadowshell.db"`
	Store       string `env:"SHELL_STORE" envDefault:"sqlite"`
	Seed        int64  `env:"SHELL_SEED" envDefault:"0"`
	MapSize     int    `env:"SHELL_MAP_SIZE" envDefault:"12"`
	LogFile     string `env:"SHELL_LOG_FILE" envDefault:"shadowshell.log"`
	UI          string `env:"SHELL_UI" envDefault:"auto"`
	ItemsFile   string `env:"SHELL_ITEMS_FILE"`
	EnemiesFile string `env:"SHELL_ENEMIES_FILE"`
	CacheSize   int    `env:"SHELL_CACHE_SIZE" envDefault:"16"`
}

// ParseGame parses .env, environment and flags into a Game config.
func ParseGame(fs *flag.FlagSet, args []string) (Game, error) {
	if err := LoadDotEnv(); err != nil {
		return Game{}, err
	}
	var cfg Game
	if err := ParseEnv(&cfg); err != nil {
		return Game{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the save database")
	fs.StringVar(&cfg.Store, "store", cfg.Store, "save backend: sqlite or bolt")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 = random)")
	fs.IntVar(&cfg.MapSize, "size", cfg.MapSize, "world grid size")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "log file used while the TUI is active")
	fs.StringVar(&cfg.UI, "ui", cfg.UI, "front end: auto, tui or plain")
	fs.StringVar(&cfg.ItemsFile, "items", cfg.ItemsFile, "override item catalog (JSON)")
	fs.StringVar(&cfg.EnemiesFile, "enemies", cfg.EnemiesFile, "override enemy catalog (JSON)")
	fs.IntVar(&cfg.CacheSize, "cache", cfg.CacheSize, "number of saves kept in the read cache")
	if err := ParseArgs(fs, args); err != nil {
		return Game{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks cross-field constraints.
func (g Game) Validate() error {
	switch strings.ToLower(g.Store) {
	case StoreSQLite, StoreBolt:
	default:
		return fmt.Errorf("unknown store %q", g.Store)
	}
	switch strings.ToLower(g.UI) {
	case UIAuto, UITUI, UIPlain:
	default:
		return fmt.Errorf("unknown ui %q", g.UI)
	}
	if g.MapSize < 4 {
		return fmt.Errorf("map size must be at least 4, got %d", g.MapSize)
	}
	if g.CacheSize < 1 {
		return fmt.Errorf("cache size must be positive, got %d", g.CacheSize)
	}
	return nil
}

// Sim holds the settings for the battle simulator.
type Sim struct {
	Battles int    `env:"SHELL_SIM_BATTLES" envDefault:"500"`
	Seed    int64  `env:"SHELL_SEED" envDefault:"1"`
	Level   int    `env:"SHELL_SIM_LEVEL" envDefault:"1"`
	Verbose bool   `env:"SHELL_SIM_VERBOSE" envDefault:"false"`
	Metrics string `env:"SHELL_SIM_METRICS"`
}

// ParseSim parses environment and flags into a Sim config.
func ParseSim(fs *flag.FlagSet, args []string) (Sim, error) {
	var cfg Sim
	if err := ParseEnv(&cfg); err != nil {
		return Sim{}, err
	}
	fs.IntVar(&cfg.Battles, "n", cfg.Battles, "battles per scenario")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 = random)")
	fs.IntVar(&cfg.Level, "level", cfg.Level, "player level for the simulated hero")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "log every battle event")
	fs.StringVar(&cfg.Metrics, "metrics", cfg.Metrics, "write Prometheus text metrics to this file")
	if err := ParseArgs(fs, args); err != nil {
		return Sim{}, err
	}
	if cfg.Battles < 1 {
		return Sim{}, fmt.Errorf("battles must be positive, got %d", cfg.Battles)
	}
	if cfg.Level < 1 {
		return Sim{}, fmt.Errorf("level must be positive, got %d", cfg.Level)
	}
	return cfg, nil
}
