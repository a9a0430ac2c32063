package tilewave

import (
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// GenConfig outlines settings for a full generation run - grid size,
// seeding, how the tile supply behaves and which weighting stages to
// install. Zero values fall back to workable defaults so a partial
// yaml file is fine.
type GenConfig struct {
	// Width / Height of the grid in cells
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Seed for reproducible runs, 0 picks one
	Seed int64 `yaml:"seed"`

	// Turns caps the number of collapse turns, 0 means 2x the cell
	// count (enough to visit everything plus discarded draws)
	Turns int `yaml:"turns"`

	// Sharpness controls selection. At or below 0 every turn takes
	// the minimum entropy cell; above 0 cells are sampled with weight
	// exp(-entropy * sharpness), so small values wander more.
	Sharpness float64 `yaml:"sharpness"`

	Deck DeckGen `yaml:"deck"`
	Bias BiasGen `yaml:"bias"`
	Log  LogGen  `yaml:"log"`
}

// DeckGen outlines the tile supply.
type DeckGen struct {
	// Enabled installs a supply deck at the head of the pipeline
	Enabled bool `yaml:"enabled"`

	// Real draws one kind at a time, like a physical shuffled deck
	Real bool `yaml:"real"`

	// Filter drops exhausted kinds instead of rescaling weights
	Filter bool `yaml:"filter"`

	// Copies shuffles several boxes of tiles together
	Copies int `yaml:"copies"`

	// Infinite refills the deck once it empties; RefillAll lets
	// one-off kinds (rivers) refill too
	Infinite  bool `yaml:"infinite"`
	RefillAll bool `yaml:"refill_all"`
}

// BiasGen outlines the weighting stages stacked on the deck.
type BiasGen struct {
	// Rivers sequences river tiles before everything else
	Rivers bool `yaml:"rivers"`

	// CityForecast grows contiguous cities; ShieldBonus adds that
	// many points per shield in a city being joined
	CityForecast bool `yaml:"city_forecast"`
	ShieldBonus  int  `yaml:"shield_bonus"`

	// RoadForecast grows contiguous road networks
	RoadForecast bool `yaml:"road_forecast"`

	// Opportunistic favours the least constrained cells
	Opportunistic bool `yaml:"opportunistic"`
}

// LogGen outlines logging for drivers; the library itself only logs
// through whatever slog handler it is handed.
type LogGen struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`

	// File to log to; empty logs to stdout
	File string `yaml:"file"`

	// Rotation limits, used when File is set
	MaxSizeMB  int `yaml:"max_size_mb"`
	MaxBackups int `yaml:"max_backups"`
}

// SlogLevel maps the configured level name onto slog.
func (l LogGen) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DefaultGenConfig returns a GenConfig for a modest map with the full
// supply deck and city growth bias.
func DefaultGenConfig() *GenConfig {
	return &GenConfig{
		Width:  20,
		Height: 20,
		Deck:   DeckGen{Enabled: true, Copies: 1},
		Bias:   BiasGen{Rivers: true, CityForecast: true, ShieldBonus: 2},
		Log:    LogGen{Level: "info", MaxSizeMB: 10, MaxBackups: 3},
	}
}

// LoadGenConfig loads a run configuration from a YAML file. A missing
// file yields the defaults; a malformed one is an error.
func LoadGenConfig(path string) (*GenConfig, error) {
	cfg := DefaultGenConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "failed to read %s", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return DefaultGenConfig(), errors.Wrapf(err, "failed to parse %s", path)
	}
	return cfg, nil
}

// MaxTurns resolves the configured turn cap.
func (cfg *GenConfig) MaxTurns() int {
	if cfg.Turns > 0 {
		return cfg.Turns
	}
	return cfg.Width * cfg.Height * 2
}

// Build constructs a grid with the configured pipeline installed.
func (cfg *GenConfig) Build(set *Tileset, log *slog.Logger) (*Grid, error) {
	g, err := New(&Config{
		Width:  cfg.Width,
		Height: cfg.Height,
		Seed:   cfg.Seed,
		Logger: log,
	}, set)
	if err != nil {
		return nil, err
	}

	stages := []Stage{}
	if cfg.Deck.Enabled {
		mode := DeckRescale
		if cfg.Deck.Filter {
			mode = DeckFilter
		}
		deck, err := NewDeck(set, BaseFrequencies(), &DeckConfig{
			Mode:      mode,
			Copies:    cfg.Deck.Copies,
			Infinite:  cfg.Deck.Infinite,
			RefillAll: cfg.Deck.RefillAll,
		})
		if err != nil {
			return nil, err
		}
		if cfg.Deck.Real {
			stages = append(stages, NewRealDeck(deck))
		} else {
			stages = append(stages, deck)
		}
	}
	if cfg.Bias.CityForecast {
		stages = append(stages, NewForecast(City, cfg.Bias.ShieldBonus))
	}
	if cfg.Bias.RoadForecast {
		stages = append(stages, NewForecast(Road, 0))
	}
	if cfg.Bias.Opportunistic {
		stages = append(stages, Opportunistic{})
	}
	// the river restriction goes last so its filter has the final say
	if cfg.Bias.Rivers {
		stages = append(stages, NewRestriction(River))
	}
	g.SetPipeline(NewPipeline(stages...))
	return g, nil
}

// Step runs one collapse turn using the configured selection policy.
func (cfg *GenConfig) Step(g *Grid) (int, int) {
	if cfg.Sharpness > 0 {
		return g.CollapseRandom(cfg.Sharpness)
	}
	return g.CollapseMin()
}
