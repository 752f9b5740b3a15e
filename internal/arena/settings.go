package arena

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// GameMode selects the kill/absorb rules applied during collision
// resolution.
type GameMode string

const (
	ModeDefault GameMode = "default"
	ModePoison  GameMode = "poison"
	ModeVenom   GameMode = "venom"
)

func (m GameMode) valid() bool {
	switch m {
	case ModeDefault, ModePoison, ModeVenom:
		return true
	default:
		return false
	}
}

// WallConfig is the on-disk shape of one wall entry.
type WallConfig struct {
	ID int          `yaml:"ID"`
	P1 WallEndpoint `yaml:"p1"`
	P2 WallEndpoint `yaml:"p2"`
}

// WallEndpoint mirrors the document's nested {X,Y} wall endpoint shape.
type WallEndpoint struct {
	X float64 `yaml:"X"`
	Y float64 `yaml:"Y"`
}

// Settings holds every tunable parameter for a running arena. It is
// immutable once loaded: the World and Simulation Step only ever read
// from it.
type Settings struct {
	MSPerFrame        int          `yaml:"MSPerFrame"`
	RespawnRate       int          `yaml:"RespawnRate"`
	UniverseSize      int          `yaml:"UniverseSize"`
	SnakeSpeed        int          `yaml:"SnakeSpeed"`
	PowerupDelay      int          `yaml:"PowerupDelay"`
	MaxPowerups       int          `yaml:"MaxPowerups"`
	SnakeGrowthFrames int          `yaml:"SnakeGrowthFrames"`
	SnakeStartingSize int          `yaml:"SnakeStartingSize"`
	GameMode          GameMode     `yaml:"GameMode"`
	VenomCounter      int          `yaml:"VenomCounter"`
	Walls             []WallConfig `yaml:"Walls"`
}

// DefaultSettings returns the fallback value for every settings key, used
// whenever a key is missing from the loaded document.
func DefaultSettings() Settings {
	return Settings{
		MSPerFrame:        16,
		RespawnRate:       300,
		UniverseSize:      2000,
		SnakeSpeed:        6,
		PowerupDelay:      150,
		MaxPowerups:       20,
		SnakeGrowthFrames: 24,
		SnakeStartingSize: 120,
		GameMode:          ModeDefault,
		VenomCounter:      10,
		Walls:             nil,
	}
}

// snakeWidth and powerupWidth are the fixed visual/collision widths
// used throughout the collision kernel. They are not settings-document
// keys, so they stay package constants.
const (
	snakeWidth    = 10.0
	powerupWidth  = 8.0
	wallBlockSize = 50.0
	spawnMargin   = 50.0
)

// LoadSettings reads a YAML settings document from path. viper reads
// and parses the file first, so a missing or unreadable document is
// reported as an error; the typed config is then decoded from the
// document's own bytes with yaml.v3, because viper folds every key to
// lower case and the yaml tags below are case-sensitive. A structural
// decode error yields defaults with an empty wall list, never a fatal
// error by itself; only a missing/unreadable file is fatal to the
// caller.
func LoadSettings(path string) (Settings, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))

	if err := vp.ReadInConfig(); err != nil {
		return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
	}

	cfg := DefaultSettings()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		slog.Warn("settings structurally invalid, falling back to defaults with no walls", "path", path, "err", err)
		d := DefaultSettings()
		d.Walls = nil
		return d, nil
	}

	if !cfg.GameMode.valid() {
		slog.Warn("unrecognized game mode, using default", "mode", cfg.GameMode)
		cfg.GameMode = ModeDefault
	}

	return cfg, nil
}

// venomTicks converts the settings document's VenomCounter, given in
// seconds, into ticks.
func (s Settings) venomTicks() int {
	return s.VenomCounter * 1000 / s.MSPerFrame
}
