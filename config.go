package townplan

import (
	"io"
	"math/rand"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

const (
	defaultDistricts = 15
	defaultAttempts  = 16

	defaultMainStreet    = 2.0
	defaultRegularStreet = 1.0
	defaultAlley         = 0.6
)

// Feature is a three way switch for the town's optional set pieces.
// The zero value leaves the choice to the dice, which is what you want
// most of the time.
type Feature int

const (
	// FeatureRandom lets the rng decide, 50/50
	FeatureRandom Feature = iota

	// FeatureOn forces the feature in
	FeatureOn

	// FeatureOff forces the feature out
	FeatureOff
)

// UnmarshalText reads "random", "on" or "off" (and friendly synonyms)
// so Feature fields can be set directly from toml.
func (f *Feature) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "random":
		*f = FeatureRandom
	case "on", "true", "yes":
		*f = FeatureOn
	case "off", "false", "no":
		*f = FeatureOff
	default:
		return errors.Wrapf(ErrInvalidInput, "unknown feature setting %q", string(text))
	}
	return nil
}

// decide resolves the switch to a concrete yes or no.
func (f Feature) decide(rng *rand.Rand) bool {
	switch f {
	case FeatureOn:
		return true
	case FeatureOff:
		return false
	}
	return rng.Float64() < 0.5
}

// Config holds the high level settings for growing a town.
// The zero value is usable; defaults fill in anything left unset.
type Config struct {
	// Districts is how many districts make up the town proper.
	// Countryside patches are laid out around these for free.
	Districts int `toml:"districts"`

	// Plaza, Citadel and Walls toggle the town's optional set pieces:
	// a central market square, a castle behind its own ring wall, and
	// the town wall with its towers and gates.
	Plaza   Feature `toml:"plaza"`
	Citadel Feature `toml:"citadel"`
	Walls   Feature `toml:"walls"`

	// Seed drives every random choice; the same seed always grows the
	// same town. A seed is picked for you if left unset.
	Seed int64 `toml:"seed"`

	// Attempts bounds how many times a half built town gets thrown
	// away and rerolled before we give up. Some layouts paint
	// themselves into a corner (a gate no street can reach, a citadel
	// too warped to hold a castle) and the cheapest fix is to start
	// over.
	Attempts int `toml:"attempts"`

	// Street widths in world units. These double as the gaps kept
	// clear between building lots.
	MainStreet    float64 `toml:"main_street"`
	RegularStreet float64 `toml:"regular_street"`
	Alley         float64 `toml:"alley"`

	// Logger, if set, receives progress and debug chatter.
	Logger *log.Logger `toml:"-"`

	// Planners overrides lot layout per ward kind, see interface.go.
	Planners map[WardKind]Planner `toml:"-"`
}

// LoadConfig reads a Config from toml, eg.
//
//	districts = 20
//	walls = "on"
//	citadel = "random"
//	seed = 12345
//	main_street = 2.0
func LoadConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse town config")
	}
	return cfg, nil
}

// withDefaults returns a copy of the config with unset values filled in.
func (c *Config) withDefaults() *Config {
	out := &Config{}
	if c != nil {
		*out = *c
	}
	if out.Districts == 0 {
		out.Districts = defaultDistricts
	}
	if out.Attempts <= 0 {
		out.Attempts = defaultAttempts
	}
	if out.MainStreet <= 0 {
		out.MainStreet = defaultMainStreet
	}
	if out.RegularStreet <= 0 {
		out.RegularStreet = defaultRegularStreet
	}
	if out.Alley <= 0 {
		out.Alley = defaultAlley
	}
	if out.Logger == nil {
		out.Logger = log.New(io.Discard)
	}
	return out
}

// Validate checks the config describes a buildable town.
func (c *Config) Validate() error {
	if c.Districts < 3 {
		return errors.Wrapf(ErrInvalidInput, "town needs at least 3 districts, have %d", c.Districts)
	}
	return nil
}
