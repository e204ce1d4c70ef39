package townplan

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig([]byte(`
districts = 20
plaza = "random"
citadel = "off"
walls = "on"
seed = 12345
attempts = 4
main_street = 3.5
regular_street = 1.5
alley = 0.8
`))

	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Districts)
	assert.Equal(t, FeatureRandom, cfg.Plaza)
	assert.Equal(t, FeatureOff, cfg.Citadel)
	assert.Equal(t, FeatureOn, cfg.Walls)
	assert.Equal(t, int64(12345), cfg.Seed)
	assert.Equal(t, 4, cfg.Attempts)
	assert.Equal(t, 3.5, cfg.MainStreet)
	assert.Equal(t, 1.5, cfg.RegularStreet)
	assert.Equal(t, 0.8, cfg.Alley)
}

func TestLoadConfigBadFeature(t *testing.T) {
	_, err := LoadConfig([]byte(`walls = "maybe"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown feature setting")
}

func TestFeatureUnmarshal(t *testing.T) {
	cases := map[string]Feature{
		"":       FeatureRandom,
		"random": FeatureRandom,
		"on":     FeatureOn,
		"true":   FeatureOn,
		"yes":    FeatureOn,
		"off":    FeatureOff,
		"false":  FeatureOff,
		"no":     FeatureOff,
	}
	for text, want := range cases {
		var f Feature
		require.NoError(t, f.UnmarshalText([]byte(text)), "%q", text)
		assert.Equal(t, want, f, "%q", text)
	}

	var f Feature
	err := f.UnmarshalText([]byte("sometimes"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFeatureDecide(t *testing.T) {
	rng := rand.New(rand.NewSource(0))

	yes, no := 0, 0
	for i := 0; i < 50; i++ {
		assert.True(t, FeatureOn.decide(rng))
		assert.False(t, FeatureOff.decide(rng))
		if FeatureRandom.decide(rng) {
			yes++
		} else {
			no++
		}
	}

	// the dice land both ways
	assert.Greater(t, yes, 0)
	assert.Greater(t, no, 0)
}

func TestConfigDefaults(t *testing.T) {
	cfg := (*Config)(nil).withDefaults()
	assert.Equal(t, defaultDistricts, cfg.Districts)
	assert.Equal(t, defaultAttempts, cfg.Attempts)
	assert.Equal(t, defaultMainStreet, cfg.MainStreet)
	assert.Equal(t, defaultRegularStreet, cfg.RegularStreet)
	assert.Equal(t, defaultAlley, cfg.Alley)
	require.NotNil(t, cfg.Logger)

	// set values survive
	cfg = (&Config{Districts: 4, Alley: 0.2, Seed: 9}).withDefaults()
	assert.Equal(t, 4, cfg.Districts)
	assert.Equal(t, 0.2, cfg.Alley)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.Equal(t, defaultMainStreet, cfg.MainStreet)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, (&Config{Districts: 3}).Validate())

	err := (&Config{Districts: 2}).Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
