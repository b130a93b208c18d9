package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seacrew/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 85, cfg.Verification.NameMatchThreshold)
	assert.Equal(t, 70, cfg.Verification.NameWarningThreshold)
	assert.Equal(t, 80, cfg.Verification.LowScoreThreshold)
	assert.Equal(t, 1900, cfg.Verification.ExpirySentinelYear)
	assert.Equal(t, 3, cfg.Verification.SupersedeMaxRetries)
	assert.Equal(t, "", cfg.Verification.RulesFile)
	assert.Equal(t, "claude", cfg.Extractor.Primary.Provider)
	assert.Equal(t, []string{"eng"}, cfg.Extractor.Tertiary.Languages)
	assert.Equal(t, 0.5, cfg.Extractor.MinConfidence)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SEACREW_STORE_DRIVER", "MEMORY")
	t.Setenv("SEACREW_VERIFICATION_NAME_MATCH_THRESHOLD", "90")
	t.Setenv("SEACREW_EXTRACTOR_SECONDARY_PROVIDER", "Gemini")
	t.Setenv("SEACREW_EXTRACTOR_SECONDARY_API_KEY", "g-key")
	t.Setenv("SEACREW_EXTRACTOR_MIN_CONFIDENCE", "0.7")
	t.Setenv("PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, 90, cfg.Verification.Thresholds().Match)
	assert.Equal(t, "gemini", cfg.Extractor.Secondary.Provider)
	assert.Equal(t, "g-key", cfg.Extractor.Secondary.APIKey)
	assert.Equal(t, 0.7, cfg.Extractor.MinConfidence)
	assert.Equal(t, ":9090", cfg.Server.Port)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("SEACREW_STORE_DRIVER", "mongo")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_RejectsInvertedThresholds(t *testing.T) {
	t.Setenv("SEACREW_VERIFICATION_NAME_WARNING_THRESHOLD", "95")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestExtractorConfig_Chain(t *testing.T) {
	cfg := config.ExtractorConfig{
		Primary:  config.ExtractorProviderConfig{Provider: "claude"},
		Tertiary: config.ExtractorProviderConfig{Provider: "tesseract"},
	}

	chain := cfg.Chain()

	require.Len(t, chain, 2)
	assert.Equal(t, "claude", chain[0].Provider)
	assert.Equal(t, "tesseract", chain[1].Provider)
}
