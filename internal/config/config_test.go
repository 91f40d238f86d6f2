package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("empty input yields defaults", func(t *testing.T) {
		cfg, err := Load(strings.NewReader(""))
		require.NoError(t, err)
		require.Equal(t, Default(), cfg)
	})

	t.Run("yaml overrides defaults", func(t *testing.T) {
		in := `
assetsRoot: /srv/game/assets
targetFrameRate: 144
lockTimeout: 250ms
`
		cfg, err := Load(strings.NewReader(in))
		require.NoError(t, err)
		require.Equal(t, "/srv/game/assets", cfg.AssetsRoot)
		require.Equal(t, 144, cfg.TargetFrameRate)
		require.Equal(t, 250*time.Millisecond, cfg.LockTimeout)
		// untouched fields keep defaults
		require.Equal(t, ".resources.json", cfg.ManifestExtension)
	})

	t.Run("env overrides yaml", func(t *testing.T) {
		t.Setenv("KESTREL_TARGET_FPS", "30")
		cfg, err := Load(strings.NewReader("targetFrameRate: 144"))
		require.NoError(t, err)
		require.Equal(t, 30, cfg.TargetFrameRate)
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		_, err := Load(strings.NewReader("targetFrameRate: 0"))
		require.ErrorIs(t, err, ErrInvalidFrameRate)

		_, err = Load(strings.NewReader(`manifestExtension: "json"`))
		require.ErrorIs(t, err, ErrInvalidManifestExtension)
	})
}

func TestFrameDuration(t *testing.T) {
	cfg := Default()
	cfg.TargetFrameRate = 50
	require.Equal(t, 20*time.Millisecond, cfg.FrameDuration())
}
