package maptheme

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTileURL(t *testing.T) {
	require.Contains(t, TileURL(ThemeDark), "alidade_smooth_dark")
	require.Contains(t, TileURL(ThemeLight), "alidade_smooth/")
	// unknown themes keep the default dark tiles
	require.Equal(t, TileURL(ThemeDark), TileURL("solarized"))
}
