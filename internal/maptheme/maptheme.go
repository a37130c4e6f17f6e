// Package maptheme maps the configured UI theme to a raster tile source.
package maptheme

const (
	ThemeDark  = "dark"
	ThemeLight = "light"

	darkTileURL  = "https://tiles.stadiamaps.com/tiles/alidade_smooth_dark/{z}/{x}/{y}{r}.png"
	lightTileURL = "https://tiles.stadiamaps.com/tiles/alidade_smooth/{z}/{x}/{y}{r}.png"
)

// TileURL returns the tile template for the theme. Unknown themes fall back
// to the dark set, the app default.
func TileURL(theme string) string {
	if theme == ThemeLight {
		return lightTileURL
	}
	return darkTileURL
}
