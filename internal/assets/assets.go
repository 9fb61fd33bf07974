package assets

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// DefaultStyle returns the built-in stylesheet.
func DefaultStyle() string {
	css, err := defaultLoader.LoadStyle(DefaultStyleName)
	if err != nil {
		panic("assets: embedded default style missing: " + err.Error())
	}
	return css
}
