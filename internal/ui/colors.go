package ui

// Accessors for the escape sequences of the active theme.

func ColorPrimary() string { return GetCurrentTheme().Primary }
func ColorMuted() string   { return GetCurrentTheme().Muted }
func ColorGreen() string   { return GetCurrentTheme().Success }
func ColorYellow() string  { return GetCurrentTheme().Warning }
func ColorRed() string     { return GetCurrentTheme().Error }
func ColorBold() string    { return GetCurrentTheme().Bold }
func ColorReset() string   { return GetCurrentTheme().Reset }

// Palette adapts the active theme to apperrors.ColorProvider.
type Palette struct{}

func (Palette) Red() string    { return ColorRed() }
func (Palette) Yellow() string { return ColorYellow() }
func (Palette) Reset() string  { return ColorReset() }
