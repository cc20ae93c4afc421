package pagerender

// Palette indices used by the chrome the renderer draws itself (form
// controls, scrollbar, status bar). These are small indices valid
// against every bit depth surface.Surface supports (1bpp clamps them at
// paint time via the surface's own packing).
const (
	borderColor      byte = 0
	buttonFaceColor  byte = 1
	fieldFaceColor   byte = 1
	placeholderColor byte = 1
	trackColor       byte = 1
	thumbColor       byte = 0
	bulletColor      byte = 0
	statusBarColor   byte = 1
)
