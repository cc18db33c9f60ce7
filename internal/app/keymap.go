package app

// Key binding constants used in the per-view key handlers.
const (
	KeyQuit           = "q"
	KeyCtrlC          = "ctrl+c"
	KeyEnter          = "enter"
	KeyEsc            = "esc"
	KeyOpenChat       = "c"
	KeyCycleType      = "tab"
	KeyPrevProduct    = "left"
	KeyNextProduct    = "right"
	KeyPrevProductAlt = "h"
	KeyNextProductAlt = "l"
	KeyEditDate       = "d"
	KeyRefresh        = "r"
	KeySaveTranscript = "ctrl+s"
)
