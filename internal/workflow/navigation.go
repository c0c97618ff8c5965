package workflow

// Screen is one of the mutually exclusive top-level screens.
type Screen string

const (
	ScreenHome   Screen = "home"
	ScreenUpload Screen = "upload"
	ScreenAsk    Screen = "ask"
)

// Valid reports whether s names a known screen.
func (s Screen) Valid() bool {
	switch s {
	case ScreenHome, ScreenUpload, ScreenAsk:
		return true
	}
	return false
}

// Navigator holds the active screen. There is no history: Back always goes home.
// The zero value is ready to use and starts at home.
type Navigator struct {
	current Screen
}

// NewNavigator starts at home.
func NewNavigator() *Navigator {
	return &Navigator{current: ScreenHome}
}

func (n *Navigator) Current() Screen {
	if n.current == "" {
		return ScreenHome
	}
	return n.current
}

// Go switches to s. Unknown screens are ignored.
func (n *Navigator) Go(s Screen) {
	if s.Valid() {
		n.current = s
	}
}

func (n *Navigator) Back() { n.current = ScreenHome }
