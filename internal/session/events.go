package session

import "github.com/example/hydrashot/internal/geometry"

// Button is a pointer button.
type Button int

const (
	Primary Button = iota + 1
	Secondary
)

// Mods is a bit set of held modifier keys.
type Mods uint8

const (
	ModShift Mods = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Key names for non-printing keys.
const (
	KeyEscape    = "escape"
	KeyEnter     = "enter"
	KeyBackspace = "backspace"
	KeyDelete    = "delete"
	KeyTab       = "tab"
)

// Event is an input event in logical coordinates. The set is closed: Press,
// Move, Release, Key and Wheel.
type Event interface{ event() }

// Press is a pointer button going down. Double is set by the host for the
// second press of a double click.
type Press struct {
	Button Button
	Point  geometry.Point
	Double bool
}

type Move struct {
	Point geometry.Point
}

type Release struct {
	Button Button
	Point  geometry.Point
}

// Key is a key press. Name is the lower-case key name ("z", "escape"); Rune
// is the character it produced, or zero.
type Key struct {
	Mods Mods
	Name string
	Rune rune
}

// Wheel is a scroll notch. DY is negative when scrolling down.
type Wheel struct {
	Point  geometry.Point
	DX, DY float64
}

func (Press) event()   {}
func (Move) event()    {}
func (Release) event() {}
func (Key) event()     {}
func (Wheel) event()   {}

// Effect is work the host performs after an event.
type Effect int

const (
	EffectNone Effect = iota
	// EffectCopy copies Export() to the clipboard and closes the overlay.
	EffectCopy
	// EffectCopyColor copies the magnifier readout as text.
	EffectCopyColor
	// EffectSave writes Export() to disk.
	EffectSave
	// EffectPin shows Export() in a floating window.
	EffectPin
	// EffectLong starts a long screenshot of the selection.
	EffectLong
	// EffectQuit closes the overlay.
	EffectQuit
)

func (e Effect) String() string {
	switch e {
	case EffectNone:
		return "none"
	case EffectCopy:
		return "copy"
	case EffectCopyColor:
		return "copy-color"
	case EffectSave:
		return "save"
	case EffectPin:
		return "pin"
	case EffectLong:
		return "long"
	case EffectQuit:
		return "quit"
	}
	return "invalid"
}
