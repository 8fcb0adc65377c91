package overlay

import (
	"strings"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/hydrashot/internal/geometry"
	"github.com/example/hydrashot/internal/session"
)

const (
	doubleClickInterval = 400 * time.Millisecond
	// doubleClickSlop is the largest logical distance between the two
	// presses of a double click.
	doubleClickSlop = 4
)

// clickTracker recognises the second press of a double click.
type clickTracker struct {
	at    time.Time
	point geometry.Point
	armed bool
}

func (c *clickTracker) press(p geometry.Point, now time.Time) bool {
	if c.armed && now.Sub(c.at) <= doubleClickInterval &&
		abs(p.X-c.point.X) <= doubleClickSlop && abs(p.Y-c.point.Y) <= doubleClickSlop {
		c.armed = false
		return true
	}
	c.at, c.point, c.armed = now, p, true
	return false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// logicalPoint converts window pixels to logical screen coordinates.
func logicalPoint(x, y float32, ratio float64) geometry.Point {
	return geometry.PointToLogical(geometry.Pt(float64(x), float64(y)), ratio)
}

// translateMouse maps a shiny mouse event onto a session event. Buttons
// other than left, right and the wheel are ignored.
func translateMouse(e mouse.Event, ratio float64) (session.Event, bool) {
	p := logicalPoint(e.X, e.Y, ratio)
	if e.Button.IsWheel() {
		if e.Direction != mouse.DirStep && e.Direction != mouse.DirPress {
			return nil, false
		}
		switch e.Button {
		case mouse.ButtonWheelUp:
			return session.Wheel{Point: p, DY: 1}, true
		case mouse.ButtonWheelDown:
			return session.Wheel{Point: p, DY: -1}, true
		case mouse.ButtonWheelLeft:
			return session.Wheel{Point: p, DX: -1}, true
		case mouse.ButtonWheelRight:
			return session.Wheel{Point: p, DX: 1}, true
		}
		return nil, false
	}
	switch e.Direction {
	case mouse.DirNone:
		return session.Move{Point: p}, true
	case mouse.DirPress:
		if b, ok := mouseButton(e.Button); ok {
			return session.Press{Button: b, Point: p}, true
		}
	case mouse.DirRelease:
		if b, ok := mouseButton(e.Button); ok {
			return session.Release{Button: b, Point: p}, true
		}
	}
	return nil, false
}

func mouseButton(b mouse.Button) (session.Button, bool) {
	switch b {
	case mouse.ButtonLeft:
		return session.Primary, true
	case mouse.ButtonRight:
		return session.Secondary, true
	}
	return 0, false
}

var keyCodeNames = map[key.Code]string{
	key.CodeEscape:          session.KeyEscape,
	key.CodeReturnEnter:     session.KeyEnter,
	key.CodeKeypadEnter:     session.KeyEnter,
	key.CodeDeleteBackspace: session.KeyBackspace,
	key.CodeDeleteForward:   session.KeyDelete,
	key.CodeTab:             session.KeyTab,
}

// translateKey maps a key press onto a session key. Releases are dropped.
func translateKey(e key.Event) (session.Key, bool) {
	if e.Direction == key.DirRelease {
		return session.Key{}, false
	}
	k := session.Key{Mods: mods(e.Modifiers)}
	if e.Rune > 0 {
		k.Rune = e.Rune
	}
	switch name, ok := keyCodeNames[e.Code]; {
	case ok:
		k.Name = name
		k.Rune = 0
	case e.Code >= key.CodeA && e.Code <= key.CodeZ:
		// With ctrl held the rune may be a control character.
		k.Name = string(rune('a' + (e.Code - key.CodeA)))
	case k.Rune != 0:
		k.Name = strings.ToLower(string(k.Rune))
	default:
		return session.Key{}, false
	}
	return k, true
}

func mods(m key.Modifiers) session.Mods {
	var out session.Mods
	if m&key.ModShift != 0 {
		out |= session.ModShift
	}
	if m&key.ModControl != 0 {
		out |= session.ModCtrl
	}
	if m&key.ModAlt != 0 {
		out |= session.ModAlt
	}
	if m&key.ModMeta != 0 {
		out |= session.ModMeta
	}
	return out
}
