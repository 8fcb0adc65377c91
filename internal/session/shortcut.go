package session

import (
	"fmt"
	"strings"
)

// Shortcut is one key combination such as "ctrl+shift+s".
type Shortcut struct {
	Mods Mods
	Name string
}

var modNames = map[string]Mods{
	"shift":   ModShift,
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"meta":    ModMeta,
	"super":   ModMeta,
	"cmd":     ModMeta,
}

var keyAliases = map[string]string{
	"esc":    KeyEscape,
	"return": KeyEnter,
	"bksp":   KeyBackspace,
	"del":    KeyDelete,
}

// ParseShortcut parses "mod+mod+key". Names are case-insensitive.
func ParseShortcut(s string) (Shortcut, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	var sc Shortcut
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return Shortcut{}, fmt.Errorf("shortcut %q: empty key", s)
		}
		if i < len(parts)-1 {
			m, ok := modNames[p]
			if !ok {
				return Shortcut{}, fmt.Errorf("shortcut %q: unknown modifier %q", s, p)
			}
			sc.Mods |= m
			continue
		}
		if alias, ok := keyAliases[p]; ok {
			p = alias
		}
		sc.Name = p
	}
	return sc, nil
}

// Matches reports whether k is this combination.
func (sc Shortcut) Matches(k Key) bool {
	return sc.Name != "" && sc.Mods == k.Mods && sc.Name == strings.ToLower(k.Name)
}

func (sc Shortcut) String() string {
	var b strings.Builder
	for _, m := range []struct {
		mod  Mods
		name string
	}{{ModCtrl, "ctrl"}, {ModAlt, "alt"}, {ModShift, "shift"}, {ModMeta, "meta"}} {
		if sc.Mods&m.mod != 0 {
			b.WriteString(m.name)
			b.WriteByte('+')
		}
	}
	b.WriteString(sc.Name)
	return b.String()
}

// Shortcuts binds the overlay commands to keys.
type Shortcuts struct {
	Copy   Shortcut
	Save   Shortcut
	Undo   Shortcut
	Cancel Shortcut
	Pin    Shortcut
	Long   Shortcut
}

// DefaultShortcuts returns the stock bindings.
func DefaultShortcuts() Shortcuts {
	return Shortcuts{
		Copy:   Shortcut{ModCtrl, "c"},
		Save:   Shortcut{ModCtrl, "s"},
		Undo:   Shortcut{ModCtrl, "z"},
		Cancel: Shortcut{0, KeyEscape},
		Pin:    Shortcut{ModCtrl, "p"},
		Long:   Shortcut{ModCtrl, "l"},
	}
}

// ParseShortcuts reads bindings from name → combination pairs. Missing
// names keep their defaults.
func ParseShortcuts(m map[string]string) (Shortcuts, error) {
	out := DefaultShortcuts()
	fields := map[string]*Shortcut{
		"copy":   &out.Copy,
		"save":   &out.Save,
		"undo":   &out.Undo,
		"cancel": &out.Cancel,
		"pin":    &out.Pin,
		"long":   &out.Long,
	}
	for name, val := range m {
		dst, ok := fields[strings.ToLower(name)]
		if !ok {
			return out, fmt.Errorf("unknown shortcut %q", name)
		}
		sc, err := ParseShortcut(val)
		if err != nil {
			return out, err
		}
		*dst = sc
	}
	return out, nil
}
