package editlog

import "github.com/example/hydrashot/internal/geometry"

// Log is the ordered list of committed annotations. Append order is z-order:
// later actions draw on top. A Log is not safe for concurrent use.
type Log struct {
	actions []Action
	markers int
}

// New returns an empty log. The zero value is also ready to use.
func New() *Log {
	return &Log{}
}

// Append commits a. Degenerate actions are dropped and Append reports false.
// A NumberMarker receives the next sequence number from the log.
func (l *Log) Append(a Action) bool {
	if degenerate(a) {
		return false
	}
	if m, ok := a.(NumberMarker); ok {
		l.markers++
		m.Seq = l.markers
		a = m
	}
	if f, ok := a.(Freehand); ok {
		f.Points = append([]geometry.Point(nil), f.Points...)
		a = f
	}
	l.actions = append(l.actions, a)
	return true
}

// UndoLast removes the most recent action and returns it. exit is true when
// the log is empty afterwards, including when it was already empty; the
// caller is expected to leave edit mode in that case.
func (l *Log) UndoLast() (a Action, exit bool) {
	n := len(l.actions)
	if n == 0 {
		return nil, true
	}
	a = l.actions[n-1]
	l.actions[n-1] = nil
	l.actions = l.actions[:n-1]
	return a, len(l.actions) == 0
}

// TakeAt removes and returns the most recently added Text action whose box
// contains p, along with the index it held. InsertAt with that index puts it
// back at the same depth.
func (l *Log) TakeAt(p geometry.Point) (Text, int, bool) {
	for i := len(l.actions) - 1; i >= 0; i-- {
		t, ok := l.actions[i].(Text)
		if !ok || !t.Box.Contains(p) {
			continue
		}
		l.actions = append(l.actions[:i], l.actions[i+1:]...)
		return t, i, true
	}
	return Text{}, -1, false
}

// InsertAt commits a at index i, clamped to the log. Actions at i and above
// move up one place. Unlike Append it does not renumber markers.
func (l *Log) InsertAt(i int, a Action) bool {
	if degenerate(a) {
		return false
	}
	i = max(0, min(i, len(l.actions)))
	l.actions = append(l.actions, nil)
	copy(l.actions[i+1:], l.actions[i:])
	l.actions[i] = a
	return true
}

// Clear empties the log and restarts marker numbering.
func (l *Log) Clear() {
	l.actions = nil
	l.markers = 0
}

func (l *Log) Len() int { return len(l.actions) }

func (l *Log) Empty() bool { return len(l.actions) == 0 }

// Actions returns the committed actions in z-order.
func (l *Log) Actions() []Action {
	out := make([]Action, len(l.actions))
	copy(out, l.actions)
	return out
}

// PeekMarkerSeq returns the number the next committed marker will carry.
func (l *Log) PeekMarkerSeq() int { return l.markers + 1 }
