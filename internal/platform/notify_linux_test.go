//go:build linux

package platform

import (
	"testing"
	"time"
)

func TestNotifyHints(t *testing.T) {
	hints := notifyHints(Options{Urgency: UrgencyCritical})
	if got := hints["urgency"].Value().(byte); got != 2 {
		t.Fatalf("urgency = %d", got)
	}
	if got := hints["desktop-entry"].Value().(string); got != "hydrashot" {
		t.Fatalf("desktop-entry = %q", got)
	}
	if d := (Options{}).timeout(); d != 5*time.Second {
		t.Fatalf("default timeout = %v", d)
	}
	if d := (Options{Timeout: time.Second}).timeout(); d != time.Second {
		t.Fatalf("timeout = %v", d)
	}
}
