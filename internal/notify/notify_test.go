package notify

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type sent struct{ title, message string }

func recording(n *Notifier, err error) *[]sent {
	var got []sent
	n.send = func(title, message, _ string) error {
		got = append(got, sent{title, message})
		return err
	}
	return &got
}

func TestNotifier(t *testing.T) {
	n := New(true, zerolog.Nop())
	got := recording(n, nil)

	n.UpdateAvailable("v1.2.0")
	n.DualSnap(true)

	off := New(false, zerolog.Nop())
	offGot := recording(off, nil)
	off.PermissionMissing()
	if len(*offGot) != 0 {
		t.Errorf("disabled notifier sent %v", *offGot)
	}

	if len(*got) != 2 {
		t.Fatalf("sent %d notifications, want 2: %v", len(*got), *got)
	}
	if (*got)[0].title != "snaptile: Update available" {
		t.Errorf("title = %q", (*got)[0].title)
	}
	if (*got)[1] != (sent{"snaptile", "Dual snap on"}) {
		t.Errorf("second = %+v", (*got)[1])
	}
}

func TestNotifier_SendErrorIgnored(t *testing.T) {
	n := New(true, zerolog.Nop())
	got := recording(n, errors.New("no notification daemon"))
	n.HotkeysUnavailable("tap denied")
	if len(*got) != 1 {
		t.Fatalf("sent %d", len(*got))
	}
}
