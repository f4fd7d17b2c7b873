package popover

import (
	"errors"
	"testing"
)

func TestOpenClose(t *testing.T) {
	var c Controller
	if c.IsOpen() || c.Anchor() != None {
		t.Fatalf("zero controller should be closed")
	}

	c.Open("event-a")
	if !c.IsOpen() || c.Anchor() != "event-a" {
		t.Fatalf("after open: anchor=%q", c.Anchor())
	}

	c.Trigger(None)
	if c.IsOpen() || c.Anchor() != None {
		t.Fatalf("after close: anchor=%q", c.Anchor())
	}
}

func TestCloseClearsConfirmation(t *testing.T) {
	var c Controller
	c.Open("event-a")
	if err := c.SetDeleteConfirm(true); err != nil {
		t.Fatalf("SetDeleteConfirm error: %v", err)
	}
	c.Close()

	if c.Anchor() != None || c.DeleteConfirmPending() {
		t.Fatalf("close left state behind: anchor=%q confirm=%v", c.Anchor(), c.DeleteConfirmPending())
	}

	// Reopening starts clean.
	c.Open("event-b")
	if c.DeleteConfirmPending() {
		t.Fatalf("confirmation survived a close/reopen cycle")
	}
}

func TestRetriggerKeepsConfirmation(t *testing.T) {
	var c Controller
	c.Open("event-a")
	_ = c.SetDeleteConfirm(true)

	c.Trigger("event-a")
	if !c.DeleteConfirmPending() {
		t.Errorf("re-triggering with the same anchor cleared the confirmation")
	}

	c.Trigger("event-b")
	if c.Anchor() != "event-b" {
		t.Errorf("anchor = %q, want the new element", c.Anchor())
	}
	if !c.DeleteConfirmPending() {
		t.Errorf("re-anchoring cleared the confirmation")
	}
}

func TestSetDeleteConfirmWhileClosed(t *testing.T) {
	var c Controller
	if err := c.SetDeleteConfirm(true); !errors.Is(err, ErrClosed) {
		t.Fatalf("error = %v, want ErrClosed", err)
	}
	if c.DeleteConfirmPending() {
		t.Fatalf("confirmation set while closed")
	}
	if err := c.SetDeleteConfirm(false); err != nil {
		t.Fatalf("clearing while closed should be a no-op, got %v", err)
	}
}
