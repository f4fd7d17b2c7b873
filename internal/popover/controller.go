// Package popover tracks the open/closed state of an event's detail viewer.
package popover

import "errors"

// ErrClosed is returned when confirmation state is set on a closed viewer.
var ErrClosed = errors.New("popover: viewer is closed")

// Anchor identifies the element the viewer attaches to. The zero value
// means no anchor.
type Anchor string

// None is the absent anchor.
const None Anchor = ""

// Controller is the viewer state of a single rendered event. It is not
// safe for concurrent use.
//
// The viewer is open exactly when the anchor is set, and a pending delete
// confirmation only exists while it is open.
type Controller struct {
	anchor        Anchor
	deleteConfirm bool
}

// Trigger is the single entry point used by click handlers and by the
// viewer itself. A non-empty anchor opens (or re-anchors) the viewer and
// leaves a pending confirmation alone; None closes it.
func (c *Controller) Trigger(a Anchor) {
	if a == None {
		c.Close()
		return
	}
	c.anchor = a
}

// Open is Trigger with a required anchor.
func (c *Controller) Open(a Anchor) {
	c.Trigger(a)
}

// Close clears the pending confirmation, then the anchor.
func (c *Controller) Close() {
	c.deleteConfirm = false
	c.anchor = None
}

// SetDeleteConfirm records the viewer's delete confirmation step.
func (c *Controller) SetDeleteConfirm(pending bool) error {
	if c.anchor == None {
		if pending {
			return ErrClosed
		}
		return nil
	}
	c.deleteConfirm = pending
	return nil
}

func (c *Controller) Anchor() Anchor {
	return c.anchor
}

func (c *Controller) IsOpen() bool {
	return c.anchor != None
}

func (c *Controller) DeleteConfirmPending() bool {
	return c.deleteConfirm
}
