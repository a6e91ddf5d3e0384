// Package input turns raw pointer events into semantic intents.
//
// The classifier is a small state machine owned by one event loop. All
// interaction state lives in the struct and is updated synchronously by
// each call; timers are polled through Tick so callers drive time
// explicitly and handlers never read stale state.
package input

import (
	"math"
	"time"

	"tabletop-backend/internal/config"
	"tabletop-backend/internal/geom"
)

// IntentType is the semantic event kind produced by the classifier.
type IntentType string

const (
	IntentClick           IntentType = "CLICK"
	IntentDoubleClick     IntentType = "DOUBLE_CLICK"
	IntentDragMove        IntentType = "DRAG_MOVE"
	IntentDragEnd         IntentType = "DRAG_END"
	IntentCarryPickup     IntentType = "CARRY_PICKUP"
	IntentCarryMove       IntentType = "CARRY_MOVE"
	IntentCarryDrop       IntentType = "CARRY_DROP"
	IntentRotationCancel  IntentType = "ROTATION_CANCEL"
	IntentRotationConfirm IntentType = "ROTATION_CONFIRM"
)

// CarrySource tags how a pickup was triggered. The tag changes drop
// semantics only: hold drops on release of the same gesture, modifier
// drops on the next primary click.
type CarrySource string

const (
	SourceHold     CarrySource = "HOLD"
	SourceModifier CarrySource = "MODIFIER"
)

// Intent is one semantic event. ObjectID is empty for intents that are
// not bound to an object (a carry drop, for instance).
type Intent struct {
	Type     IntentType
	ObjectID string
	Screen   geom.Vec
	Source   CarrySource
}

type gestureState int

const (
	stateIdle gestureState = iota
	statePressed
	stateDragging
	stateCarrying // hold-sourced carry, drop on release
	stateRotating
)

// Classifier consumes pointer-down/move/up and tick events and emits
// intents. Not safe for concurrent use; the interaction engine runs on
// a single event loop.
type Classifier struct {
	cfg config.InteractionConfig
	now func() time.Time

	state    gestureState
	objectID string
	start    geom.Vec
	last     geom.Vec

	longPressAt time.Time // zero when the timer is not armed

	carryMode CarrySource // "" when the slot is not armed

	// Rolling click tracker for double-click upgrade.
	pendingClickID string
	pendingClickAt time.Time
	pendingClickPt geom.Vec

	rotatingID string
}

// NewClassifier builds a classifier with the shared interaction
// thresholds. The now func is injected so tests control time.
func NewClassifier(cfg config.InteractionConfig, now func() time.Time) *Classifier {
	if now == nil {
		now = time.Now
	}
	return &Classifier{cfg: cfg, now: now}
}

// PointerDown handles a primary-button press. The caller hit-tests the
// latest synchronized snapshot and passes the target (may be empty),
// whether that target is eligible for carry pickup, and whether the
// pick modifier was held.
func (c *Classifier) PointerDown(p geom.Vec, objectID string, carryEligible, modifier bool) []Intent {
	now := c.now()

	// A modifier-armed slot drops on the very next primary click,
	// including immediately after pickup.
	if c.carryMode == SourceModifier && !modifier {
		c.carryMode = ""
		return []Intent{{Type: IntentCarryDrop, Screen: p, Source: SourceModifier}}
	}

	if modifier && carryEligible && objectID != "" {
		c.carryMode = SourceModifier
		return []Intent{{Type: IntentCarryPickup, ObjectID: objectID, Screen: p, Source: SourceModifier}}
	}

	c.state = statePressed
	c.objectID = objectID
	c.start = p
	c.last = p
	c.longPressAt = time.Time{}
	if carryEligible && objectID != "" {
		c.longPressAt = now.Add(c.cfg.LongPressDelay)
	}
	return nil
}

// PointerMove handles pointer movement with the button held.
func (c *Classifier) PointerMove(p geom.Vec) []Intent {
	switch c.state {
	case statePressed:
		c.last = p
		if c.distanceFromStart(p) <= c.cfg.DragThresholdPx {
			return nil
		}
		// Qualifying movement cancels the long-press timer and starts
		// an ordinary drag.
		c.longPressAt = time.Time{}
		c.state = stateDragging
		return []Intent{{Type: IntentDragMove, ObjectID: c.objectID, Screen: p}}
	case stateDragging:
		c.last = p
		return []Intent{{Type: IntentDragMove, ObjectID: c.objectID, Screen: p}}
	case stateCarrying:
		c.last = p
		return []Intent{{Type: IntentCarryMove, Screen: p, Source: SourceHold}}
	default:
		c.last = p
		return nil
	}
}

// PointerUp handles the primary-button release.
func (c *Classifier) PointerUp(p geom.Vec) []Intent {
	now := c.now()

	switch c.state {
	case stateDragging:
		objectID := c.objectID
		c.reset()
		return []Intent{{Type: IntentDragEnd, ObjectID: objectID, Screen: p}}

	case stateCarrying:
		// Hold-sourced carry drops on release of the same gesture.
		c.reset()
		c.carryMode = ""
		return []Intent{{Type: IntentCarryDrop, Screen: p, Source: SourceHold}}

	case statePressed:
		objectID := c.objectID
		c.reset()
		if c.distanceFromStart(p) > c.cfg.DragThresholdPx {
			return []Intent{{Type: IntentDragEnd, ObjectID: objectID, Screen: p}}
		}
		return c.trackClick(objectID, p, now)
	}

	c.reset()
	return nil
}

// Tick fires pending timers: the long-press pickup and the deferred
// single-click emission. Call it from the event loop's timer source.
func (c *Classifier) Tick() []Intent {
	now := c.now()
	var out []Intent

	if c.state == statePressed && !c.longPressAt.IsZero() && !now.Before(c.longPressAt) {
		// Timer fired before qualifying movement: carry pickup, not drag.
		c.longPressAt = time.Time{}
		c.state = stateCarrying
		c.carryMode = SourceHold
		out = append(out, Intent{Type: IntentCarryPickup, ObjectID: c.objectID, Screen: c.last, Source: SourceHold})
	}

	if c.pendingClickID != "" && now.Sub(c.pendingClickAt) > c.cfg.DoubleClickWindow {
		out = append(out, Intent{Type: IntentClick, ObjectID: c.pendingClickID, Screen: c.pendingClickPt})
		c.clearPendingClick()
	}
	return out
}

// BeginRotation enters the free-rotation sub-mode for an object. The
// mode is triggered by a dedicated action, not by the click machine.
func (c *Classifier) BeginRotation(objectID string) {
	c.state = stateRotating
	c.rotatingID = objectID
}

// KeyCancel handles the cancel key. In free-rotation mode it returns to
// idle without committing the rotation change.
func (c *Classifier) KeyCancel() []Intent {
	if c.state != stateRotating {
		return nil
	}
	id := c.rotatingID
	c.reset()
	return []Intent{{Type: IntentRotationCancel, ObjectID: id}}
}

// ConfirmRotation leaves free-rotation mode committing the new angle.
func (c *Classifier) ConfirmRotation() []Intent {
	if c.state != stateRotating {
		return nil
	}
	id := c.rotatingID
	c.reset()
	return []Intent{{Type: IntentRotationConfirm, ObjectID: id}}
}

// trackClick upgrades a second click on the same object within the
// window to a double-click; otherwise the single-click is deferred so a
// later click can still upgrade it.
func (c *Classifier) trackClick(objectID string, p geom.Vec, now time.Time) []Intent {
	if objectID == "" {
		return nil
	}
	if c.pendingClickID == objectID && now.Sub(c.pendingClickAt) <= c.cfg.DoubleClickWindow {
		c.clearPendingClick()
		return []Intent{{Type: IntentDoubleClick, ObjectID: objectID, Screen: p}}
	}

	var out []Intent
	if c.pendingClickID != "" {
		// A click on a different object settles the previous one.
		out = append(out, Intent{Type: IntentClick, ObjectID: c.pendingClickID, Screen: c.pendingClickPt})
	}
	c.pendingClickID = objectID
	c.pendingClickAt = now
	c.pendingClickPt = p
	return out
}

func (c *Classifier) distanceFromStart(p geom.Vec) float64 {
	return math.Hypot(p.X-c.start.X, p.Y-c.start.Y)
}

func (c *Classifier) clearPendingClick() {
	c.pendingClickID = ""
	c.pendingClickAt = time.Time{}
}

func (c *Classifier) reset() {
	c.state = stateIdle
	c.objectID = ""
	c.longPressAt = time.Time{}
	c.rotatingID = ""
}
