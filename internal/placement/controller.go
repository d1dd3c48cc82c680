package placement

import (
	"cargo-fleet-service/internal/domain"
	"errors"
	"fmt"
)

var ErrDragInProgress = errors.New("another item is being dragged")

type State int

const (
	StateIdle State = iota
	StateDragging
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Feedback is what the UI needs after each controller event.
type Feedback struct {
	ItemID    string
	State     State
	Proposed  domain.Position // snapped candidate position
	Displayed domain.Position // where the item should be drawn now
	Committed domain.Position // last committed registry value
	Rotation  int
	Valid     bool
	Conflict  bool
	Verdict   Verdict
	Changed   bool // registry was mutated by this event
}

// CommitFunc observes every committed registry change.
type CommitFunc func(item *domain.CargoItem)

// Controller turns drag, rotate and stack gestures into registry updates.
//
// Drag gestures move through idle -> dragging -> idle. Invalid drops revert to
// the last committed position and are never reported as errors.
type Controller struct {
	vehicle   *domain.Vehicle
	registry  *Registry
	validator *Validator
	onCommit  CommitFunc

	state    State
	activeID string
	preview  domain.Position
	conflict bool
}

func NewController(vehicle *domain.Vehicle, registry *Registry, onCommit CommitFunc) *Controller {
	return &Controller{
		vehicle:   vehicle,
		registry:  registry,
		validator: NewValidator(NewBounds(vehicle), registry),
		onCommit:  onCommit,
		state:     StateIdle,
	}
}

func (c *Controller) Vehicle() *domain.Vehicle { return c.vehicle }
func (c *Controller) Registry() *Registry      { return c.registry }
func (c *Controller) Validator() *Validator    { return c.validator }
func (c *Controller) State() State             { return c.state }
func (c *Controller) ActiveItem() string       { return c.activeID }
func (c *Controller) Conflict() bool           { return c.conflict }

// DragStart marks id as the dragged item. DragMove calls it implicitly.
func (c *Controller) DragStart(id string) (Feedback, error) {
	item, err := c.registry.lookup(id)
	if err != nil {
		return Feedback{}, fmt.Errorf("drag start: %w", err)
	}

	if c.state == StateDragging && c.activeID != id {
		return Feedback{}, fmt.Errorf("drag start %q: %q: %w", id, c.activeID, ErrDragInProgress)
	}

	if c.state == StateIdle {
		c.state = StateDragging
		c.activeID = id
		c.preview = item.Position
		c.conflict = false
	}

	return c.feedback(item, c.preview, Verdict{Reason: ReasonOK}, false), nil
}

// DragMove validates the snapped pointer position and updates the conflict
// indicator. It never mutates the registry.
func (c *Controller) DragMove(id string, rawX, rawY float64) (Feedback, error) {
	if _, err := c.DragStart(id); err != nil {
		return Feedback{}, fmt.Errorf("drag move: %w", err)
	}

	item, _ := c.registry.lookup(id)
	x, y := Snap(rawX), Snap(rawY)
	verdict := c.validator.Check(item, x, y)

	c.preview = domain.Position{X: x, Y: y, Z: item.Position.Z}
	c.conflict = !verdict.OK()

	return c.feedback(item, c.preview, verdict, false), nil
}

// DragEnd commits the snapped position when it is valid and reverts otherwise.
// Called while idle it acts as a single drop.
func (c *Controller) DragEnd(id string, rawX, rawY float64) (Feedback, error) {
	item, err := c.registry.lookup(id)
	if err != nil {
		return Feedback{}, fmt.Errorf("drag end: %w", err)
	}
	if c.state == StateDragging && c.activeID != id {
		return Feedback{}, fmt.Errorf("drag end %q: %q: %w", id, c.activeID, ErrDragInProgress)
	}

	x, y := Snap(rawX), Snap(rawY)
	verdict := c.validator.Check(item, x, y)
	proposed := domain.Position{X: x, Y: y, Z: item.Position.Z}

	c.state = StateIdle
	c.activeID = ""
	c.conflict = false

	if !verdict.OK() {
		fb := c.feedback(item, item.Position, verdict, false)
		fb.Proposed = proposed
		return fb, nil
	}

	changed := item.Position != proposed
	item.Position = proposed
	if changed {
		c.commit(item)
	}

	return c.feedback(item, item.Position, verdict, changed), nil
}

// Cancel abandons the active drag without touching the registry.
func (c *Controller) Cancel() {
	c.state = StateIdle
	c.activeID = ""
	c.preview = domain.Position{}
	c.conflict = false
}

// Rotate adds delta degrees to the rotation. Rotatable is not checked and the
// new orientation is not validated.
func (c *Controller) Rotate(id string, delta int) (Feedback, error) {
	item, err := c.registry.lookup(id)
	if err != nil {
		return Feedback{}, fmt.Errorf("rotate: %w", err)
	}

	next := domain.NormalizeRotation(item.Rotation + delta)
	changed := next != item.Rotation
	item.Rotation = next
	if changed {
		c.commit(item)
	}

	return c.feedback(item, c.displayed(item), Verdict{Reason: ReasonOK}, changed), nil
}

// Stack raises the item by one level. Stackable and stack height are not checked.
func (c *Controller) Stack(id string) (Feedback, error) {
	item, err := c.registry.lookup(id)
	if err != nil {
		return Feedback{}, fmt.Errorf("stack: %w", err)
	}

	item.Position.Z++
	if c.activeID == id {
		c.preview.Z = item.Position.Z
	}
	c.commit(item)

	return c.feedback(item, c.displayed(item), Verdict{Reason: ReasonOK}, true), nil
}

func (c *Controller) displayed(item *domain.CargoItem) domain.Position {
	if c.state == StateDragging && c.activeID == item.ID {
		return c.preview
	}
	return item.Position
}

func (c *Controller) commit(item *domain.CargoItem) {
	if c.onCommit != nil {
		c.onCommit(item.Clone())
	}
}

func (c *Controller) feedback(item *domain.CargoItem, displayed domain.Position, v Verdict, changed bool) Feedback {
	return Feedback{
		ItemID:    item.ID,
		State:     c.state,
		Proposed:  displayed,
		Displayed: displayed,
		Committed: item.Position,
		Rotation:  item.Rotation,
		Valid:     v.OK(),
		Conflict:  c.conflict,
		Verdict:   v,
		Changed:   changed,
	}
}
