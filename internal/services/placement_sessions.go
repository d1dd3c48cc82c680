package services

import (
	"cargo-fleet-service/internal/domain"
	"cargo-fleet-service/internal/placement"
	"cargo-fleet-service/internal/platform/obs"
	"cargo-fleet-service/internal/ports"
	"context"
	"fmt"
	"sync"
)

type EventType string

const (
	EventDragStart  EventType = "drag_start"
	EventDragMove   EventType = "drag_move"
	EventDragEnd    EventType = "drag_end"
	EventDragCancel EventType = "drag_cancel"
	EventRotate     EventType = "rotate"
	EventStack      EventType = "stack"
)

// PlacementEvent is one pointer or button gesture from the loading view.
// X and Y are raw display coordinates; Angle is the rotation delta in degrees.
type PlacementEvent struct {
	Type    EventType
	CargoID string
	X       float64
	Y       float64
	Angle   int
}

// Snapshot is the full state of a placement session.
type Snapshot struct {
	Vehicle    *domain.Vehicle
	Items      []*domain.CargoItem
	State      placement.State
	ActiveItem string
	Conflict   bool
	Summary    placement.LoadSummary
}

type session struct {
	mu   sync.Mutex
	ctrl *placement.Controller
}

// PlacementSessions holds one placement controller per vehicle. Controllers
// are built lazily from storage; calls on the same vehicle are serialised.
type PlacementSessions struct {
	vehicles ports.VehicleRepository
	cargo    ports.CargoRepository
	onCommit placement.CommitFunc

	mu       sync.Mutex
	sessions map[string]*session
}

// NewPlacementSessions wires sessions to storage. onCommit receives every
// committed change, typically Persister.Enqueue.
func NewPlacementSessions(
	vehicles ports.VehicleRepository,
	cargo ports.CargoRepository,
	onCommit placement.CommitFunc,
) *PlacementSessions {
	return &PlacementSessions{
		vehicles: vehicles,
		cargo:    cargo,
		onCommit: onCommit,
		sessions: make(map[string]*session),
	}
}

func (p *PlacementSessions) load(ctx context.Context, vehicleID string) (_ *session, err error) {
	defer obs.Time(ctx, "placement.load")(&err)

	p.mu.Lock()
	s, ok := p.sessions[vehicleID]
	p.mu.Unlock()
	if ok {
		return s, nil
	}

	v, err := p.vehicles.GetVehicle(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	items, err := p.cargo.ListCargo(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("load session %q: %w", vehicleID, err)
	}
	reg, err := placement.NewRegistry(items...)
	if err != nil {
		return nil, fmt.Errorf("load session %q: %w", vehicleID, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Another caller may have built the session while storage was read.
	if s, ok := p.sessions[vehicleID]; ok {
		return s, nil
	}
	s = &session{ctrl: placement.NewController(v, reg, p.onCommit)}
	p.sessions[vehicleID] = s

	return s, nil
}

// loaded returns the session only if it is already in memory.
func (p *PlacementSessions) loaded(vehicleID string) (*session, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sessions[vehicleID]
	return s, ok
}

// Apply runs one event through the vehicle's controller.
func (p *PlacementSessions) Apply(ctx context.Context, vehicleID string, ev PlacementEvent) (placement.Feedback, error) {
	s, err := p.load(ctx, vehicleID)
	if err != nil {
		return placement.Feedback{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.ctrl
	switch ev.Type {
	case EventDragStart:
		return c.DragStart(ev.CargoID)
	case EventDragMove:
		return c.DragMove(ev.CargoID, ev.X, ev.Y)
	case EventDragEnd:
		return c.DragEnd(ev.CargoID, ev.X, ev.Y)
	case EventDragCancel:
		// A named cancel only ends that item's drag.
		if ev.CargoID == "" || c.ActiveItem() == ev.CargoID {
			c.Cancel()
		}
		return placement.Feedback{ItemID: ev.CargoID, State: c.State(), Valid: true}, nil
	case EventRotate:
		return c.Rotate(ev.CargoID, ev.Angle)
	case EventStack:
		return c.Stack(ev.CargoID)
	default:
		return placement.Feedback{}, fmt.Errorf("apply event: unknown type %q: %w", ev.Type, domain.ErrInvalid)
	}
}

func (p *PlacementSessions) Snapshot(ctx context.Context, vehicleID string) (Snapshot, error) {
	s, err := p.load(ctx, vehicleID)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return snapshotOf(s.ctrl), nil
}

func snapshotOf(c *placement.Controller) Snapshot {
	items := c.Registry().Items()
	return Snapshot{
		Vehicle:    c.Vehicle(),
		Items:      items,
		State:      c.State(),
		ActiveItem: c.ActiveItem(),
		Conflict:   c.Conflict(),
		Summary:    placement.Summarize(c.Vehicle(), items),
	}
}

// Continue evaluates the gate before route planning.
func (p *PlacementSessions) Continue(ctx context.Context, vehicleID string) (placement.LoadSummary, error) {
	snap, err := p.Snapshot(ctx, vehicleID)
	if err != nil {
		return placement.LoadSummary{}, err
	}
	return snap.Summary, placement.CheckContinue(snap.Summary)
}

// AddItem places a newly created cargo item into a loaded session.
// Unloaded sessions pick it up from storage when first used.
func (p *PlacementSessions) AddItem(item *domain.CargoItem) error {
	s, ok := p.loaded(item.VehicleID)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Registry().Add(item)
}

// UpdateItem refreshes the descriptive fields of an edited item in a loaded
// session. Position and rotation stay as the session holds them, since
// stored values may lag behind queued commits. The returned item is what the
// session now holds, or item itself when no session is loaded.
func (p *PlacementSessions) UpdateItem(item *domain.CargoItem) (*domain.CargoItem, error) {
	s, ok := p.loaded(item.VehicleID)
	if !ok {
		return item, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.ctrl.Registry().Get(item.ID)
	if err != nil {
		return nil, fmt.Errorf("update session item: %w", err)
	}

	merged := item.Clone()
	merged.Position = current.Position
	merged.Rotation = current.Rotation
	if err := s.ctrl.Registry().Replace(merged); err != nil {
		return nil, fmt.Errorf("update session item: %w", err)
	}

	return merged.Clone(), nil
}

// RemoveItem drops an item from a loaded session, ending its drag if active.
func (p *PlacementSessions) RemoveItem(vehicleID, cargoID string) error {
	s, ok := p.loaded(vehicleID)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctrl.ActiveItem() == cargoID {
		s.ctrl.Cancel()
	}
	return s.ctrl.Registry().Remove(cargoID)
}

// Reset destroys every cargo item of the vehicle, in storage and in the
// session, and returns the number of items removed.
func (p *PlacementSessions) Reset(ctx context.Context, vehicleID string) (_ int, err error) {
	defer obs.Time(ctx, "placement.Reset")(&err)

	s, err := p.load(ctx, vehicleID)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Storage goes first and in one statement; a failure leaves the session intact.
	n, err := p.cargo.DeleteCargoByVehicle(ctx, vehicleID)
	if err != nil {
		return 0, fmt.Errorf("reset session %q: %w", vehicleID, err)
	}

	s.ctrl.Cancel()
	s.ctrl.Registry().Reset()

	return n, nil
}

// Forget drops the in-memory session; the next call reloads from storage.
func (p *PlacementSessions) Forget(vehicleID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.sessions, vehicleID)
}
