package routeapi

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"trip-planner/internal/api/dto"

	"github.com/jinzhu/copier"
)

var ErrMockNotFound = errors.New("route point not found")

type MockOp string

const (
	OpGetRoute MockOp = "get_route"
	OpCreate   MockOp = "create"
	OpUpdate   MockOp = "update"
	OpDelete   MockOp = "delete"
)

// MockRouteAPI is an in-memory RouteAPI. It assigns sequential IDs, hands out
// deep copies only, and can be told to fail a given operation.
type MockRouteAPI struct {
	mu       sync.Mutex
	points   []dto.RoutePoint
	nextID   int
	failures map[MockOp]error
	calls    map[MockOp]int
}

func NewMockRouteAPI(seed []dto.RoutePoint) *MockRouteAPI {
	m := &MockRouteAPI{
		failures: make(map[MockOp]error),
		calls:    make(map[MockOp]int),
	}
	for _, p := range seed {
		m.points = append(m.points, mustClone(p))
	}
	return m
}

// Fail makes every following call of op return err. A nil err clears it.
func (m *MockRouteAPI) Fail(op MockOp, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// Calls returns how often op has been invoked.
func (m *MockRouteAPI) Calls(op MockOp) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// Stored returns a copy of the service-side state.
func (m *MockRouteAPI) Stored() []dto.RoutePoint {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneAll(m.points)
}

func (m *MockRouteAPI) GetRoute(ctx context.Context) ([]dto.RoutePoint, error) {
	if err := m.begin(ctx, OpGetRoute); err != nil {
		return nil, err
	}
	defer m.mu.Unlock()

	return cloneAll(m.points), nil
}

func (m *MockRouteAPI) CreateRoutePoint(ctx context.Context, point dto.RoutePoint) (dto.RoutePoint, error) {
	if err := m.begin(ctx, OpCreate); err != nil {
		return dto.RoutePoint{}, err
	}
	defer m.mu.Unlock()

	stored, err := clone(point)
	if err != nil {
		return dto.RoutePoint{}, err
	}
	stored.ID = m.newID()
	if stored.Offers == nil {
		stored.Offers = []string{}
	}
	m.points = append(m.points, stored)

	return clone(stored)
}

func (m *MockRouteAPI) UpdateRoutePoint(ctx context.Context, point dto.RoutePoint) (dto.RoutePoint, error) {
	if err := m.begin(ctx, OpUpdate); err != nil {
		return dto.RoutePoint{}, err
	}
	defer m.mu.Unlock()

	i := m.index(point.ID)
	if i < 0 {
		return dto.RoutePoint{}, fmt.Errorf("update %q: %w", point.ID, ErrMockNotFound)
	}

	stored, err := clone(point)
	if err != nil {
		return dto.RoutePoint{}, err
	}
	m.points[i] = stored

	return clone(stored)
}

func (m *MockRouteAPI) DeleteRoutePoint(ctx context.Context, point dto.RoutePoint) error {
	if err := m.begin(ctx, OpDelete); err != nil {
		return err
	}
	defer m.mu.Unlock()

	i := m.index(point.ID)
	if i < 0 {
		return fmt.Errorf("delete %q: %w", point.ID, ErrMockNotFound)
	}
	m.points = append(m.points[:i:i], m.points[i+1:]...)

	return nil
}

// begin locks the mock and records the call. The lock is held on success only.
func (m *MockRouteAPI) begin(ctx context.Context, op MockOp) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	m.calls[op]++
	if err := m.failures[op]; err != nil {
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *MockRouteAPI) newID() string {
	for {
		m.nextID++
		id := strconv.Itoa(m.nextID)
		if m.index(id) < 0 {
			return id
		}
	}
}

func (m *MockRouteAPI) index(id string) int {
	for i, p := range m.points {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func clone(p dto.RoutePoint) (dto.RoutePoint, error) {
	var out dto.RoutePoint
	if err := copier.CopyWithOption(&out, p, copier.Option{DeepCopy: true}); err != nil {
		return dto.RoutePoint{}, fmt.Errorf("copy route point %q: %w", p.ID, err)
	}
	// time.Time keeps its state in unexported fields.
	out.DateFrom, out.DateTo = p.DateFrom, p.DateTo
	return out, nil
}

func mustClone(p dto.RoutePoint) dto.RoutePoint {
	out, err := clone(p)
	if err != nil {
		panic(err)
	}
	return out
}

func cloneAll(points []dto.RoutePoint) []dto.RoutePoint {
	out := make([]dto.RoutePoint, 0, len(points))
	for _, p := range points {
		out = append(out, mustClone(p))
	}
	return out
}
