package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/dafibh/mierunbo/mierunbo-backend/internal/domain"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/repository/storage"
	"github.com/dafibh/mierunbo/mierunbo-backend/internal/websocket"
)

// FixedClock returns a domain.Clock that always reports t
func FixedClock(t time.Time) domain.Clock {
	return func() time.Time { return t }
}

// MutableClock is a clock tests can move forward
type MutableClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMutableClock creates a clock starting at t
func NewMutableClock(t time.Time) *MutableClock {
	return &MutableClock{now: t}
}

// Now reports the current instant; pass clock.Now as a domain.Clock
func (c *MutableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *MutableClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// MockBlobStore is an in-memory storage.BlobStore with injectable failures
type MockBlobStore struct {
	*storage.MemoryStore

	mu       sync.Mutex
	ReadErr  error
	WriteErr error
	Writes   map[string]int
}

// NewMockBlobStore creates an empty MockBlobStore
func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{
		MemoryStore: storage.NewMemoryStore(),
		Writes:      make(map[string]int),
	}
}

// Seed stores data under name without counting it as a write
func (m *MockBlobStore) Seed(name string, data []byte) {
	_ = m.MemoryStore.Write(context.Background(), name, data)
}

// Read returns ReadErr if set, otherwise the stored blob
func (m *MockBlobStore) Read(ctx context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	err := m.ReadErr
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return m.MemoryStore.Read(ctx, name)
}

// Write records the attempt and returns WriteErr if set
func (m *MockBlobStore) Write(ctx context.Context, name string, data []byte) error {
	m.mu.Lock()
	m.Writes[name]++
	err := m.WriteErr
	m.mu.Unlock()
	if err != nil {
		return err
	}
	return m.MemoryStore.Write(ctx, name, data)
}

// SetWriteErr changes the error returned by subsequent writes
func (m *MockBlobStore) SetWriteErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteErr = err
}

// WriteCount returns how many writes were attempted for name
func (m *MockBlobStore) WriteCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Writes[name]
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []websocket.Event
}

// NewMockEventPublisher creates an empty MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// Types returns the combined type of every recorded event in order
func (m *MockEventPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Type
	}
	return types
}

// Months returns the month scope of every recorded event in order
func (m *MockEventPublisher) Months() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	months := make([]string, len(m.Events))
	for i, e := range m.Events {
		months[i] = e.Month
	}
	return months
}
