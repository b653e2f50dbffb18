package iftable

import (
	"sync"
)

// MockProvider is a scriptable Provider implementation for testing that
// doesn't query the platform. Tests install the entries to return (or an
// error) and can inspect how many times the table was acquired and
// released.
type MockProvider struct {
	mu       sync.Mutex
	entries  []Entry
	err      error
	acquires int
	releases int
}

// NewMockProvider creates a new mock provider with an empty table.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// SetEntries installs the entries returned by subsequent Acquire calls.
func (m *MockProvider) SetEntries(entries []Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append([]Entry(nil), entries...)
	m.err = nil
}

// SetError makes subsequent Acquire calls fail with err.
func (m *MockProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Acquire implements Provider.
func (m *MockProvider) Acquire() (Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}

	m.acquires++
	entries := append([]Entry(nil), m.entries...)
	return &mockTable{provider: m, entries: entries}, nil
}

// Acquires returns the number of successful acquisitions.
func (m *MockProvider) Acquires() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.acquires
}

// Releases returns the number of times an acquired table was closed.
func (m *MockProvider) Releases() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.releases
}

type mockTable struct {
	provider *MockProvider
	entries  []Entry
	closed   bool
}

func (t *mockTable) Entries() []Entry {
	return t.entries
}

func (t *mockTable) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true

	t.provider.mu.Lock()
	t.provider.releases++
	t.provider.mu.Unlock()
	return nil
}

// MockEntry builds a table entry for a hardware interface named name in
// group, with an active gigabit link and a 6-byte physical address. Tests
// override individual fields as needed.
func MockEntry(name string, group uint16) Entry {
	var e Entry
	e.SetAlias(name)
	e.TransmitLinkSpeed = 1_000_000_000
	e.ReceiveLinkSpeed = 1_000_000_000
	e.MediaState = MediaStateConnected
	e.PhysicalAddressLength = 6
	e.Group = GroupID{group}
	e.MTU = 1500
	return e
}
