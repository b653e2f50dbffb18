package netstat

import (
	"errors"
	"testing"

	"github.com/irctrakz/netmon/pkg/core"
	"github.com/irctrakz/netmon/pkg/iftable"
)

// mockResolver records the mapping it was handed and optionally installs
// addresses on every record.
type mockResolver struct {
	calls    int
	lastSeen []string
	mac      core.MacAddr
	networks []core.IPNetwork
}

func (m *mockResolver) Resolve(interfaces map[string]*Interface) {
	m.calls++
	m.lastSeen = m.lastSeen[:0]
	for name, iface := range interfaces {
		m.lastSeen = append(m.lastSeen, name)
		if !m.mac.IsUnspecified() {
			iface.SetMACAddress(m.mac)
		}
		if m.networks != nil {
			iface.SetIPNetworks(m.networks)
		}
	}
}

// TestRefreshUpsertScenario tests the two-refresh byte counter scenario:
// first observation seeds delta zero, second reports the difference.
func TestRefreshUpsertScenario(t *testing.T) {
	provider := iftable.NewMockProvider()
	registry := NewRegistry(provider, nil)

	e := iftable.MockEntry("eth0", 1)
	e.InOctets = 1000
	provider.SetEntries([]iftable.Entry{e})

	if !registry.Refresh(false) {
		t.Fatal("Expected first refresh to succeed")
	}

	iface := registry.List()["eth0"]
	if iface == nil {
		t.Fatal("Expected eth0 in registry after refresh")
	}
	if iface.TotalReceived() != 1000 {
		t.Errorf("Expected TotalReceived 1000, got %d", iface.TotalReceived())
	}
	if iface.Received() != 0 {
		t.Errorf("Expected Received 0 on first observation, got %d", iface.Received())
	}

	e.InOctets = 1500
	provider.SetEntries([]iftable.Entry{e})
	registry.Refresh(false)

	iface = registry.List()["eth0"]
	if iface.TotalReceived() != 1500 {
		t.Errorf("Expected TotalReceived 1500, got %d", iface.TotalReceived())
	}
	if iface.Received() != 500 {
		t.Errorf("Expected Received 500, got %d", iface.Received())
	}
}

// TestRefreshFiltersSoftwareInterfaces tests the candidate filter: dead
// links, disconnected media and entries without a hardware address never
// reach the registry.
func TestRefreshFiltersSoftwareInterfaces(t *testing.T) {
	provider := iftable.NewMockProvider()
	registry := NewRegistry(provider, nil)

	noLink := iftable.MockEntry("virt0", 1)
	noLink.TransmitLinkSpeed = 0
	noLink.ReceiveLinkSpeed = 0

	disconnected := iftable.MockEntry("wifi0", 2)
	disconnected.MediaState = iftable.MediaStateDisconnected

	noPhys := iftable.MockEntry("lo", 3)
	noPhys.PhysicalAddressLength = 0
	// Fast link and connected state don't save an entry without a MAC
	noPhys.TransmitLinkSpeed = 10_000_000_000
	noPhys.ReceiveLinkSpeed = 10_000_000_000

	provider.SetEntries([]iftable.Entry{
		noLink,
		disconnected,
		noPhys,
		iftable.MockEntry("eth0", 4),
	})
	registry.Refresh(false)

	list := registry.List()
	if len(list) != 1 {
		t.Fatalf("Expected exactly 1 interface, got %d", len(list))
	}
	if list["eth0"] == nil {
		t.Error("Expected eth0 to survive the candidate filter")
	}
}

// TestRefreshSuppressesDuplicateGroups tests that every member of a
// multi-entry hardware group is excluded while singleton groups proceed.
func TestRefreshSuppressesDuplicateGroups(t *testing.T) {
	provider := iftable.NewMockProvider()
	registry := NewRegistry(provider, nil)

	provider.SetEntries([]iftable.Entry{
		iftable.MockEntry("eth0", 7),
		iftable.MockEntry("veth-eth0", 7), // shadows the same adapter
		iftable.MockEntry("eth1", 8),
	})
	registry.Refresh(false)

	list := registry.List()
	if len(list) != 1 {
		t.Fatalf("Expected exactly 1 interface, got %d", len(list))
	}
	if list["eth1"] == nil {
		t.Error("Expected singleton-group eth1 in registry")
	}
	if list["eth0"] != nil || list["veth-eth0"] != nil {
		t.Error("Expected duplicate-group entries to be suppressed")
	}
}

// TestRefreshGroupsComputedOverSurvivors tests that a filtered-out entry
// does not count against its group: the surviving member is a singleton.
func TestRefreshGroupsComputedOverSurvivors(t *testing.T) {
	provider := iftable.NewMockProvider()
	registry := NewRegistry(provider, nil)

	filtered := iftable.MockEntry("eth0-virtual", 5)
	filtered.MediaState = iftable.MediaStateDisconnected

	provider.SetEntries([]iftable.Entry{
		filtered,
		iftable.MockEntry("eth0", 5), // same group, but the other member was filtered
	})
	registry.Refresh(false)

	if registry.List()["eth0"] == nil {
		t.Error("Expected eth0 to proceed; grouping must only count filter survivors")
	}
}

// TestRefreshSkipsUndecodableAlias tests that a single bad alias skips
// only that entry.
func TestRefreshSkipsUndecodableAlias(t *testing.T) {
	provider := iftable.NewMockProvider()
	registry := NewRegistry(provider, nil)

	bad := iftable.MockEntry("ignored", 1)
	bad.Alias[0] = 0xD800 // unpaired high surrogate
	bad.Alias[1] = 0

	provider.SetEntries([]iftable.Entry{bad, iftable.MockEntry("eth0", 2)})
	registry.Refresh(false)

	list := registry.List()
	if len(list) != 1 || list["eth0"] == nil {
		t.Errorf("Expected only eth0 after skipping undecodable alias, got %v", keys(list))
	}
}

// TestRefreshEviction tests removeStale semantics across disappearance.
func TestRefreshEviction(t *testing.T) {
	provider := iftable.NewMockProvider()
	registry := NewRegistry(provider, nil)

	provider.SetEntries([]iftable.Entry{
		iftable.MockEntry("eth0", 1),
		iftable.MockEntry("eth1", 2),
	})
	registry.Refresh(true)

	if len(registry.List()) != 2 {
		t.Fatalf("Expected 2 interfaces after refresh N-1, got %d", len(registry.List()))
	}

	// eth1 disappears from the table
	provider.SetEntries([]iftable.Entry{iftable.MockEntry("eth0", 1)})
	registry.Refresh(true)

	list := registry.List()
	if list["eth1"] != nil {
		t.Error("Expected eth1 to be evicted with removeStale=true")
	}
	if list["eth0"] == nil {
		t.Error("Expected eth0 to survive eviction")
	}
}

// TestRefreshEvictionToEmpty tests that a table with no candidates plus
// removeStale empties the registry.
func TestRefreshEvictionToEmpty(t *testing.T) {
	provider := iftable.NewMockProvider()
	registry := NewRegistry(provider, nil)

	provider.SetEntries([]iftable.Entry{iftable.MockEntry("eth0", 1)})
	registry.Refresh(true)

	provider.SetEntries(nil)
	registry.Refresh(true)

	if len(registry.List()) != 0 {
		t.Errorf("Expected empty registry, got %d interfaces", len(registry.List()))
	}
}

// TestRefreshKeepsStaleWithoutEviction tests that with removeStale=false a
// disappeared interface stays listed with frozen counters.
func TestRefreshKeepsStaleWithoutEviction(t *testing.T) {
	provider := iftable.NewMockProvider()
	registry := NewRegistry(provider, nil)

	e := iftable.MockEntry("eth0", 1)
	e.InOctets = 4242
	provider.SetEntries([]iftable.Entry{e})
	registry.Refresh(false)

	provider.SetEntries(nil)
	registry.Refresh(false)

	iface := registry.List()["eth0"]
	if iface == nil {
		t.Fatal("Expected eth0 to remain with removeStale=false")
	}
	if iface.TotalReceived() != 4242 {
		t.Errorf("Expected frozen TotalReceived 4242, got %d", iface.TotalReceived())
	}
}

// TestRefreshAcquisitionFailureIsNoOp tests the stale-data-over-crash
// policy: a failed table query leaves the registry untouched.
func TestRefreshAcquisitionFailureIsNoOp(t *testing.T) {
	provider := iftable.NewMockProvider()
	registry := NewRegistry(provider, nil)

	e := iftable.MockEntry("eth0", 1)
	e.InOctets = 1000
	provider.SetEntries([]iftable.Entry{e})
	registry.Refresh(false)

	provider.SetError(errors.New("query failed"))
	if registry.Refresh(true) {
		t.Error("Expected Refresh to report false on acquisition failure")
	}

	iface := registry.List()["eth0"]
	if iface == nil {
		t.Fatal("Expected eth0 to survive a failed refresh")
	}
	if iface.TotalReceived() != 1000 || iface.Received() != 0 {
		t.Errorf("Expected counters untouched, got total=%d delta=%d", iface.TotalReceived(), iface.Received())
	}
	if provider.Releases() != provider.Acquires() {
		t.Errorf("Expected releases (%d) to match successful acquires (%d)", provider.Releases(), provider.Acquires())
	}
}

// TestRefreshReleasesTableOnce tests that every successful acquisition is
// released exactly once, including refreshes where no entry survives.
func TestRefreshReleasesTableOnce(t *testing.T) {
	provider := iftable.NewMockProvider()
	registry := NewRegistry(provider, nil)

	dead := iftable.MockEntry("virt0", 1)
	dead.PhysicalAddressLength = 0
	provider.SetEntries([]iftable.Entry{dead})

	registry.Refresh(false)
	registry.Refresh(true)

	if provider.Acquires() != 2 || provider.Releases() != 2 {
		t.Errorf("Expected 2 acquires and 2 releases, got %d/%d", provider.Acquires(), provider.Releases())
	}
}

// TestRefreshInvokesResolver tests that the address resolver runs over
// the full mapping after every successful refresh and never after a
// failed one.
func TestRefreshInvokesResolver(t *testing.T) {
	provider := iftable.NewMockProvider()
	resolver := &mockResolver{
		mac: core.MacAddr{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01},
	}
	registry := NewRegistry(provider, resolver)

	provider.SetEntries([]iftable.Entry{
		iftable.MockEntry("eth0", 1),
		iftable.MockEntry("eth1", 2),
	})
	registry.Refresh(false)

	if resolver.calls != 1 {
		t.Fatalf("Expected 1 resolver call, got %d", resolver.calls)
	}
	if len(resolver.lastSeen) != 2 {
		t.Errorf("Expected resolver to see 2 interfaces, got %v", resolver.lastSeen)
	}
	if registry.List()["eth0"].MACAddress().IsUnspecified() {
		t.Error("Expected resolver-installed MAC on eth0")
	}

	provider.SetError(errors.New("query failed"))
	registry.Refresh(false)
	if resolver.calls != 1 {
		t.Errorf("Expected no resolver call after failed refresh, got %d", resolver.calls)
	}
}

// TestRefreshPreservesAddressesAcrossUpsert tests that updating an
// existing record leaves resolver-owned fields alone.
func TestRefreshPreservesAddressesAcrossUpsert(t *testing.T) {
	provider := iftable.NewMockProvider()
	registry := NewRegistry(provider, nil)

	provider.SetEntries([]iftable.Entry{iftable.MockEntry("eth0", 1)})
	registry.Refresh(false)

	mac := core.MacAddr{1, 2, 3, 4, 5, 6}
	registry.List()["eth0"].SetMACAddress(mac)

	registry.Refresh(false)

	if registry.List()["eth0"].MACAddress() != mac {
		t.Error("Expected MAC address to survive an upsert")
	}
}

// TestDecodeAlias tests strict UTF-16 alias decoding.
func TestDecodeAlias(t *testing.T) {
	var e iftable.Entry
	e.SetAlias("Ethernet 2")
	name, ok := decodeAlias(e.Alias[:])
	if !ok || name != "Ethernet 2" {
		t.Errorf("Expected 'Ethernet 2', got '%s' (ok=%v)", name, ok)
	}

	// Surrogate pair (emoji) decodes fine
	e.SetAlias("net\U0001F600")
	name, ok = decodeAlias(e.Alias[:])
	if !ok || name != "net\U0001F600" {
		t.Errorf("Expected surrogate pair to decode, got '%s' (ok=%v)", name, ok)
	}

	// Unpaired surrogates fail
	bad := []uint16{'a', 0xDC00, 'b', 0}
	if _, ok := decodeAlias(bad); ok {
		t.Error("Expected lone low surrogate to fail decoding")
	}
	bad = []uint16{'a', 0xD800, 0}
	if _, ok := decodeAlias(bad); ok {
		t.Error("Expected trailing high surrogate to fail decoding")
	}

	// Empty alias decodes to the empty name
	name, ok = decodeAlias([]uint16{0, 'x'})
	if !ok || name != "" {
		t.Errorf("Expected empty name, got '%s' (ok=%v)", name, ok)
	}
}

func keys(m map[string]*Interface) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
