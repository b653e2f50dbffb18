package netstat

import (
	"unicode/utf16"

	"github.com/irctrakz/netmon/pkg/iftable"
	"github.com/irctrakz/netmon/pkg/logging"
)

// AddressResolver populates each record's IP networks (and MAC address)
// after a refresh. It is the only writer of those fields.
type AddressResolver interface {
	Resolve(interfaces map[string]*Interface)
}

// Registry owns the mapping from interface name to Interface record and
// reconciles it against the platform interface table on each Refresh.
//
// The registry is not internally synchronized; callers sharing one across
// goroutines must serialize Refresh and List themselves.
type Registry struct {
	provider   iftable.Provider
	resolver   AddressResolver
	interfaces map[string]*Interface
}

// NewRegistry creates an empty registry backed by the given table
// provider. resolver may be nil, in which case IP networks and MAC
// addresses are never populated.
func NewRegistry(provider iftable.Provider, resolver AddressResolver) *Registry {
	return &Registry{
		provider:   provider,
		resolver:   resolver,
		interfaces: make(map[string]*Interface),
	}
}

// List returns the current name-to-record mapping. The returned map is the
// registry's own and must not be modified by callers.
func (r *Registry) List() map[string]*Interface {
	return r.interfaces
}

// Refresh queries the platform interface table and reconciles the registry
// against it: hardware interfaces are upserted with shifted counter pairs,
// software-level duplicates of the same adapter are suppressed, and, when
// removeStale is set, records not matched by any table entry are evicted.
//
// If the table cannot be acquired the registry is left entirely unchanged
// and Refresh returns false; it returns true after a successful refresh.
func (r *Registry) Refresh(removeStale bool) bool {
	table, err := r.provider.Acquire()
	if err != nil {
		// Stale data over crash: keep the previous snapshot.
		logging.Debugf("interface table unavailable, keeping previous snapshot: %v", err)
		return false
	}

	for _, iface := range r.interfaces {
		iface.seen = false
	}

	// Filtering out software interfaces takes two passes: the group
	// population is only known once every candidate has been counted, so
	// candidates are collected first and group sizes consulted after.
	entries := table.Entries()
	groups := make(map[iftable.GroupID]int)
	candidates := make([]*iftable.Entry, 0, len(entries))
	for idx := range entries {
		e := &entries[idx]
		if (e.TransmitLinkSpeed == 0 && e.ReceiveLinkSpeed == 0) ||
			e.MediaState == iftable.MediaStateDisconnected ||
			e.PhysicalAddressLength == 0 {
			continue
		}
		groups[e.Group]++
		candidates = append(candidates, e)
	}

	for _, e := range candidates {
		// More than one entry in a group means software-level views of
		// the same adapter; none of them is the hardware interface.
		if groups[e.Group] > 1 {
			continue
		}

		name, ok := decodeAlias(e.Alias[:])
		if !ok {
			logging.Debugf("skipping interface with undecodable alias (group %v)", e.Group)
			continue
		}

		if iface, exists := r.interfaces[name]; exists {
			iface.update(e)
		} else {
			r.interfaces[name] = newInterface(name, e)
		}
	}

	_ = table.Close()

	if removeStale {
		for name, iface := range r.interfaces {
			if !iface.seen {
				delete(r.interfaces, name)
				continue
			}
			iface.seen = false
		}
	}

	if r.resolver != nil {
		r.resolver.Resolve(r.interfaces)
	}
	return true
}

// decodeAlias decodes a NUL-terminated UTF-16 alias buffer into a display
// name. Returns ok=false on an unpaired surrogate, mirroring a strict
// UTF-16 conversion.
func decodeAlias(alias []uint16) (string, bool) {
	end := len(alias)
	for i, u := range alias {
		if u == 0 {
			end = i
			break
		}
	}
	units := alias[:end]

	for i := 0; i < len(units); i++ {
		switch u := units[i]; {
		case u >= 0xD800 && u <= 0xDBFF:
			if i+1 >= len(units) || units[i+1] < 0xDC00 || units[i+1] > 0xDFFF {
				return "", false
			}
			i++
		case u >= 0xDC00 && u <= 0xDFFF:
			return "", false
		}
	}

	return string(utf16.Decode(units)), true
}
