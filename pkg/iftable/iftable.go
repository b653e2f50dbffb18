// Package iftable provides access to the platform's network interface
// table: one raw entry per adapter with link state, a stable hardware
// group identifier and the cumulative traffic counters.
package iftable

import "unicode/utf16"

// AliasSize is the fixed length of the UTF-16 alias buffer carried by each
// entry, including the NUL terminator (IF_MAX_STRING_SIZE + 1 on Windows).
const AliasSize = 257

// MediaState is the media connection state of an interface.
type MediaState uint32

// Media connection states, matching NET_IF_MEDIA_CONNECT_STATE.
const (
	MediaStateUnknown MediaState = iota
	MediaStateConnected
	MediaStateDisconnected
)

// GroupID identifies the hardware adapter behind an interface entry. Two
// entries sharing a GroupID are software-level views of the same physical
// adapter (e.g. a virtual adapter layered over a physical one).
type GroupID [10]uint16

// Entry is one raw row of the platform interface table.
type Entry struct {
	TransmitLinkSpeed     uint64
	ReceiveLinkSpeed      uint64
	MediaState            MediaState
	PhysicalAddressLength uint32
	Group                 GroupID
	Alias                 [AliasSize]uint16
	MTU                   uint64

	InOctets      uint64
	OutOctets     uint64
	InUcastPkts   uint64
	InNUcastPkts  uint64
	OutUcastPkts  uint64
	OutNUcastPkts uint64
	InErrors      uint64
	OutErrors     uint64
}

// SetAlias encodes name as NUL-terminated UTF-16 into the entry's alias
// buffer, truncating if the name does not fit.
func (e *Entry) SetAlias(name string) {
	units := utf16.Encode([]rune(name))
	if len(units) > AliasSize-1 {
		units = units[:AliasSize-1]
	}
	n := copy(e.Alias[:], units)
	for i := n; i < AliasSize; i++ {
		e.Alias[i] = 0
	}
}

// Table is one acquired snapshot of the interface table. Close releases
// the underlying platform resource and must be called exactly once per
// successful acquisition.
type Table interface {
	// Entries returns the raw entries of the snapshot.
	Entries() []Entry

	// Close releases the snapshot's platform resources.
	Close() error
}

// Provider acquires interface table snapshots from the platform.
type Provider interface {
	// Acquire queries the platform for the current interface table. It
	// either succeeds as a whole or fails with no partial result.
	Acquire() (Table, error)
}
