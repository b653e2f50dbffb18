//go:build windows

package iftable

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modiphlpapi      = windows.NewLazySystemDLL("iphlpapi.dll")
	procGetIfTable2  = modiphlpapi.NewProc("GetIfTable2")
	procFreeMibTable = modiphlpapi.NewProc("FreeMibTable")
)

// mibIfRow2 mirrors MIB_IF_ROW2 from netioapi.h.
type mibIfRow2 struct {
	InterfaceLUID               uint64
	InterfaceIndex              uint32
	InterfaceGUID               windows.GUID
	Alias                       [AliasSize]uint16
	Description                 [AliasSize]uint16
	PhysicalAddressLength       uint32
	PhysicalAddress             [32]byte
	PermanentPhysicalAddress    [32]byte
	MTU                         uint32
	Type                        uint32
	TunnelType                  uint32
	MediaType                   uint32
	PhysicalMediumType          uint32
	AccessType                  uint32
	DirectionType               uint32
	InterfaceAndOperStatusFlags uint8
	OperStatus                  uint32
	AdminStatus                 uint32
	MediaConnectState           uint32
	NetworkGUID                 windows.GUID
	ConnectionType              uint32
	TransmitLinkSpeed           uint64
	ReceiveLinkSpeed            uint64
	InOctets                    uint64
	InUcastPkts                 uint64
	InNUcastPkts                uint64
	InDiscards                  uint64
	InErrors                    uint64
	InUnknownProtos             uint64
	InUcastOctets               uint64
	InMulticastOctets           uint64
	InBroadcastOctets           uint64
	OutOctets                   uint64
	OutUcastPkts                uint64
	OutNUcastPkts               uint64
	OutDiscards                 uint64
	OutErrors                   uint64
	OutUcastOctets              uint64
	OutMulticastOctets          uint64
	OutBroadcastOctets          uint64
	OutQLen                     uint64
}

// mibIfTable2 mirrors MIB_IF_TABLE2. Table is a variable-length array in
// the native layout; only the first element is declared here.
type mibIfTable2 struct {
	NumEntries uint32
	_          uint32
	Table      [1]mibIfRow2
}

type windowsProvider struct{}

// NewSystemProvider returns a Provider backed by GetIfTable2.
func NewSystemProvider() Provider {
	return &windowsProvider{}
}

func (p *windowsProvider) Acquire() (Table, error) {
	var table *mibIfTable2
	ret, _, _ := procGetIfTable2.Call(uintptr(unsafe.Pointer(&table)))
	if ret != 0 {
		return nil, fmt.Errorf("GetIfTable2 failed: status %#x", ret)
	}

	rows := unsafe.Slice(&table.Table[0], table.NumEntries)
	entries := make([]Entry, 0, len(rows))
	for i := range rows {
		entries = append(entries, rowToEntry(&rows[i]))
	}

	return &windowsTable{handle: table, entries: entries}, nil
}

func rowToEntry(row *mibIfRow2) Entry {
	e := Entry{
		TransmitLinkSpeed:     row.TransmitLinkSpeed,
		ReceiveLinkSpeed:      row.ReceiveLinkSpeed,
		MediaState:            MediaState(row.MediaConnectState),
		PhysicalAddressLength: row.PhysicalAddressLength,
		Group:                 groupFromGUID(row.InterfaceGUID),
		Alias:                 row.Alias,
		MTU:                   uint64(row.MTU),
		InOctets:              row.InOctets,
		OutOctets:             row.OutOctets,
		InUcastPkts:           row.InUcastPkts,
		InNUcastPkts:          row.InNUcastPkts,
		OutUcastPkts:          row.OutUcastPkts,
		OutNUcastPkts:         row.OutNUcastPkts,
		InErrors:              row.InErrors,
		OutErrors:             row.OutErrors,
	}
	return e
}

// groupFromGUID derives the hardware group identifier from the adapter
// GUID components. Entries of software adapters layered over the same
// hardware share these components.
func groupFromGUID(guid windows.GUID) GroupID {
	return GroupID{
		guid.Data2,
		guid.Data3,
		uint16(guid.Data4[0]),
		uint16(guid.Data4[1]),
		uint16(guid.Data4[2]),
		uint16(guid.Data4[3]),
		uint16(guid.Data4[4]),
		uint16(guid.Data4[5]),
		uint16(guid.Data4[6]),
		uint16(guid.Data4[7]),
	}
}

type windowsTable struct {
	handle  *mibIfTable2
	entries []Entry
}

func (t *windowsTable) Entries() []Entry {
	return t.entries
}

func (t *windowsTable) Close() error {
	if t.handle != nil {
		procFreeMibTable.Call(uintptr(unsafe.Pointer(t.handle)))
		t.handle = nil
	}
	return nil
}
