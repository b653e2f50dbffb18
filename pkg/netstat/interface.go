// Package netstat maintains the registry of a host's hardware network
// interfaces and their cumulative traffic counters.
package netstat

import (
	"math"

	"github.com/irctrakz/netmon/pkg/core"
	"github.com/irctrakz/netmon/pkg/iftable"
)

// Interface holds one hardware interface's cumulative traffic counters at
// the current and previous refresh, plus its MAC address, IP assignments
// and MTU. Records are created and updated only by the owning Registry;
// the MAC address and IP networks are populated by an AddressResolver.
type Interface struct {
	name string

	bytesIn       uint64
	bytesInPrev   uint64
	bytesOut      uint64
	bytesOutPrev  uint64
	pktsIn        uint64
	pktsInPrev    uint64
	pktsOut       uint64
	pktsOutPrev   uint64
	errorsIn      uint64
	errorsInPrev  uint64
	errorsOut     uint64
	errorsOutPrev uint64

	mac        core.MacAddr
	ipNetworks []core.IPNetwork
	mtu        uint64

	// seen marks the record as matched during the current refresh; stale
	// records (seen still false after the candidate pass) are eviction
	// candidates.
	seen bool
}

func newInterface(name string, e *iftable.Entry) *Interface {
	pktsIn := saturatingAdd(e.InUcastPkts, e.InNUcastPkts)
	pktsOut := saturatingAdd(e.OutUcastPkts, e.OutNUcastPkts)

	// Current and previous are seeded equal so the first observed delta
	// is zero rather than the lifetime total.
	return &Interface{
		name:          name,
		bytesIn:       e.InOctets,
		bytesInPrev:   e.InOctets,
		bytesOut:      e.OutOctets,
		bytesOutPrev:  e.OutOctets,
		pktsIn:        pktsIn,
		pktsInPrev:    pktsIn,
		pktsOut:       pktsOut,
		pktsOutPrev:   pktsOut,
		errorsIn:      e.InErrors,
		errorsInPrev:  e.InErrors,
		errorsOut:     e.OutErrors,
		errorsOutPrev: e.OutErrors,
		mac:           core.UnspecifiedMAC,
		mtu:           e.MTU,
		seen:          true,
	}
}

// update shifts every counter pair (current becomes previous) and installs
// the newly observed cumulative values. MAC address and IP networks are
// owned by the address resolver and left untouched.
func (i *Interface) update(e *iftable.Entry) {
	i.bytesInPrev = i.bytesIn
	i.bytesIn = e.InOctets
	i.bytesOutPrev = i.bytesOut
	i.bytesOut = e.OutOctets
	i.pktsInPrev = i.pktsIn
	i.pktsIn = saturatingAdd(e.InUcastPkts, e.InNUcastPkts)
	i.pktsOutPrev = i.pktsOut
	i.pktsOut = saturatingAdd(e.OutUcastPkts, e.OutNUcastPkts)
	i.errorsInPrev = i.errorsIn
	i.errorsIn = e.InErrors
	i.errorsOutPrev = i.errorsOut
	i.errorsOut = e.OutErrors

	if i.mtu != e.MTU {
		i.mtu = e.MTU
	}
	i.seen = true
}

// Name returns the interface name.
func (i *Interface) Name() string {
	return i.name
}

// Received returns the bytes received since the previous refresh.
func (i *Interface) Received() uint64 {
	return saturatingSub(i.bytesIn, i.bytesInPrev)
}

// TotalReceived returns the cumulative bytes received.
func (i *Interface) TotalReceived() uint64 {
	return i.bytesIn
}

// Transmitted returns the bytes transmitted since the previous refresh.
func (i *Interface) Transmitted() uint64 {
	return saturatingSub(i.bytesOut, i.bytesOutPrev)
}

// TotalTransmitted returns the cumulative bytes transmitted.
func (i *Interface) TotalTransmitted() uint64 {
	return i.bytesOut
}

// PacketsReceived returns the packets received since the previous refresh.
func (i *Interface) PacketsReceived() uint64 {
	return saturatingSub(i.pktsIn, i.pktsInPrev)
}

// TotalPacketsReceived returns the cumulative packets received.
func (i *Interface) TotalPacketsReceived() uint64 {
	return i.pktsIn
}

// PacketsTransmitted returns the packets transmitted since the previous refresh.
func (i *Interface) PacketsTransmitted() uint64 {
	return saturatingSub(i.pktsOut, i.pktsOutPrev)
}

// TotalPacketsTransmitted returns the cumulative packets transmitted.
func (i *Interface) TotalPacketsTransmitted() uint64 {
	return i.pktsOut
}

// ErrorsOnReceived returns the receive errors since the previous refresh.
func (i *Interface) ErrorsOnReceived() uint64 {
	return saturatingSub(i.errorsIn, i.errorsInPrev)
}

// TotalErrorsOnReceived returns the cumulative receive errors.
func (i *Interface) TotalErrorsOnReceived() uint64 {
	return i.errorsIn
}

// ErrorsOnTransmitted returns the transmit errors since the previous refresh.
func (i *Interface) ErrorsOnTransmitted() uint64 {
	return saturatingSub(i.errorsOut, i.errorsOutPrev)
}

// TotalErrorsOnTransmitted returns the cumulative transmit errors.
func (i *Interface) TotalErrorsOnTransmitted() uint64 {
	return i.errorsOut
}

// MACAddress returns the interface's link-layer address, or the
// unspecified sentinel if it has not been resolved.
func (i *Interface) MACAddress() core.MacAddr {
	return i.mac
}

// SetMACAddress installs the resolved link-layer address. Called by the
// address resolver.
func (i *Interface) SetMACAddress(mac core.MacAddr) {
	i.mac = mac
}

// IPNetworks returns the IP networks assigned to the interface.
func (i *Interface) IPNetworks() []core.IPNetwork {
	return i.ipNetworks
}

// SetIPNetworks installs the interface's IP assignments. Called by the
// address resolver.
func (i *Interface) SetIPNetworks(networks []core.IPNetwork) {
	i.ipNetworks = networks
}

// MTU returns the interface's maximum transfer unit.
func (i *Interface) MTU() uint64 {
	return i.mtu
}

// Platform counters may reset (driver reload, counter wrap), so deltas
// saturate at zero instead of wrapping.
func saturatingSub(cur, prev uint64) uint64 {
	if cur < prev {
		return 0
	}
	return cur - prev
}

func saturatingAdd(a, b uint64) uint64 {
	if sum := a + b; sum >= a {
		return sum
	}
	return math.MaxUint64
}
