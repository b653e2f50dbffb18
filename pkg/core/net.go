// Package core contains the shared data types and collaborator interfaces
// used across the monitor: link-layer addresses, IP network assignments and
// the monitor configuration.
package core

import (
	"fmt"
	"net/netip"
)

// MacAddr is a 6-byte link-layer (MAC) address.
type MacAddr [6]byte

// UnspecifiedMAC is the sentinel value for an interface whose link-layer
// address has not been resolved yet.
var UnspecifiedMAC = MacAddr{}

// IsUnspecified reports whether the address is the unresolved sentinel.
func (m MacAddr) IsUnspecified() bool {
	return m == UnspecifiedMAC
}

// String returns the address in colon-separated hex form (e.g. "aa:bb:cc:dd:ee:ff").
func (m MacAddr) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", m[0], m[1], m[2], m[3], m[4], m[5])
}

// MacAddrFromSlice builds a MacAddr from a hardware address byte slice.
// Slices that are not exactly 6 bytes yield the unspecified sentinel.
func MacAddrFromSlice(hw []byte) MacAddr {
	var m MacAddr
	if len(hw) != len(m) {
		return UnspecifiedMAC
	}
	copy(m[:], hw)
	return m
}

// IPNetwork is one IP address assigned to an interface together with its
// prefix length.
type IPNetwork struct {
	Addr   netip.Addr
	Prefix uint8
}

// String returns the assignment in CIDR notation (e.g. "192.168.1.10/24").
func (n IPNetwork) String() string {
	return fmt.Sprintf("%s/%d", n.Addr, n.Prefix)
}
