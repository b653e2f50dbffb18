//go:build linux

package addrs

import (
	"net/netip"

	"github.com/vishvananda/netlink"

	"github.com/irctrakz/netmon/pkg/core"
	"github.com/irctrakz/netmon/pkg/logging"
	"github.com/irctrakz/netmon/pkg/netstat"
)

type linuxResolver struct{}

// NewSystemResolver returns an AddressResolver backed by netlink.
func NewSystemResolver() netstat.AddressResolver {
	return &linuxResolver{}
}

// Resolve populates each record's IP networks and MAC address from the
// kernel's link and address tables. Interfaces the kernel no longer knows
// (stale registry entries) keep their last-known addresses.
func (r *linuxResolver) Resolve(interfaces map[string]*netstat.Interface) {
	for name, iface := range interfaces {
		link, err := netlink.LinkByName(name)
		if err != nil {
			logging.Debugf("address refresh: link %s not found: %v", name, err)
			continue
		}

		attrs := link.Attrs()
		if mac := core.MacAddrFromSlice(attrs.HardwareAddr); !mac.IsUnspecified() {
			iface.SetMACAddress(mac)
		}

		addrList, err := netlink.AddrList(link, netlink.FAMILY_ALL)
		if err != nil {
			logging.Debugf("address refresh: addresses for %s unavailable: %v", name, err)
			continue
		}

		networks := make([]core.IPNetwork, 0, len(addrList))
		for _, addr := range addrList {
			if addr.IPNet == nil {
				continue
			}
			ip := addr.IPNet.IP
			if v4 := ip.To4(); v4 != nil {
				ip = v4
			}
			parsed, ok := netip.AddrFromSlice(ip)
			if !ok {
				continue
			}
			prefix, _ := addr.IPNet.Mask.Size()
			networks = append(networks, core.IPNetwork{Addr: parsed, Prefix: uint8(prefix)})
		}
		iface.SetIPNetworks(networks)
	}
}
