//go:build !linux

package addrs

import (
	"net"
	"net/netip"

	"github.com/irctrakz/netmon/pkg/core"
	"github.com/irctrakz/netmon/pkg/logging"
	"github.com/irctrakz/netmon/pkg/netstat"
)

type portableResolver struct{}

// NewSystemResolver returns an AddressResolver backed by the standard
// library's interface enumeration.
func NewSystemResolver() netstat.AddressResolver {
	return &portableResolver{}
}

// Resolve populates each record's IP networks and MAC address. Interfaces
// the platform no longer knows keep their last-known addresses.
func (r *portableResolver) Resolve(interfaces map[string]*netstat.Interface) {
	for name, iface := range interfaces {
		ni, err := net.InterfaceByName(name)
		if err != nil {
			logging.Debugf("address refresh: interface %s not found: %v", name, err)
			continue
		}

		if mac := core.MacAddrFromSlice(ni.HardwareAddr); !mac.IsUnspecified() {
			iface.SetMACAddress(mac)
		}

		addrList, err := ni.Addrs()
		if err != nil {
			logging.Debugf("address refresh: addresses for %s unavailable: %v", name, err)
			continue
		}

		networks := make([]core.IPNetwork, 0, len(addrList))
		for _, addr := range addrList {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip := ipNet.IP
			if v4 := ip.To4(); v4 != nil {
				ip = v4
			}
			parsed, ok := netip.AddrFromSlice(ip)
			if !ok {
				continue
			}
			prefix, _ := ipNet.Mask.Size()
			networks = append(networks, core.IPNetwork{Addr: parsed, Prefix: uint8(prefix)})
		}
		iface.SetIPNetworks(networks)
	}
}
