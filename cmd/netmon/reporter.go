package main

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/irctrakz/netmon/pkg/logging"
	"github.com/irctrakz/netmon/pkg/netstat"
)

type interfaceReport struct {
	MAC         string   `json:"mac,omitempty"`
	MTU         uint64   `json:"mtu"`
	IPNetworks  []string `json:"ip_networks,omitempty"`
	RxBytes     uint64   `json:"rx_bytes"`
	TxBytes     uint64   `json:"tx_bytes"`
	RxPackets   uint64   `json:"rx_packets"`
	TxPackets   uint64   `json:"tx_packets"`
	RxErrors    uint64   `json:"rx_errors"`
	TxErrors    uint64   `json:"tx_errors"`
	RxBytesTot  uint64   `json:"rx_bytes_total"`
	TxBytesTot  uint64   `json:"tx_bytes_total"`
	RxErrorsTot uint64   `json:"rx_errors_total"`
	TxErrorsTot uint64   `json:"tx_errors_total"`
}

type reportSnapshot struct {
	Timestamp  string                     `json:"ts"`
	Interfaces map[string]interfaceReport `json:"interfaces"`
}

// reportInterfaces emits one report of every registered interface's
// counters since the previous refresh plus lifetime totals.
func reportInterfaces(registry *netstat.Registry, format string) {
	list := registry.List()

	if format == "json" {
		snapshot := reportSnapshot{
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
			Interfaces: make(map[string]interfaceReport, len(list)),
		}
		for name, iface := range list {
			r := interfaceReport{
				MTU:         iface.MTU(),
				RxBytes:     iface.Received(),
				TxBytes:     iface.Transmitted(),
				RxPackets:   iface.PacketsReceived(),
				TxPackets:   iface.PacketsTransmitted(),
				RxErrors:    iface.ErrorsOnReceived(),
				TxErrors:    iface.ErrorsOnTransmitted(),
				RxBytesTot:  iface.TotalReceived(),
				TxBytesTot:  iface.TotalTransmitted(),
				RxErrorsTot: iface.TotalErrorsOnReceived(),
				TxErrorsTot: iface.TotalErrorsOnTransmitted(),
			}
			if !iface.MACAddress().IsUnspecified() {
				r.MAC = iface.MACAddress().String()
			}
			for _, n := range iface.IPNetworks() {
				r.IPNetworks = append(r.IPNetworks, n.String())
			}
			snapshot.Interfaces[name] = r
		}
		if data, err := json.Marshal(snapshot); err == nil {
			logging.Infof("REPORT %s", string(data))
		}
		return
	}

	names := make([]string, 0, len(list))
	for name := range list {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		iface := list[name]
		logging.WithFields(logrus.Fields{
			"interface":  name,
			"mac":        iface.MACAddress().String(),
			"mtu":        iface.MTU(),
			"rx_bytes":   iface.Received(),
			"tx_bytes":   iface.Transmitted(),
			"rx_packets": iface.PacketsReceived(),
			"tx_packets": iface.PacketsTransmitted(),
			"rx_errors":  iface.ErrorsOnReceived(),
			"tx_errors":  iface.ErrorsOnTransmitted(),
			"rx_total":   iface.TotalReceived(),
			"tx_total":   iface.TotalTransmitted(),
		}).Info("interface counters")
	}
}
