// Package addrs resolves IP network assignments and link-layer addresses
// for the interface records held by a registry. It is the sole writer of
// those fields; the registry owns everything else.
package addrs
