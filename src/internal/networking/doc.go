// Package networking discovers the addresses assigned to local interfaces.
//
// A valvula listener can only bind to an address the host owns, so
// add-listener checks the requested host against the addresses reported by
// netlink before touching valvula.conf. The wildcard addresses 0.0.0.0 and ::
// are always accepted.
package networking
