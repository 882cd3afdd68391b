package networking

import (
	"context"
	"fmt"
	"net"

	"github.com/vishvananda/netlink"

	"github.com/maksimkurb/valvula-mgr/src/internal/log"
)

// AddressLister returns the IP addresses assigned to local interfaces.
type AddressLister interface {
	LocalAddresses() ([]net.IP, error)
}

type Interface struct {
	netlink.Link
}

func GetInterfaceList() ([]Interface, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, err
	}
	var interfaces []Interface
	for _, link := range links {
		interfaces = append(interfaces, Interface{link})
	}
	return interfaces, nil
}

func (iface *Interface) IsUp() bool {
	return iface.Attrs().Flags&net.FlagUp != 0
}

func (iface *Interface) AddrsIps() ([]net.IP, error) {
	addrs, err := netlink.AddrList(iface.Link, netlink.FAMILY_ALL)
	if err != nil {
		return nil, err
	}
	var ips []net.IP
	for _, addr := range addrs {
		ips = append(ips, addr.IP)
	}
	return ips, nil
}

// NetlinkAddresses lists addresses of every interface through netlink.
type NetlinkAddresses struct{}

func (NetlinkAddresses) LocalAddresses() ([]net.IP, error) {
	interfaces, err := GetInterfaceList()
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}

	var ips []net.IP
	for _, iface := range interfaces {
		addrs, err := iface.AddrsIps()
		if err != nil {
			log.Warnf("Failed to list addresses of %s: %v", iface.Attrs().Name, err)
			continue
		}
		if !iface.IsUp() {
			log.Debugf("Interface %s is down, its addresses are still accepted", iface.Attrs().Name)
		}
		ips = append(ips, addrs...)
	}
	return ips, nil
}

// IsWildcard reports whether host is the IPv4 or IPv6 unspecified address.
func IsWildcard(host string) bool {
	ip := net.ParseIP(host)
	return ip != nil && ip.IsUnspecified()
}

// IsLocalAddress reports whether a listener can bind to host. Host names are
// resolved and accepted when any of their addresses is local.
func IsLocalAddress(ctx context.Context, lister AddressLister, host string) (bool, error) {
	if IsWildcard(host) {
		return true, nil
	}

	var candidates []net.IP
	if ip := net.ParseIP(host); ip != nil {
		candidates = append(candidates, ip)
	} else {
		addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
		if err != nil {
			return false, fmt.Errorf("failed to resolve %s: %w", host, err)
		}
		for _, a := range addrs {
			candidates = append(candidates, a.IP)
		}
	}

	local, err := lister.LocalAddresses()
	if err != nil {
		return false, err
	}

	for _, c := range candidates {
		for _, l := range local {
			if c.Equal(l) {
				return true, nil
			}
		}
	}
	return false, nil
}
