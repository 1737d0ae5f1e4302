package fortios

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/Flarenzy/fortimigrate/internal/domain"
	"github.com/Flarenzy/fortimigrate/internal/settings"
)

// DNS nameserver values that mean "let the FortiGate answer".
var defaultDNSSentinels = map[string]struct{}{
	"upstream_dns": {},
	"google_dns":   {},
	"opendns":      {},
}

// ExcludeRangeBlock renders normalized exclusion ranges, numbered from 1.
func ExcludeRangeBlock(ranges []domain.IPRange) []string {
	w := &writer{}
	w.config("exclude-range")
	for i, r := range ranges {
		w.edit(i + 1)
		w.set("start-ip", r.Start)
		w.set("end-ip", r.End)
		w.next()
	}
	w.end()
	return w.lines
}

// ReservedAddressBlock renders fixed assignments in input order.
func ReservedAddressBlock(fixed []domain.FixedAssignment) []string {
	w := &writer{}
	w.config("reserved-address")
	for i, f := range fixed {
		w.edit(i + 1)
		w.set("ip", f.IP)
		w.set("mac", f.MAC)
		w.set("description", quote(f.Name))
		w.next()
	}
	w.end()
	return w.lines
}

// IPRangeBlock renders the single pool a DHCP server leases from.
func IPRangeBlock(usable domain.IPRange) []string {
	w := &writer{}
	w.config("ip-range")
	w.edit(1)
	w.set("start-ip", usable.Start)
	w.set("end-ip", usable.End)
	w.next()
	w.end()
	return w.lines
}

// OptionsBlock renders every option of set except the domain name, ordered
// by code.
func OptionsBlock(set domain.DHCPOptionSet) []string {
	w := &writer{}
	w.config("options")
	for i, code := range set.Codes() {
		w.edit(i + 1)
		w.set("code", code)
		switch code {
		case domain.OptionCodeVendorSpecific:
			w.set("type", "hex")
			w.set("value", set.VendorHex)
		case domain.OptionCodeServiceScope:
			w.set("type", "string")
			w.set("value", quote(set.ServiceScope))
		default:
			w.set("type", "ip")
			w.set("ip", set.IPList(code))
		}
		w.next()
	}
	w.end()
	return w.lines
}

func interfaceName(s settings.InterfaceSettings, vlan domain.VLAN) string {
	return fmt.Sprintf("%s%d", s.NamePrefix, vlan.ID)
}

func interfaceEntry(s settings.InterfaceSettings, vlan domain.VLAN) []string {
	w := &writer{depth: 1}
	w.edit(quote(interfaceName(s, vlan)))
	w.set("alias", quote(vlan.Name))
	w.printf("set ip %s %s", vlan.ApplianceIP, domain.Netmask(vlan.Subnet))
	w.set("allowaccess", s.AllowAccess)
	w.set("role", s.Role)
	w.set("interface", quote(s.Parent))
	w.set("vlanid", vlan.ID)
	if vlan.DHCPHandling == domain.DHCPRelay {
		relays := make([]string, len(vlan.RelayServers))
		for i, ip := range vlan.RelayServers {
			relays[i] = ip.String()
		}
		w.set("dhcp-relay-service", "enable")
		w.set("dhcp-relay-ip", strings.Join(relays, " "))
	}
	w.next()
	return w.lines
}

type dhcpScope struct {
	slot       int
	iface      string
	vlan       domain.VLAN
	leaseTime  int
	options    domain.DHCPOptionSet
	usable     domain.IPRange
	exclusions []domain.IPRange
	dnsServers []string
}

// dhcpEntry renders one server entry. Its sub-blocks are appended unshifted,
// starting at column 0.
func dhcpEntry(scope dhcpScope) []string {
	w := &writer{depth: 1}
	w.edit(scope.slot)
	if scope.options.DomainName != "" {
		w.set("domain", quote(scope.options.DomainName))
	}
	w.set("default-gateway", scope.vlan.ApplianceIP)
	w.set("netmask", domain.Netmask(scope.vlan.Subnet))
	w.set("interface", quote(scope.iface))
	w.set("lease-time", scope.leaseTime)
	if len(scope.dnsServers) == 0 {
		w.set("dns-service", "default")
	}
	for i, server := range scope.dnsServers {
		w.set(fmt.Sprintf("dns-server%d", i+1), server)
	}

	w.raw(IPRangeBlock(scope.usable))
	if len(scope.exclusions) > 0 {
		w.raw(ExcludeRangeBlock(scope.exclusions))
	}
	if len(scope.vlan.FixedAssignments) > 0 {
		w.raw(ReservedAddressBlock(scope.vlan.FixedAssignments))
	}
	if len(scope.options.Codes()) > 0 {
		w.raw(OptionsBlock(scope.options))
	}
	w.next()
	return w.lines
}

// parseDNSServers returns nil when the FortiGate's own DNS service should
// be handed out.
func parseDNSServers(value string) ([]string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if _, ok := defaultDNSSentinels[value]; ok {
		return nil, nil
	}

	var servers []string
	for _, line := range strings.Split(value, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		addr, err := netip.ParseAddr(line)
		if err != nil || !addr.Is4() {
			return nil, fmt.Errorf("%w: dns server %q is not an ipv4 address", domain.ErrInvalidInput, line)
		}
		servers = append(servers, addr.String())
	}
	return servers, nil
}

func networkEntry(slot int, prefix netip.Prefix) []string {
	w := &writer{depth: 2}
	w.edit(slot)
	w.printf("set prefix %s %s", prefix.Masked().Addr(), domain.Netmask(prefix))
	w.next()
	return w.lines
}

func prefixRuleEntry(slot int, prefix netip.Prefix) []string {
	w := &writer{depth: 3}
	w.edit(slot)
	w.printf("set prefix %s %s", prefix.Masked().Addr(), domain.Netmask(prefix))
	w.unset("ge")
	w.unset("le")
	w.next()
	return w.lines
}

// InterfaceBlock wraps interface entries; it is emitted even when empty.
func InterfaceBlock(entries [][]string) []string {
	w := &writer{}
	w.config("system interface")
	for _, entry := range entries {
		w.raw(entry)
	}
	w.end()
	return w.lines
}

// DHCPServerBlock wraps DHCP server entries and returns nil when there are
// none.
func DHCPServerBlock(entries [][]string) []string {
	if len(entries) == 0 {
		return nil
	}
	w := &writer{}
	w.config("system dhcp server")
	for _, entry := range entries {
		w.raw(entry)
	}
	w.end()
	return w.lines
}

// RoutingBlock advertises the VLAN subnets through BGP.
func RoutingBlock(s settings.BGPSettings, entries [][]string) []string {
	w := &writer{}
	w.config("router bgp")
	if s.LocalASN != 0 {
		w.set("as", s.LocalASN)
	}
	if s.RouterID != "" {
		w.set("router-id", s.RouterID)
	}
	if s.NeighborIP != "" {
		w.config("neighbor")
		w.edit(quote(s.NeighborIP))
		w.set("remote-as", s.RemoteASN)
		w.next()
		w.end()
	}
	if len(entries) > 0 {
		w.config("network")
		for _, entry := range entries {
			w.raw(entry)
		}
		w.end()
	}
	w.end()
	return w.lines
}

// PrefixListBlock permits the VLAN subnets under a single named list.
func PrefixListBlock(name string, entries [][]string) []string {
	w := &writer{}
	w.config("router prefix-list")
	if len(entries) > 0 {
		w.edit(quote(name))
		w.config("rule")
		for _, entry := range entries {
			w.raw(entry)
		}
		w.end()
		w.next()
	}
	w.end()
	return w.lines
}
