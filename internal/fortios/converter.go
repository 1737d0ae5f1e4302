// Package fortios renders a Meraki network model as FortiOS CLI
// configuration.
package fortios

import (
	"fmt"

	"github.com/Flarenzy/fortimigrate/internal/domain"
	"github.com/Flarenzy/fortimigrate/internal/settings"
)

// Slots carries the entry numbers the next VLAN will use. DHCP advances
// only for VLANs that run a DHCP server; Network advances for every VLAN
// and numbers both its BGP network and prefix-list rule.
type Slots struct {
	DHCP    int
	Network int
}

func (s Slots) advance(handling domain.DHCPHandling) Slots {
	next := Slots{DHCP: s.DHCP, Network: s.Network + 1}
	if handling == domain.DHCPRun {
		next.DHCP++
	}
	return next
}

// fragment is everything one VLAN contributes to the document.
type fragment struct {
	iface   []string
	dhcp    []string
	network []string
	rule    []string
}

type Converter struct {
	settings settings.Settings
}

func NewConverter(s settings.Settings) *Converter {
	return &Converter{settings: s}
}

// Render converts every VLAN of network in source order. The first VLAN
// that fails aborts the run with a *domain.VLANError and nothing is
// returned.
func (c *Converter) Render(network domain.Network) (domain.Document, error) {
	slots := Slots{DHCP: c.settings.DHCP.SlotBase, Network: c.settings.DHCP.SlotBase}

	fragments := make([]fragment, 0, len(network.VLANs))
	for _, vlan := range network.VLANs {
		frag, next, err := c.convertVLAN(vlan, slots)
		if err != nil {
			return domain.Document{}, &domain.VLANError{VLANID: vlan.ID, Name: vlan.Name, Err: err}
		}
		fragments = append(fragments, frag)
		slots = next
	}

	return c.assemble(fragments), nil
}

func (c *Converter) convertVLAN(vlan domain.VLAN, slots Slots) (fragment, Slots, error) {
	frag := fragment{
		iface:   interfaceEntry(c.settings.Interface, vlan),
		network: networkEntry(slots.Network, vlan.Subnet),
		rule:    prefixRuleEntry(slots.Network, vlan.Subnet),
	}

	switch vlan.DHCPHandling {
	case domain.DHCPRun:
		scope, err := c.dhcpScope(vlan, slots.DHCP)
		if err != nil {
			return fragment{}, slots, err
		}
		frag.dhcp = dhcpEntry(scope)
	case domain.DHCPRelay:
		if len(vlan.RelayServers) == 0 {
			return fragment{}, slots, fmt.Errorf("%w: relay vlan has no relay servers", domain.ErrInvalidInput)
		}
	}

	return frag, slots.advance(vlan.DHCPHandling), nil
}

func (c *Converter) dhcpScope(vlan domain.VLAN, slot int) (dhcpScope, error) {
	options, err := domain.ExtractDHCPOptions(vlan.DHCPOptions)
	if err != nil {
		return dhcpScope{}, err
	}

	lease, err := domain.LeaseSeconds(vlan.LeaseTime)
	if err != nil {
		return dhcpScope{}, err
	}

	dns, err := parseDNSServers(vlan.DNSNameservers)
	if err != nil {
		return dhcpScope{}, err
	}

	usable, err := domain.UsableRange(vlan.Subnet)
	if err != nil {
		return dhcpScope{}, err
	}

	exclusions, err := domain.NormalizeExclusions(vlan.ReservedRanges, vlan.FixedAssignments)
	if err != nil {
		return dhcpScope{}, err
	}
	if limit := c.settings.DHCP.MaxExcludeRanges; limit > 0 && len(exclusions) > limit {
		return dhcpScope{}, fmt.Errorf("%w: %d ranges, limit is %d", domain.ErrTooManyExclusions, len(exclusions), limit)
	}

	return dhcpScope{
		slot:       slot,
		iface:      interfaceName(c.settings.Interface, vlan),
		vlan:       vlan,
		leaseTime:  lease,
		options:    options,
		usable:     usable,
		exclusions: exclusions,
		dnsServers: dns,
	}, nil
}

// assemble lays out the document: device base configuration, interfaces,
// the default route, DHCP, routing, prefix-list and finally the tunnel.
// Base blocks that are not configured are left out.
func (c *Converter) assemble(fragments []fragment) domain.Document {
	s := c.settings
	var ifaces, dhcp, networks, rules [][]string
	for _, entry := range [][]string{wanEntry(s.Interface), loopbackEntry(s.Interface)} {
		if entry != nil {
			ifaces = append(ifaces, entry)
		}
	}
	for _, frag := range fragments {
		ifaces = append(ifaces, frag.iface)
		if frag.dhcp != nil {
			dhcp = append(dhcp, frag.dhcp)
		}
		networks = append(networks, frag.network)
		rules = append(rules, frag.rule)
	}

	var lines []string
	for _, block := range [][]string{
		SystemGlobalBlock(s.Global, s.Banner),
		SystemDNSBlock(s.SystemDNS),
		CentralManagementBlock(s.FortiManager),
		FortiAnalyzerBlock(s.FortiAnalyzer),
		AdminBlock(s.Users),
		TACACSBlock(s.TACACS),
		BannerBlock(s.Banner),
		NetflowBlock(s.Netflow),
		InterfaceBlock(ifaces),
		StaticRouteBlock(s.Interface),
		DHCPServerBlock(dhcp),
		RoutingBlock(s.BGP, networks),
		PrefixListBlock(s.BGP.PrefixList, rules),
		IPsecBlocks(s.IPsec, s.Interface.WANName),
	} {
		lines = append(lines, block...)
	}
	return domain.Document{Lines: lines}
}
