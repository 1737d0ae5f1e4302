package meraki

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/Flarenzy/fortimigrate/internal/domain"
)

// ToDomain maps a Dashboard export onto the conversion model. Values are
// parsed but not judged: lease times and option semantics are checked
// when the network is rendered.
func ToDomain(export NetworkExport) (domain.Network, error) {
	network := domain.Network{
		ID:    export.Network.ID,
		Name:  export.Network.Name,
		VLANs: make([]domain.VLAN, 0, len(export.VLANs)),
	}

	for _, v := range export.VLANs {
		vlan, err := vlanToDomain(v)
		if err != nil {
			return domain.Network{}, fmt.Errorf("vlan %d (%s): %w", v.ID, v.Name, err)
		}
		network.VLANs = append(network.VLANs, vlan)
	}
	return network, nil
}

// FromDomain is the inverse of ToDomain, used when exporting snapshots.
func FromDomain(network domain.Network) NetworkExport {
	export := NetworkExport{
		Network: Network{ID: network.ID, Name: network.Name},
		VLANs:   make([]VLAN, 0, len(network.VLANs)),
	}

	for _, v := range network.VLANs {
		vlan := VLAN{
			ID:             VLANID(v.ID),
			Name:           v.Name,
			Subnet:         v.Subnet.String(),
			ApplianceIP:    v.ApplianceIP.String(),
			GroupPolicyID:  v.GroupPolicyID,
			DHCPHandling:   handlingString(v.DHCPHandling),
			DHCPLeaseTime:  v.LeaseTime,
			DNSNameservers: v.DNSNameservers,
		}
		for _, ip := range v.RelayServers {
			vlan.DHCPRelayServerIPs = append(vlan.DHCPRelayServerIPs, ip.String())
		}
		for _, o := range v.DHCPOptions {
			vlan.DHCPOptions = append(vlan.DHCPOptions, DHCPOption{Code: strconv.Itoa(o.Code), Type: string(o.Type), Value: o.Value})
		}
		for _, r := range v.ReservedRanges {
			vlan.ReservedIPRanges = append(vlan.ReservedIPRanges, ReservedIPRange{Start: r.Start.String(), End: r.End.String(), Comment: r.Comment})
		}
		for _, f := range v.FixedAssignments {
			vlan.FixedIPAssignments = append(vlan.FixedIPAssignments, FixedIPAssignment{MAC: f.MAC, IP: f.IP.String(), Name: f.Name})
		}
		export.VLANs = append(export.VLANs, vlan)
	}
	return export
}

func vlanToDomain(v VLAN) (domain.VLAN, error) {
	subnet, err := netip.ParsePrefix(strings.TrimSpace(v.Subnet))
	if err != nil || !subnet.Addr().Is4() {
		return domain.VLAN{}, fmt.Errorf("%w: subnet %q", domain.ErrInvalidInput, v.Subnet)
	}
	appliance, err := parseIPv4(v.ApplianceIP)
	if err != nil {
		return domain.VLAN{}, fmt.Errorf("appliance ip: %w", err)
	}

	vlan := domain.VLAN{
		ID:             int(v.ID),
		Name:           v.Name,
		Subnet:         subnet,
		ApplianceIP:    appliance,
		DHCPHandling:   ClassifyHandling(v.DHCPHandling),
		LeaseTime:      v.DHCPLeaseTime,
		DNSNameservers: v.DNSNameservers,
		GroupPolicyID:  v.GroupPolicyID,
	}

	for _, raw := range v.DHCPRelayServerIPs {
		ip, err := parseIPv4(raw)
		if err != nil {
			return domain.VLAN{}, fmt.Errorf("relay server: %w", err)
		}
		vlan.RelayServers = append(vlan.RelayServers, ip)
	}

	for _, o := range v.DHCPOptions {
		code, err := strconv.Atoi(strings.TrimSpace(o.Code))
		if err != nil {
			return domain.VLAN{}, fmt.Errorf("%w: %q", domain.ErrUnknownDHCPOption, o.Code)
		}
		vlan.DHCPOptions = append(vlan.DHCPOptions, domain.DHCPOption{
			Code:  code,
			Type:  domain.OptionType(strings.ToLower(o.Type)),
			Value: o.Value,
		})
	}

	for _, r := range v.ReservedIPRanges {
		start, err := parseIPv4(r.Start)
		if err != nil {
			return domain.VLAN{}, fmt.Errorf("reserved range start: %w", err)
		}
		end, err := parseIPv4(r.End)
		if err != nil {
			return domain.VLAN{}, fmt.Errorf("reserved range end: %w", err)
		}
		rng, err := domain.NewIPRange(start, end)
		if err != nil {
			return domain.VLAN{}, err
		}
		rng.Comment = r.Comment
		vlan.ReservedRanges = append(vlan.ReservedRanges, rng)
	}

	for _, f := range v.FixedIPAssignments {
		ip, err := parseIPv4(f.IP)
		if err != nil {
			return domain.VLAN{}, fmt.Errorf("fixed assignment %s: %w", f.MAC, err)
		}
		vlan.FixedAssignments = append(vlan.FixedAssignments, domain.FixedAssignment{
			MAC:  strings.ToLower(f.MAC),
			IP:   ip,
			Name: f.Name,
		})
	}

	return vlan, nil
}

// ClassifyHandling maps the Dashboard's dhcpHandling text onto a mode.
// Anything that neither runs nor relays DHCP is treated as off.
func ClassifyHandling(s string) domain.DHCPHandling {
	switch {
	case strings.Contains(s, "Run"):
		return domain.DHCPRun
	case strings.Contains(s, "Relay"):
		return domain.DHCPRelay
	default:
		return domain.DHCPOff
	}
}

func handlingString(h domain.DHCPHandling) string {
	switch h {
	case domain.DHCPRun:
		return HandlingRun
	case domain.DHCPRelay:
		return HandlingRelay
	default:
		return HandlingOff
	}
}

func parseIPv4(s string) (netip.Addr, error) {
	ip, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil || !ip.Is4() {
		return netip.Addr{}, fmt.Errorf("%w: %q is not an ipv4 address", domain.ErrInvalidInput, s)
	}
	return ip, nil
}
