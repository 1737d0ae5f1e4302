package domain

import (
	"net/netip"
	"strings"
	"time"
)

type SnapshotID string

type DHCPHandling string

const (
	DHCPRun   DHCPHandling = "run"
	DHCPRelay DHCPHandling = "relay"
	DHCPOff   DHCPHandling = "off"
)

type OptionType string

const (
	OptionText    OptionType = "text"
	OptionIP      OptionType = "ip"
	OptionHex     OptionType = "hex"
	OptionInteger OptionType = "integer"
)

type DHCPOption struct {
	Code  int        `json:"code"`
	Type  OptionType `json:"type"`
	Value string     `json:"value"`
}

type FixedAssignment struct {
	MAC  string     `json:"mac"`
	IP   netip.Addr `json:"ip"`
	Name string     `json:"name"`
}

type VLAN struct {
	ID               int               `json:"id"`
	Name             string            `json:"name"`
	Subnet           netip.Prefix      `json:"subnet"`
	ApplianceIP      netip.Addr        `json:"appliance_ip"`
	DHCPHandling     DHCPHandling      `json:"dhcp_handling"`
	LeaseTime        string            `json:"lease_time,omitempty"`
	DNSNameservers   string            `json:"dns_nameservers,omitempty"`
	DHCPOptions      []DHCPOption      `json:"dhcp_options,omitempty"`
	ReservedRanges   []IPRange         `json:"reserved_ranges,omitempty"`
	FixedAssignments []FixedAssignment `json:"fixed_assignments,omitempty"`
	RelayServers     []netip.Addr      `json:"relay_servers,omitempty"`
	GroupPolicyID    string            `json:"group_policy_id,omitempty"`
}

// Network is one conversion input: the VLANs of a single site in source order.
type Network struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	VLANs []VLAN `json:"vlans"`
}

type Snapshot struct {
	ID        SnapshotID
	Network   Network
	CreatedAt time.Time
}

// Document is a rendered configuration, one entry per output line.
type Document struct {
	Lines []string
}

func (d Document) String() string {
	if len(d.Lines) == 0 {
		return ""
	}
	return strings.Join(d.Lines, "\n") + "\n"
}
