// Package meraki reads network models exported from the Meraki Dashboard,
// either from the Dashboard API or from snapshot files.
package meraki

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	HandlingRun   = "Run a DHCP server"
	HandlingRelay = "Relay DHCP to another server"
	HandlingOff   = "Do not respond to DHCP requests"
)

type Organization struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type Network struct {
	ID             string   `json:"id" yaml:"id"`
	OrganizationID string   `json:"organizationId,omitempty" yaml:"organizationId,omitempty"`
	Name           string   `json:"name" yaml:"name"`
	ProductTypes   []string `json:"productTypes,omitempty" yaml:"productTypes,omitempty"`
	TimeZone       string   `json:"timeZone,omitempty" yaml:"timeZone,omitempty"`
}

// NetworkExport is a network and its appliance VLANs as one document.
type NetworkExport struct {
	Network Network `json:"network" yaml:"network"`
	VLANs   []VLAN  `json:"vlans" yaml:"vlans"`
}

type VLANSettings struct {
	VLANsEnabled bool `json:"vlansEnabled"`
}

type SingleLAN struct {
	Subnet      string `json:"subnet"`
	ApplianceIP string `json:"applianceIp"`
}

type VLAN struct {
	ID                 VLANID             `json:"id" yaml:"id"`
	Name               string             `json:"name" yaml:"name"`
	Subnet             string             `json:"subnet" yaml:"subnet"`
	ApplianceIP        string             `json:"applianceIp" yaml:"applianceIp"`
	GroupPolicyID      string             `json:"groupPolicyId,omitempty" yaml:"groupPolicyId,omitempty"`
	DHCPHandling       string             `json:"dhcpHandling" yaml:"dhcpHandling"`
	DHCPRelayServerIPs []string           `json:"dhcpRelayServerIps,omitempty" yaml:"dhcpRelayServerIps,omitempty"`
	DHCPLeaseTime      string             `json:"dhcpLeaseTime,omitempty" yaml:"dhcpLeaseTime,omitempty"`
	DHCPOptions        []DHCPOption       `json:"dhcpOptions,omitempty" yaml:"dhcpOptions,omitempty"`
	DNSNameservers     string             `json:"dnsNameservers,omitempty" yaml:"dnsNameservers,omitempty"`
	ReservedIPRanges   []ReservedIPRange  `json:"reservedIpRanges,omitempty" yaml:"reservedIpRanges,omitempty"`
	FixedIPAssignments FixedIPAssignments `json:"fixedIpAssignments,omitempty" yaml:"fixedIpAssignments,omitempty"`
}

type DHCPOption struct {
	Code  string `json:"code" yaml:"code"`
	Type  string `json:"type" yaml:"type"`
	Value string `json:"value" yaml:"value"`
}

type ReservedIPRange struct {
	Start   string `json:"start" yaml:"start"`
	End     string `json:"end" yaml:"end"`
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// VLANID accepts both the numeric and the string form the Dashboard uses.
type VLANID int

func (id *VLANID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("vlan id %s: %w", data, err)
	}
	*id = VLANID(n)
	return nil
}

func (id *VLANID) UnmarshalYAML(node *yaml.Node) error {
	n, err := strconv.Atoi(node.Value)
	if err != nil {
		return fmt.Errorf("vlan id %q at line %d: %w", node.Value, node.Line, err)
	}
	*id = VLANID(n)
	return nil
}

func (id VLANID) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(id))
}
