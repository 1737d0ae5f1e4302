// Package settings loads the device-side parameters a conversion needs but
// the Meraki model does not carry: the parent interface, slot offsets, the
// BGP context the VLAN subnets are advertised in, and the optional base
// configuration of the target FortiGate.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultSlotBase         = 10
	DefaultMaxExcludeRanges = 16
	DefaultNamePrefix       = "vlan"
	DefaultAllowAccess      = "ping"
	DefaultRole             = "lan"
	DefaultPrefixList       = "MERAKI-VLANS"
	DefaultFilename         = "{{network}}.conf"
	DefaultWANName          = "wan1"
	DefaultLoopbackName     = "loopback0"
	DefaultTunnelName       = "hub"
	DefaultTACACSName       = "ISE"
	DefaultNetflowPort      = 2055
)

type Settings struct {
	Global        GlobalSettings        `toml:"global"`
	Interface     InterfaceSettings     `toml:"interface"`
	SystemDNS     SystemDNSSettings     `toml:"system_dns"`
	FortiManager  FortiManagerSettings  `toml:"fortimanager"`
	FortiAnalyzer FortiAnalyzerSettings `toml:"fortianalyzer"`
	IPsec         IPsecSettings         `toml:"ipsec"`
	DHCP          DHCPSettings          `toml:"dhcp"`
	BGP           BGPSettings           `toml:"bgp"`
	Users         []UserSettings        `toml:"users,omitempty" validate:"dive"`
	TACACS        TACACSSettings        `toml:"tacacs"`
	Netflow       NetflowSettings       `toml:"netflow"`
	Banner        BannerSettings        `toml:"banner"`
	Output        OutputSettings        `toml:"output"`
}

type GlobalSettings struct {
	Hostname string `toml:"hostname" validate:"omitempty,max=35"`
	GUITheme string `toml:"gui_theme" validate:"omitempty,oneof=green neutral red blue melongene mariner graphite jade jet-black onyx eclipse dark-matter retro"`
}

// InterfaceSettings covers the VLAN parent and the device's own WAN and
// loopback ports. The WAN and loopback entries are only rendered when they
// have an address.
type InterfaceSettings struct {
	Parent              string `toml:"lan_interface" validate:"required,max=15"`
	NamePrefix          string `toml:"name_prefix" validate:"required,max=10"`
	AllowAccess         string `toml:"allow_access" validate:"required,allowaccess"`
	Role                string `toml:"role" validate:"oneof=lan wan dmz undefined"`
	LoopbackName        string `toml:"loopback_name" validate:"required,max=15"`
	LoopbackDescription string `toml:"loopback_description" validate:"max=255"`
	LoopbackIP          string `toml:"loopback_ip" validate:"omitempty,ipv4"`
	WANName             string `toml:"wan_name" validate:"required,max=15"`
	WANDescription      string `toml:"wan_description" validate:"max=255"`
	WANAddress          string `toml:"wan_ip" validate:"omitempty,ipv4"`
	WANMask             string `toml:"wan_mask" validate:"required_with=WANAddress,netmask"`
	WANGateway          string `toml:"wan_gw" validate:"omitempty,ipv4"`
}

type SystemDNSSettings struct {
	Primary   string `toml:"system_dns_primary" validate:"omitempty,ipv4"`
	Secondary string `toml:"system_dns_secondary" validate:"omitempty,ipv4"`
	Domain    string `toml:"system_domain" validate:"omitempty,fqdn"`
}

type FortiManagerSettings struct {
	Server string `toml:"fortimanager_server" validate:"omitempty,ipv4"`
}

type FortiAnalyzerSettings struct {
	Server string `toml:"fortianalyzer_server" validate:"omitempty,ipv4"`
	Serial string `toml:"fortianalyzer_serial" validate:"omitempty,alphanum,max=16"`
}

type IPsecSettings struct {
	TunnelName    string `toml:"tunnel_name" validate:"required,max=15"`
	RemoteGateway string `toml:"ipsec_remote_gw" validate:"omitempty,ipv4"`
	Secret        string `toml:"ipsec_vpn_secret" validate:"required_with=RemoteGateway"`
}

type UserSettings struct {
	Name     string `toml:"name" validate:"required,max=64"`
	Password string `toml:"password" validate:"required"`
	Profile  string `toml:"profile" validate:"required,max=35"`
}

// TACACSSettings points admin authentication at a TACACS+ server such as
// Cisco ISE.
type TACACSSettings struct {
	Name   string `toml:"name" validate:"required,max=35"`
	Server string `toml:"ise_server" validate:"omitempty,ipv4"`
	Key    string `toml:"ise_key" validate:"required_with=Server"`
}

type NetflowSettings struct {
	CollectorIP   string `toml:"netflow_collector_ip" validate:"omitempty,ipv4"`
	CollectorPort uint16 `toml:"netflow_collector_port" validate:"min=1"`
}

type BannerSettings struct {
	Text string `toml:"banner"`
}

type DHCPSettings struct {
	SlotBase         int `toml:"slot_base" validate:"min=1"`
	MaxExcludeRanges int `toml:"max_exclude_ranges" validate:"min=0"`
}

type BGPSettings struct {
	LocalASN   uint32 `toml:"local_asn"`
	RouterID   string `toml:"router_id" validate:"omitempty,ipv4"`
	NeighborIP string `toml:"neighbor_ip" validate:"omitempty,ipv4"`
	RemoteASN  uint32 `toml:"remote_asn" validate:"required_with=NeighborIP"`
	PrefixList string `toml:"prefix_list" validate:"required,max=35"`
}

type OutputSettings struct {
	Filename string `toml:"filename" validate:"required,filename_pattern"`
}

// Default returns settings usable without a settings file.
func Default() Settings {
	return Settings{
		Interface: InterfaceSettings{
			Parent:       "internal",
			NamePrefix:   DefaultNamePrefix,
			AllowAccess:  DefaultAllowAccess,
			Role:         DefaultRole,
			LoopbackName: DefaultLoopbackName,
			WANName:      DefaultWANName,
		},
		IPsec: IPsecSettings{
			TunnelName: DefaultTunnelName,
		},
		DHCP: DHCPSettings{
			SlotBase:         DefaultSlotBase,
			MaxExcludeRanges: DefaultMaxExcludeRanges,
		},
		BGP: BGPSettings{
			PrefixList: DefaultPrefixList,
		},
		TACACS: TACACSSettings{
			Name: DefaultTACACSName,
		},
		Netflow: NetflowSettings{
			CollectorPort: DefaultNetflowPort,
		},
		Output: OutputSettings{
			Filename: DefaultFilename,
		},
	}
}

// Load reads a TOML settings file. Keys missing from the file keep their
// defaults. An empty path returns the defaults.
func Load(path string) (Settings, error) {
	if path == "" {
		return Default(), nil
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Settings{}, fmt.Errorf("read settings file: %w", err)
	}

	return Parse(content)
}

func Parse(content []byte) (Settings, error) {
	s := Default()

	dec := toml.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Settings{}, fmt.Errorf("parse settings at line %d, column %d: %s", row, col, derr.Error())
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return Settings{}, fmt.Errorf("parse settings: %s", serr.String())
		}
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Encode renders settings as TOML, for writing a starter file.
func (s Settings) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	return buf.Bytes(), nil
}
