package domain

import (
	"fmt"
	"net/netip"
	"regexp"
	"slices"
	"strings"
)

const (
	OptionCodeDomainName     = 15
	OptionCodeVendorSpecific = 43
	OptionCodeDirectoryAgent = 78
	OptionCodeServiceScope   = 79
	OptionCodeNDSServers     = 85
	OptionCodeClientFQDN     = 115
	OptionCodeTFTPServers    = 150
)

var domainLabelPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,60}[a-zA-Z0-9]$`)

// DHCPOptionSet holds the options a DHCP server entry carries.
type DHCPOptionSet struct {
	DomainName   string
	VendorHex    string
	ServiceScope string
	AuxIPs       map[int][]string
}

// IPList renders an IP option as FortiOS expects it. TFTP server
// addresses are quoted.
func (s DHCPOptionSet) IPList(code int) string {
	ips := s.AuxIPs[code]
	if code != OptionCodeTFTPServers {
		return strings.Join(ips, " ")
	}
	quoted := make([]string, len(ips))
	for i, ip := range ips {
		quoted[i] = `"` + ip + `"`
	}
	return strings.Join(quoted, " ")
}

// Codes returns the option codes other than the domain name that carry a
// value, ascending.
func (s DHCPOptionSet) Codes() []int {
	var codes []int
	if s.VendorHex != "" {
		codes = append(codes, OptionCodeVendorSpecific)
	}
	if s.ServiceScope != "" {
		codes = append(codes, OptionCodeServiceScope)
	}
	for code, ips := range s.AuxIPs {
		if len(ips) > 0 {
			codes = append(codes, code)
		}
	}
	slices.Sort(codes)
	return codes
}

func ExtractDHCPOptions(options []DHCPOption) (DHCPOptionSet, error) {
	set := DHCPOptionSet{AuxIPs: map[int][]string{}}

	for _, option := range options {
		switch {
		case option.Code == OptionCodeDomainName && option.Type == OptionText:
			if err := ValidateDomainName(option.Value); err != nil {
				return DHCPOptionSet{}, err
			}
			set.DomainName = option.Value
		case option.Code == OptionCodeVendorSpecific && option.Type == OptionHex:
			hex, err := regroupHex(option.Value)
			if err != nil {
				return DHCPOptionSet{}, err
			}
			set.VendorHex = hex
		case isAuxIPCode(option.Code) && option.Type == OptionIP:
			ips, err := splitIPList(option.Value)
			if err != nil {
				return DHCPOptionSet{}, fmt.Errorf("option %d: %w", option.Code, err)
			}
			set.AuxIPs[option.Code] = ips
		case option.Code == OptionCodeServiceScope && option.Type == OptionText:
			set.ServiceScope = option.Value
		case option.Code == OptionCodeClientFQDN:
			continue
		default:
			return DHCPOptionSet{}, fmt.Errorf("%w: %d (%s)", ErrUnknownDHCPOption, option.Code, option.Type)
		}
	}

	return set, nil
}

func ValidateDomainName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidDomainName)
	}
	for _, label := range strings.Split(name, ".") {
		if !domainLabelPattern.MatchString(label) {
			return fmt.Errorf("%w: %q has invalid label %q", ErrInvalidDomainName, name, label)
		}
	}
	return nil
}

func isAuxIPCode(code int) bool {
	switch code {
	case OptionCodeDirectoryAgent, OptionCodeNDSServers, OptionCodeTFTPServers:
		return true
	}
	return false
}

func splitIPList(value string) ([]string, error) {
	var ips []string
	for _, field := range strings.Split(value, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		addr, err := netip.ParseAddr(field)
		if err != nil || !addr.Is4() {
			return nil, fmt.Errorf("%w: %q is not an ipv4 address", ErrInvalidInput, field)
		}
		ips = append(ips, addr.String())
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("%w: empty address list", ErrInvalidInput)
	}
	return ips, nil
}

// regroupHex turns "01:02:03:04:05:06" into "0102:0304:0506".
func regroupHex(value string) (string, error) {
	octets := strings.Split(strings.TrimSpace(value), ":")
	if len(octets) < 6 {
		return "", fmt.Errorf("%w: %q has %d octets, need 6", ErrMalformedHexOption, value, len(octets))
	}
	for _, octet := range octets[:6] {
		if !isHexOctet(octet) {
			return "", fmt.Errorf("%w: %q is not a hex octet", ErrMalformedHexOption, octet)
		}
	}
	return octets[0] + octets[1] + ":" + octets[2] + octets[3] + ":" + octets[4] + octets[5], nil
}

func isHexOctet(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
