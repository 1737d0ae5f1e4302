package fortios

import (
	"errors"
	"fmt"
	"net/netip"
	"slices"
	"strings"
	"testing"

	"github.com/Flarenzy/fortimigrate/internal/domain"
	"github.com/Flarenzy/fortimigrate/internal/settings"
)

func sampleNetwork() domain.Network {
	return domain.Network{
		ID:   "L_100",
		Name: "branch-01",
		VLANs: []domain.VLAN{
			{
				ID:             10,
				Name:           "users",
				Subnet:         netip.MustParsePrefix("192.168.10.0/24"),
				ApplianceIP:    netip.MustParseAddr("192.168.10.1"),
				DHCPHandling:   domain.DHCPRun,
				LeaseTime:      "1 day",
				DNSNameservers: "upstream_dns",
				DHCPOptions: []domain.DHCPOption{
					{Code: 15, Type: domain.OptionText, Value: "corp.example.com"},
					{Code: 150, Type: domain.OptionIP, Value: "10.0.0.50"},
				},
				ReservedRanges: []domain.IPRange{
					{Start: netip.MustParseAddr("192.168.10.1"), End: netip.MustParseAddr("192.168.10.20"), Comment: "infra"},
				},
				FixedAssignments: []domain.FixedAssignment{
					{MAC: "aa:bb:cc:dd:ee:01", IP: netip.MustParseAddr("192.168.10.10"), Name: "printer"},
				},
			},
			{
				ID:           20,
				Name:         "voice",
				Subnet:       netip.MustParsePrefix("192.168.20.0/24"),
				ApplianceIP:  netip.MustParseAddr("192.168.20.1"),
				DHCPHandling: domain.DHCPRelay,
				RelayServers: []netip.Addr{netip.MustParseAddr("10.0.0.5")},
			},
			{
				ID:           30,
				Name:         "iot",
				Subnet:       netip.MustParsePrefix("192.168.30.0/25"),
				ApplianceIP:  netip.MustParseAddr("192.168.30.1"),
				DHCPHandling: domain.DHCPOff,
			},
			{
				ID:             40,
				Name:           "lab",
				Subnet:         netip.MustParsePrefix("10.40.0.0/24"),
				ApplianceIP:    netip.MustParseAddr("10.40.0.1"),
				DHCPHandling:   domain.DHCPRun,
				LeaseTime:      "4 hours",
				DNSNameservers: "8.8.8.8\n8.8.4.4",
			},
		},
	}
}

const sampleDocument = `config system interface
    edit "vlan10"
        set alias "users"
        set ip 192.168.10.1 255.255.255.0
        set allowaccess ping
        set role lan
        set interface "internal"
        set vlanid 10
    next
    edit "vlan20"
        set alias "voice"
        set ip 192.168.20.1 255.255.255.0
        set allowaccess ping
        set role lan
        set interface "internal"
        set vlanid 20
        set dhcp-relay-service enable
        set dhcp-relay-ip 10.0.0.5
    next
    edit "vlan30"
        set alias "iot"
        set ip 192.168.30.1 255.255.255.128
        set allowaccess ping
        set role lan
        set interface "internal"
        set vlanid 30
    next
    edit "vlan40"
        set alias "lab"
        set ip 10.40.0.1 255.255.255.0
        set allowaccess ping
        set role lan
        set interface "internal"
        set vlanid 40
    next
end
config system dhcp server
    edit 10
        set domain "corp.example.com"
        set default-gateway 192.168.10.1
        set netmask 255.255.255.0
        set interface "vlan10"
        set lease-time 86400
        set dns-service default
config ip-range
    edit 1
        set start-ip 192.168.10.1
        set end-ip 192.168.10.254
    next
end
config exclude-range
    edit 1
        set start-ip 192.168.10.1
        set end-ip 192.168.10.9
    next
    edit 2
        set start-ip 192.168.10.11
        set end-ip 192.168.10.20
    next
end
config reserved-address
    edit 1
        set ip 192.168.10.10
        set mac aa:bb:cc:dd:ee:01
        set description "printer"
    next
end
config options
    edit 1
        set code 150
        set type ip
        set ip "10.0.0.50"
    next
end
    next
    edit 11
        set default-gateway 10.40.0.1
        set netmask 255.255.255.0
        set interface "vlan40"
        set lease-time 14400
        set dns-server1 8.8.8.8
        set dns-server2 8.8.4.4
config ip-range
    edit 1
        set start-ip 10.40.0.1
        set end-ip 10.40.0.254
    next
end
    next
end
config router bgp
    config network
        edit 10
            set prefix 192.168.10.0 255.255.255.0
        next
        edit 11
            set prefix 192.168.20.0 255.255.255.0
        next
        edit 12
            set prefix 192.168.30.0 255.255.255.128
        next
        edit 13
            set prefix 10.40.0.0 255.255.255.0
        next
    end
end
config router prefix-list
    edit "MERAKI-VLANS"
        config rule
            edit 10
                set prefix 192.168.10.0 255.255.255.0
                unset ge
                unset le
            next
            edit 11
                set prefix 192.168.20.0 255.255.255.0
                unset ge
                unset le
            next
            edit 12
                set prefix 192.168.30.0 255.255.255.128
                unset ge
                unset le
            next
            edit 13
                set prefix 10.40.0.0 255.255.255.0
                unset ge
                unset le
            next
        end
    next
end
`

func TestConverterRenderFullDocument(t *testing.T) {
	doc, err := NewConverter(settings.Default()).Render(sampleNetwork())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := doc.String(); got != sampleDocument {
		t.Fatalf("unexpected document:\n%s", got)
	}
}

func TestConverterKeepsDHCPSubBlocksAtColumnZero(t *testing.T) {
	network := domain.Network{
		Name: "branch-02",
		VLANs: []domain.VLAN{{
			ID:           5,
			Name:         "office",
			Subnet:       netip.MustParsePrefix("10.0.0.0/24"),
			ApplianceIP:  netip.MustParseAddr("10.0.0.254"),
			DHCPHandling: domain.DHCPRun,
			LeaseTime:    "1 day",
			ReservedRanges: []domain.IPRange{
				{Start: netip.MustParseAddr("10.0.0.1"), End: netip.MustParseAddr("10.0.0.10")},
			},
			FixedAssignments: []domain.FixedAssignment{
				{MAC: "aa:bb:cc:dd:ee:05", IP: netip.MustParseAddr("10.0.0.5"), Name: "ap"},
			},
		}},
	}

	doc, err := NewConverter(settings.Default()).Render(network)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, want := range []string{
		"config ip-range",
		"config exclude-range",
		"config reserved-address",
		"        set start-ip 10.0.0.1",
		"        set end-ip 10.0.0.4",
		"        set start-ip 10.0.0.6",
		"        set mac aa:bb:cc:dd:ee:05",
	} {
		if !slices.Contains(doc.Lines, want) {
			t.Fatalf("expected line %q in:\n%s", want, doc.String())
		}
	}
	for _, line := range doc.Lines {
		if strings.HasPrefix(line, "            set ") && !strings.Contains(line, "prefix") {
			t.Fatalf("unexpected twelve space set line %q", line)
		}
	}
}

func TestConverterRenderIsIdempotent(t *testing.T) {
	converter := NewConverter(settings.Default())
	first, err := converter.Render(sampleNetwork())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := converter.Render(sampleNetwork())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first.String() != second.String() {
		t.Fatal("expected identical output for identical input")
	}
}

func TestConverterOmitsDHCPBlockWithoutRunVLANs(t *testing.T) {
	network := sampleNetwork()
	network.VLANs = network.VLANs[1:3]

	doc, err := NewConverter(settings.Default()).Render(network)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	text := doc.String()
	if strings.Contains(text, "config system dhcp server") {
		t.Fatalf("expected no dhcp block, got:\n%s", text)
	}
	if !strings.Contains(text, "        edit 10\n            set prefix 192.168.20.0 255.255.255.0") {
		t.Fatalf("expected first network slot to start at base, got:\n%s", text)
	}
}

func TestConverterRendersBlocksForEmptyNetwork(t *testing.T) {
	doc, err := NewConverter(settings.Default()).Render(domain.Network{Name: "empty"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := "config system interface\nend\nconfig router bgp\nend\nconfig router prefix-list\nend\n"
	if doc.String() != want {
		t.Fatalf("unexpected document:\n%s", doc.String())
	}
}

func TestConverterUsesConfiguredSlotBase(t *testing.T) {
	s := settings.Default()
	s.DHCP.SlotBase = 100

	doc, err := NewConverter(s).Render(sampleNetwork())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	text := doc.String()
	for _, want := range []string{"\n    edit 100\n        set domain", "\n    edit 101\n        set default-gateway 10.40.0.1", "\n        edit 103\n            set prefix 10.40.0.0"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in:\n%s", want, text)
		}
	}
}

func TestConverterAbortsOnFailingVLAN(t *testing.T) {
	network := sampleNetwork()
	network.VLANs[3].LeaseTime = "2 days"

	doc, err := NewConverter(settings.Default()).Render(network)
	if !errors.Is(err, domain.ErrUnknownLeaseTime) {
		t.Fatalf("expected ErrUnknownLeaseTime, got %v", err)
	}
	var vlanErr *domain.VLANError
	if !errors.As(err, &vlanErr) || vlanErr.VLANID != 40 {
		t.Fatalf("expected error for vlan 40, got %v", err)
	}
	if len(doc.Lines) != 0 {
		t.Fatalf("expected no output, got %d lines", len(doc.Lines))
	}
}

func TestConverterPropagatesOptionErrors(t *testing.T) {
	tests := map[string]struct {
		option domain.DHCPOption
		want   error
	}{
		"unknown code": {option: domain.DHCPOption{Code: 2, Type: domain.OptionText, Value: "x"}, want: domain.ErrUnknownDHCPOption},
		"bad domain":   {option: domain.DHCPOption{Code: 15, Type: domain.OptionText, Value: "bad_name"}, want: domain.ErrInvalidDomainName},
		"short hex":    {option: domain.DHCPOption{Code: 43, Type: domain.OptionHex, Value: "01:02"}, want: domain.ErrMalformedHexOption},
	}

	for name, tt := range tests {
		network := sampleNetwork()
		network.VLANs[0].DHCPOptions = []domain.DHCPOption{tt.option}
		if _, err := NewConverter(settings.Default()).Render(network); !errors.Is(err, tt.want) {
			t.Fatalf("%s: expected %v, got %v", name, tt.want, err)
		}
	}
}

func TestConverterEnforcesExclusionLimit(t *testing.T) {
	network := sampleNetwork()
	var ranges []domain.IPRange
	for i := 0; i < 17; i++ {
		ip := netip.MustParseAddr(fmt.Sprintf("192.168.10.%d", 100+i*2))
		ranges = append(ranges, domain.IPRange{Start: ip, End: ip})
	}
	network.VLANs[0].ReservedRanges = ranges

	_, err := NewConverter(settings.Default()).Render(network)
	if !errors.Is(err, domain.ErrTooManyExclusions) {
		t.Fatalf("expected ErrTooManyExclusions, got %v", err)
	}

	s := settings.Default()
	s.DHCP.MaxExcludeRanges = 0
	if _, err := NewConverter(s).Render(network); err != nil {
		t.Fatalf("expected no limit when disabled, got %v", err)
	}
}

func TestConverterRejectsRelayWithoutServers(t *testing.T) {
	network := sampleNetwork()
	network.VLANs[1].RelayServers = nil

	if _, err := NewConverter(settings.Default()).Render(network); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSlotsAdvance(t *testing.T) {
	slots := Slots{DHCP: 10, Network: 10}
	slots = slots.advance(domain.DHCPRelay)
	slots = slots.advance(domain.DHCPRun)
	slots = slots.advance(domain.DHCPOff)

	if slots.DHCP != 11 || slots.Network != 13 {
		t.Fatalf("unexpected slots: %+v", slots)
	}
}
