package fortios

import (
	"net/netip"
	"slices"
	"strings"
	"testing"

	"github.com/Flarenzy/fortimigrate/internal/domain"
	"github.com/Flarenzy/fortimigrate/internal/settings"
)

func assertLines(t *testing.T, got, want []string) {
	t.Helper()
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected lines:\n got:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestExcludeRangeBlockStandaloneIndentation(t *testing.T) {
	got := ExcludeRangeBlock([]domain.IPRange{
		{Start: netip.MustParseAddr("10.0.0.1"), End: netip.MustParseAddr("10.0.0.4")},
		{Start: netip.MustParseAddr("10.0.0.6"), End: netip.MustParseAddr("10.0.0.10")},
	})

	assertLines(t, got, []string{
		"config exclude-range",
		"    edit 1",
		"        set start-ip 10.0.0.1",
		"        set end-ip 10.0.0.4",
		"    next",
		"    edit 2",
		"        set start-ip 10.0.0.6",
		"        set end-ip 10.0.0.10",
		"    next",
		"end",
	})
}

func TestReservedAddressBlockDefaultsDescription(t *testing.T) {
	got := ReservedAddressBlock([]domain.FixedAssignment{
		{MAC: "aa:bb:cc:dd:ee:01", IP: netip.MustParseAddr("10.0.0.20"), Name: "printer"},
		{MAC: "aa:bb:cc:dd:ee:02", IP: netip.MustParseAddr("10.0.0.21")},
	})

	assertLines(t, got, []string{
		"config reserved-address",
		"    edit 1",
		"        set ip 10.0.0.20",
		"        set mac aa:bb:cc:dd:ee:01",
		`        set description "printer"`,
		"    next",
		"    edit 2",
		"        set ip 10.0.0.21",
		"        set mac aa:bb:cc:dd:ee:02",
		`        set description ""`,
		"    next",
		"end",
	})
}

func TestOptionsBlockOrdersByCode(t *testing.T) {
	set := domain.DHCPOptionSet{
		DomainName:   "ignored.example",
		VendorHex:    "f104:0a00:0001",
		ServiceScope: "scope",
		AuxIPs: map[int][]string{
			150: {"1.1.1.1", "2.2.2.2"},
			85:  {"10.1.1.1"},
		},
	}

	assertLines(t, OptionsBlock(set), []string{
		"config options",
		"    edit 1",
		"        set code 43",
		"        set type hex",
		"        set value f104:0a00:0001",
		"    next",
		"    edit 2",
		"        set code 79",
		"        set type string",
		`        set value "scope"`,
		"    next",
		"    edit 3",
		"        set code 85",
		"        set type ip",
		"        set ip 10.1.1.1",
		"    next",
		"    edit 4",
		"        set code 150",
		"        set type ip",
		`        set ip "1.1.1.1" "2.2.2.2"`,
		"    next",
		"end",
	})
}

func TestInterfaceEntryRelay(t *testing.T) {
	s := settings.Default().Interface
	vlan := domain.VLAN{
		ID:           30,
		Name:         "guest",
		Subnet:       netip.MustParsePrefix("10.30.0.0/24"),
		ApplianceIP:  netip.MustParseAddr("10.30.0.1"),
		DHCPHandling: domain.DHCPRelay,
		RelayServers: []netip.Addr{netip.MustParseAddr("10.0.0.5"), netip.MustParseAddr("10.0.0.6")},
	}

	assertLines(t, InterfaceBlock([][]string{interfaceEntry(s, vlan)}), []string{
		"config system interface",
		`    edit "vlan30"`,
		`        set alias "guest"`,
		"        set ip 10.30.0.1 255.255.255.0",
		"        set allowaccess ping",
		"        set role lan",
		`        set interface "internal"`,
		"        set vlanid 30",
		"        set dhcp-relay-service enable",
		"        set dhcp-relay-ip 10.0.0.5 10.0.0.6",
		"    next",
		"end",
	})
}

func TestEmptyBlocks(t *testing.T) {
	if got := DHCPServerBlock(nil); got != nil {
		t.Fatalf("expected no dhcp block, got %v", got)
	}
	assertLines(t, InterfaceBlock(nil), []string{"config system interface", "end"})
	assertLines(t, RoutingBlock(settings.BGPSettings{}, nil), []string{"config router bgp", "end"})
	assertLines(t, PrefixListBlock("MERAKI-VLANS", nil), []string{"config router prefix-list", "end"})
}

func TestRoutingBlockWithNeighbor(t *testing.T) {
	s := settings.BGPSettings{LocalASN: 65010, RouterID: "10.255.0.1", NeighborIP: "10.255.0.254", RemoteASN: 65000}
	got := RoutingBlock(s, [][]string{networkEntry(10, netip.MustParsePrefix("192.168.10.0/24"))})

	assertLines(t, got, []string{
		"config router bgp",
		"    set as 65010",
		"    set router-id 10.255.0.1",
		"    config neighbor",
		`        edit "10.255.0.254"`,
		"            set remote-as 65000",
		"        next",
		"    end",
		"    config network",
		"        edit 10",
		"            set prefix 192.168.10.0 255.255.255.0",
		"        next",
		"    end",
		"end",
	})
}

func TestParseDNSServers(t *testing.T) {
	for _, sentinel := range []string{"upstream_dns", "google_dns", "opendns", ""} {
		servers, err := parseDNSServers(sentinel)
		if err != nil || servers != nil {
			t.Fatalf("%q: expected default service, got %v, %v", sentinel, servers, err)
		}
	}

	servers, err := parseDNSServers("8.8.8.8\n 1.1.1.1 \n")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !slices.Equal(servers, []string{"8.8.8.8", "1.1.1.1"}) {
		t.Fatalf("unexpected servers: %v", servers)
	}

	if _, err := parseDNSServers("dns.example.com"); err == nil {
		t.Fatal("expected error for hostname")
	}
}

func TestQuoteEscapes(t *testing.T) {
	if got := quote(`say "hi" \o/`); got != `"say \"hi\" \\o/"` {
		t.Fatalf("unexpected quoting: %s", got)
	}
}
