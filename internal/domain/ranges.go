package domain

import (
	"cmp"
	"fmt"
	"net/netip"
	"slices"

	"go4.org/netipx"
)

// IPRange is an inclusive IPv4 range. Start == End excludes a single address.
type IPRange struct {
	Start   netip.Addr `json:"start"`
	End     netip.Addr `json:"end"`
	Comment string     `json:"comment,omitempty"`
}

func NewIPRange(start, end netip.Addr) (IPRange, error) {
	r := IPRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return IPRange{}, err
	}
	return r, nil
}

func (r IPRange) Validate() error {
	if !r.Start.Is4() || !r.End.Is4() {
		return fmt.Errorf("%w: range %s-%s is not ipv4", ErrInvalidInput, r.Start, r.End)
	}
	if r.End.Less(r.Start) {
		return fmt.Errorf("%w: range start %s is after end %s", ErrInvalidInput, r.Start, r.End)
	}
	return nil
}

func (r IPRange) Range() netipx.IPRange {
	return netipx.IPRangeFrom(r.Start, r.End)
}

func (r IPRange) Contains(ip netip.Addr) bool {
	return r.Range().Contains(ip)
}

func (r IPRange) Single() bool {
	return r.Start == r.End
}

func (r IPRange) String() string {
	return r.Range().String()
}

func Successor(ip netip.Addr) (netip.Addr, error) {
	next := ip.Next()
	if !next.IsValid() {
		return netip.Addr{}, fmt.Errorf("%w: no address after %s", ErrRangeExhausted, ip)
	}
	return next, nil
}

func Predecessor(ip netip.Addr) (netip.Addr, error) {
	prev := ip.Prev()
	if !prev.IsValid() {
		return netip.Addr{}, fmt.Errorf("%w: no address before %s", ErrRangeExhausted, ip)
	}
	return prev, nil
}

// SortRanges orders ranges by start, then end, without modifying the input.
func SortRanges(ranges []IPRange) []IPRange {
	sorted := slices.Clone(ranges)
	slices.SortStableFunc(sorted, func(a, b IPRange) int {
		return cmp.Or(a.Start.Compare(b.Start), a.End.Compare(b.End))
	})
	return sorted
}

// UsableRange returns the host range of an IPv4 prefix.
func UsableRange(prefix netip.Prefix) (IPRange, error) {
	if !prefix.IsValid() || !prefix.Addr().Is4() {
		return IPRange{}, fmt.Errorf("%w: %s is not an ipv4 prefix", ErrInvalidInput, prefix)
	}
	r := netipx.RangeOfPrefix(prefix.Masked())

	// /31 IPv4 point-to-point links treat both addresses as usable.
	switch prefix.Bits() {
	case 32:
		return IPRange{}, fmt.Errorf("%w: %s has no usable hosts", ErrInvalidInput, prefix)
	case 31:
		return IPRange{Start: r.From(), End: r.To()}, nil
	}

	return IPRange{Start: r.From().Next(), End: r.To().Prev()}, nil
}

// Netmask renders the prefix length of an IPv4 prefix as a dotted quad.
func Netmask(prefix netip.Prefix) string {
	bits := prefix.Bits()
	if bits < 0 || bits > 32 {
		return ""
	}
	mask := ^uint32(0) << (32 - bits)
	return netip.AddrFrom4([4]byte{byte(mask >> 24), byte(mask >> 16), byte(mask >> 8), byte(mask)}).String()
}
