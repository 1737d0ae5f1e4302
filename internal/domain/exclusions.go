package domain

import (
	"fmt"
	"net/netip"
)

// NormalizeExclusions carves every fixed assignment address out of the
// reserved ranges so that no exclusion range covers a reserved address.
// Ranges keep their input order; a split range yields its lower half first.
func NormalizeExclusions(ranges []IPRange, fixed []FixedAssignment) ([]IPRange, error) {
	for _, r := range ranges {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}

	working := ranges
	for _, assignment := range fixed {
		next := make([]IPRange, 0, len(working)+1)
		for _, r := range working {
			carved, err := carve(r, assignment.IP)
			if err != nil {
				return nil, fmt.Errorf("carve %s out of %s: %w", assignment.IP, r, err)
			}
			next = append(next, carved...)
		}
		working = next
	}

	return working, nil
}

func carve(r IPRange, ip netip.Addr) ([]IPRange, error) {
	if !r.Contains(ip) {
		return []IPRange{r}, nil
	}

	switch {
	case r.Single():
		return nil, nil
	case ip == r.Start:
		start, err := Successor(r.Start)
		if err != nil {
			return nil, err
		}
		return []IPRange{{Start: start, End: r.End, Comment: r.Comment}}, nil
	case ip == r.End:
		end, err := Predecessor(r.End)
		if err != nil {
			return nil, err
		}
		return []IPRange{{Start: r.Start, End: end, Comment: r.Comment}}, nil
	}

	below, err := Predecessor(ip)
	if err != nil {
		return nil, err
	}
	above, err := Successor(ip)
	if err != nil {
		return nil, err
	}
	return []IPRange{
		{Start: r.Start, End: below, Comment: r.Comment},
		{Start: above, End: r.End, Comment: r.Comment},
	}, nil
}
