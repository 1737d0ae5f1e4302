package domain

import "fmt"

var leaseSeconds = map[string]int{
	"30 minutes": 1800,
	"1 hour":     3600,
	"4 hours":    14400,
	"12 hours":   43200,
	"1 day":      86400,
	"1 week":     604800,
}

// LeaseSeconds maps a Meraki lease literal to seconds.
func LeaseSeconds(literal string) (int, error) {
	seconds, ok := leaseSeconds[literal]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLeaseTime, literal)
	}
	return seconds, nil
}
