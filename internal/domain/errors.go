package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	ErrRangeExhausted     = errors.New("address range exhausted")
	ErrUnknownDHCPOption  = errors.New("undefined dhcp option code")
	ErrUnknownLeaseTime   = errors.New("lease time has not been defined")
	ErrInvalidDomainName  = errors.New("invalid domain name")
	ErrMalformedHexOption = errors.New("malformed hex option")
	ErrTooManyExclusions  = errors.New("exceeds maximum allowed exclusion ranges")
	ErrVLANsDisabled      = errors.New("vlans are not enabled")
)

// VLANError reports which VLAN aborted a conversion.
type VLANError struct {
	VLANID int
	Name   string
	Err    error
}

func (e *VLANError) Error() string {
	return fmt.Sprintf("vlan %d (%s): %v", e.VLANID, e.Name, e.Err)
}

func (e *VLANError) Unwrap() error {
	return e.Err
}
