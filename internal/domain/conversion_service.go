package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type conversionService struct {
	snapshots SnapshotRepository
	renderer  Renderer
}

func NewConversionService(snapshots SnapshotRepository, renderer Renderer) ConversionService {
	return &conversionService{
		snapshots: snapshots,
		renderer:  renderer,
	}
}

func (s *conversionService) Convert(_ context.Context, network Network) (Document, error) {
	if err := validateNetwork(network); err != nil {
		return Document{}, err
	}
	return s.renderer.Render(network)
}

func (s *conversionService) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	return s.snapshots.List(ctx)
}

func (s *conversionService) CreateSnapshot(ctx context.Context, input CreateSnapshotInput) (Snapshot, error) {
	if err := validateNetwork(input.Network); err != nil {
		return Snapshot{}, err
	}
	return s.snapshots.Create(ctx, input)
}

func (s *conversionService) GetSnapshot(ctx context.Context, id SnapshotID) (Snapshot, error) {
	if err := validateSnapshotID(id); err != nil {
		return Snapshot{}, err
	}
	return s.snapshots.FindByID(ctx, id)
}

func (s *conversionService) DeleteSnapshot(ctx context.Context, id SnapshotID) error {
	if err := validateSnapshotID(id); err != nil {
		return err
	}
	deleted, err := s.snapshots.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *conversionService) ConvertSnapshot(ctx context.Context, id SnapshotID) (Document, error) {
	snapshot, err := s.GetSnapshot(ctx, id)
	if err != nil {
		return Document{}, err
	}
	return s.renderer.Render(snapshot.Network)
}

func validateSnapshotID(id SnapshotID) error {
	if _, err := uuid.Parse(string(id)); err != nil {
		return fmt.Errorf("%w: invalid snapshot id", ErrInvalidInput)
	}
	return nil
}

func validateNetwork(network Network) error {
	if network.Name == "" {
		return fmt.Errorf("%w: network name is required", ErrInvalidInput)
	}

	seen := make(map[int]struct{}, len(network.VLANs))
	for _, vlan := range network.VLANs {
		if _, ok := seen[vlan.ID]; ok {
			return fmt.Errorf("%w: duplicate vlan id %d", ErrInvalidInput, vlan.ID)
		}
		seen[vlan.ID] = struct{}{}

		if vlan.ID < 1 || vlan.ID > 4094 {
			return fmt.Errorf("%w: vlan id %d out of range", ErrInvalidInput, vlan.ID)
		}
		if !vlan.Subnet.IsValid() || !vlan.Subnet.Addr().Is4() {
			return fmt.Errorf("%w: vlan %d has no ipv4 subnet", ErrInvalidInput, vlan.ID)
		}
		if !vlan.Subnet.Contains(vlan.ApplianceIP) {
			return fmt.Errorf("%w: vlan %d appliance ip %s not in %s", ErrInvalidInput, vlan.ID, vlan.ApplianceIP, vlan.Subnet)
		}
		switch vlan.DHCPHandling {
		case DHCPRun, DHCPRelay, DHCPOff:
		default:
			return fmt.Errorf("%w: vlan %d has unknown dhcp handling %q", ErrInvalidInput, vlan.ID, vlan.DHCPHandling)
		}
		if err := validateFixedAssignments(vlan); err != nil {
			return err
		}
	}
	return nil
}

// validateFixedAssignments rejects a MAC reserved twice in one VLAN. MACs
// compare case-insensitively.
func validateFixedAssignments(vlan VLAN) error {
	macs := make(map[string]struct{}, len(vlan.FixedAssignments))
	for _, f := range vlan.FixedAssignments {
		mac := strings.ToLower(f.MAC)
		if _, ok := macs[mac]; ok {
			return fmt.Errorf("%w: vlan %d has duplicate fixed assignment for mac %s", ErrInvalidInput, vlan.ID, mac)
		}
		macs[mac] = struct{}{}
	}
	return nil
}
