package http

import (
	"time"

	"github.com/Flarenzy/fortimigrate/internal/domain"
	"github.com/Flarenzy/fortimigrate/internal/meraki"
)

// NetworkRequest identifies the Dashboard network a payload came from.
type NetworkRequest struct {
	ID   string `json:"id" example:"L_646829496481105433"`
	Name string `json:"name" example:"Branch 12" validate:"required"`
}

// ConversionRequest is a Dashboard network export, in the same shape the
// CLI reads from snapshot files.
type ConversionRequest struct {
	Network NetworkRequest `json:"network" validate:"required"`
	VLANs   []meraki.VLAN  `json:"vlans" validate:"required,min=1,dive"`
}

// SnapshotResponse describes a stored network snapshot. Network is only
// populated when a single snapshot is requested.
type SnapshotResponse struct {
	ID          string                `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	NetworkID   string                `json:"network_id" example:"L_646829496481105433"`
	NetworkName string                `json:"network_name" example:"Branch 12"`
	VLANCount   int                   `json:"vlan_count" example:"4"`
	CreatedAt   time.Time             `json:"created_at" example:"2024-05-10T15:04:05Z"`
	Network     *meraki.NetworkExport `json:"network,omitempty"`
}

// ErrorResponse is a simple envelope for error messages.
type ErrorResponse struct {
	Error string `json:"error" example:"snapshot not found"`
}

func (r ConversionRequest) toDomain() (domain.Network, error) {
	return meraki.ToDomain(meraki.NetworkExport{
		Network: meraki.Network{ID: r.Network.ID, Name: r.Network.Name},
		VLANs:   r.VLANs,
	})
}

func snapshotToResponse(s domain.Snapshot) SnapshotResponse {
	return SnapshotResponse{
		ID:          string(s.ID),
		NetworkID:   s.Network.ID,
		NetworkName: s.Network.Name,
		VLANCount:   len(s.Network.VLANs),
		CreatedAt:   s.CreatedAt,
	}
}

func snapshotToDetailResponse(s domain.Snapshot) SnapshotResponse {
	resp := snapshotToResponse(s)
	export := meraki.FromDomain(s.Network)
	resp.Network = &export
	return resp
}

func snapshotsToResponse(snapshots []domain.Snapshot) []SnapshotResponse {
	out := make([]SnapshotResponse, 0, len(snapshots))
	for _, s := range snapshots {
		out = append(out, snapshotToResponse(s))
	}
	return out
}
