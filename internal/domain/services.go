package domain

import "context"

type ConversionService interface {
	Convert(ctx context.Context, network Network) (Document, error)
	ListSnapshots(ctx context.Context) ([]Snapshot, error)
	CreateSnapshot(ctx context.Context, input CreateSnapshotInput) (Snapshot, error)
	GetSnapshot(ctx context.Context, id SnapshotID) (Snapshot, error)
	DeleteSnapshot(ctx context.Context, id SnapshotID) error
	ConvertSnapshot(ctx context.Context, id SnapshotID) (Document, error)
}

// Renderer turns a network into a device configuration document.
type Renderer interface {
	Render(network Network) (Document, error)
}
