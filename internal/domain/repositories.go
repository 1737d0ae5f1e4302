package domain

import "context"

type SnapshotRepository interface {
	List(ctx context.Context) ([]Snapshot, error)
	FindByID(ctx context.Context, id SnapshotID) (Snapshot, error)
	Create(ctx context.Context, input CreateSnapshotInput) (Snapshot, error)
	Delete(ctx context.Context, id SnapshotID) (bool, error)
}
