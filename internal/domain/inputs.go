package domain

type CreateSnapshotInput struct {
	Network Network
}
