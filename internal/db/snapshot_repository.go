package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Flarenzy/fortimigrate/internal/domain"
)

const (
	listSnapshots = `SELECT id, payload, created_at FROM network_snapshots ORDER BY created_at DESC, id`

	getSnapshotByID = `SELECT id, payload, created_at FROM network_snapshots WHERE id = $1`

	createSnapshot = `INSERT INTO network_snapshots (id, network_id, network_name, vlan_count, payload)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, payload, created_at`

	deleteSnapshotByID = `DELETE FROM network_snapshots WHERE id = $1`
)

type SnapshotRepository struct {
	db  DBTX
	newID func() uuid.UUID
}

func NewSnapshotRepository(db DBTX) *SnapshotRepository {
	return &SnapshotRepository{db: db, newID: uuid.New}
}

func (r *SnapshotRepository) List(ctx context.Context) ([]domain.Snapshot, error) {
	rows, err := r.db.Query(ctx, listSnapshots)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Snapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *SnapshotRepository) FindByID(ctx context.Context, id domain.SnapshotID) (domain.Snapshot, error) {
	parsedID, err := parseSnapshotID(id)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: invalid snapshot id", domain.ErrInvalidInput)
	}

	snapshot, err := scanSnapshot(r.db.QueryRow(ctx, getSnapshotByID, parsedID))
	if err != nil {
		if isNoRows(err) {
			return domain.Snapshot{}, domain.ErrNotFound
		}
		return domain.Snapshot{}, err
	}

	return snapshot, nil
}

func (r *SnapshotRepository) Create(ctx context.Context, input domain.CreateSnapshotInput) (domain.Snapshot, error) {
	payload, err := json.Marshal(input.Network)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("encode network: %w", err)
	}

	id := toPgUUID(r.newID())
	row := r.db.QueryRow(ctx, createSnapshot,
		id,
		input.Network.ID,
		input.Network.Name,
		len(input.Network.VLANs),
		payload,
	)

	return scanSnapshot(row)
}

func (r *SnapshotRepository) Delete(ctx context.Context, id domain.SnapshotID) (bool, error) {
	parsedID, err := parseSnapshotID(id)
	if err != nil {
		return false, fmt.Errorf("%w: invalid snapshot id", domain.ErrInvalidInput)
	}

	tag, err := r.db.Exec(ctx, deleteSnapshotByID, parsedID)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func scanSnapshot(row pgx.Row) (domain.Snapshot, error) {
	var (
		id        pgtype.UUID
		payload   []byte
		createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &payload, &createdAt); err != nil {
		return domain.Snapshot{}, err
	}

	var network domain.Network
	if err := json.Unmarshal(payload, &network); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot payload: %w", err)
	}

	return domain.Snapshot{
		ID:        domain.SnapshotID(uuid.UUID(id.Bytes).String()),
		Network:   network,
		CreatedAt: createdAt.Time.In(time.UTC),
	}, nil
}

func parseSnapshotID(id domain.SnapshotID) (pgtype.UUID, error) {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return pgtype.UUID{}, err
	}
	return toPgUUID(u), nil
}

func toPgUUID(u uuid.UUID) pgtype.UUID {
	var parsed pgtype.UUID
	copy(parsed.Bytes[:], u[:])
	parsed.Valid = true
	return parsed
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
