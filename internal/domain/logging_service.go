package domain

import (
	"context"
	"log/slog"
)

type loggingConversionService struct {
	logger *slog.Logger
	next   ConversionService
}

func NewLoggingConversionService(logger *slog.Logger, next ConversionService) ConversionService {
	if logger == nil || next == nil {
		return next
	}

	return &loggingConversionService{
		logger: logger,
		next:   next,
	}
}

func (s *loggingConversionService) Convert(ctx context.Context, network Network) (Document, error) {
	doc, err := s.next.Convert(ctx, network)
	if err != nil {
		s.logger.ErrorContext(ctx, "convert network failed", "network", network.Name, "err", err.Error())
		return Document{}, err
	}

	s.logger.InfoContext(ctx, "network converted", "network", network.Name, "vlans", len(network.VLANs), "lines", len(doc.Lines))
	return doc, nil
}

func (s *loggingConversionService) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	snapshots, err := s.next.ListSnapshots(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "list snapshots failed", "err", err.Error())
	}
	return snapshots, err
}

func (s *loggingConversionService) CreateSnapshot(ctx context.Context, input CreateSnapshotInput) (Snapshot, error) {
	snapshot, err := s.next.CreateSnapshot(ctx, input)
	if err != nil {
		s.logger.ErrorContext(ctx, "create snapshot failed", "network", input.Network.Name, "err", err.Error())
		return Snapshot{}, err
	}

	s.logger.InfoContext(ctx, "snapshot created", "snapshot_id", string(snapshot.ID), "network", snapshot.Network.Name)
	return snapshot, nil
}

func (s *loggingConversionService) GetSnapshot(ctx context.Context, id SnapshotID) (Snapshot, error) {
	snapshot, err := s.next.GetSnapshot(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "get snapshot failed", "snapshot_id", string(id), "err", err.Error())
	}
	return snapshot, err
}

func (s *loggingConversionService) DeleteSnapshot(ctx context.Context, id SnapshotID) error {
	err := s.next.DeleteSnapshot(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "delete snapshot failed", "snapshot_id", string(id), "err", err.Error())
		return err
	}

	s.logger.InfoContext(ctx, "snapshot deleted", "snapshot_id", string(id))
	return nil
}

func (s *loggingConversionService) ConvertSnapshot(ctx context.Context, id SnapshotID) (Document, error) {
	doc, err := s.next.ConvertSnapshot(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "convert snapshot failed", "snapshot_id", string(id), "err", err.Error())
		return Document{}, err
	}

	s.logger.DebugContext(ctx, "snapshot converted", "snapshot_id", string(id), "lines", len(doc.Lines))
	return doc, nil
}
