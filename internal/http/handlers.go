package http

import (
	"fmt"
	"net/http"

	"github.com/Flarenzy/fortimigrate/internal/auth"
	"github.com/Flarenzy/fortimigrate/internal/domain"
	"github.com/Flarenzy/fortimigrate/internal/inventory"
)

const snapshotNotFound = "snapshot not found"

// @Summary Health check
// @Tags health
// @Success 200 {string} string "ok"
// @Router /healthz [get]
func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// @Summary Readiness check
// @Tags health
// @Success 200 {string} string "ready"
// @Failure 503 {string} string "db unavailable"
// @Router /readyz [get]
func (a *API) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := a.Health.Ping(ctx); err != nil {
		a.Logger.ErrorContext(ctx, "db ping failed", "err", err)
		http.Error(w, "db unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// @Summary Convert a network
// @Description Renders the FortiOS configuration for an inline Dashboard network export without storing it.
// @Tags conversions
// @Accept json
// @Produce plain
// @Param network body ConversionRequest true "Network export"
// @Success 200 {string} string "FortiOS configuration"
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/conversions [post]
func (a *API) handleConvert(w http.ResponseWriter, r *http.Request) {
	network, ok := a.decodeNetwork(w, r)
	if !ok {
		return
	}

	doc, err := a.Service.Convert(r.Context(), network)
	if err != nil {
		a.respondError(w, r, err, "")
		return
	}
	a.writeDocument(w, r, doc)
}

// @Summary List snapshots
// @Tags snapshots
// @Produce json
// @Success 200 {array} SnapshotResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/snapshots [get]
func (a *API) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := a.Service.ListSnapshots(r.Context())
	if err != nil {
		a.respondError(w, r, err, "")
		return
	}
	a.respond(w, r, http.StatusOK, snapshotsToResponse(snapshots))
}

// @Summary Create snapshot
// @Tags snapshots
// @Accept json
// @Produce json
// @Param network body ConversionRequest true "Network export"
// @Success 201 {object} SnapshotResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/snapshots [post]
func (a *API) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	network, ok := a.decodeNetwork(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	snapshot, err := a.Service.CreateSnapshot(ctx, domain.CreateSnapshotInput{Network: network})
	if err != nil {
		a.respondError(w, r, err, "")
		return
	}
	a.Logger.InfoContext(ctx, "snapshot stored", "snapshot_id", snapshot.ID, "network", network.Name, "user", auth.Username(ctx))
	a.respond(w, r, http.StatusCreated, snapshotToResponse(snapshot))
}

// @Summary Get snapshot by ID
// @Tags snapshots
// @Produce json
// @Param id path string true "Snapshot ID"
// @Success 200 {object} SnapshotResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/snapshots/{id} [get]
func (a *API) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := a.Service.GetSnapshot(r.Context(), snapshotID(r))
	if err != nil {
		a.respondError(w, r, err, snapshotNotFound)
		return
	}
	a.respond(w, r, http.StatusOK, snapshotToDetailResponse(snapshot))
}

// @Summary Delete snapshot
// @Tags snapshots
// @Param id path string true "Snapshot ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/snapshots/{id} [delete]
func (a *API) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := a.Service.DeleteSnapshot(r.Context(), snapshotID(r)); err != nil {
		a.respondError(w, r, err, snapshotNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary Render snapshot configuration
// @Tags snapshots
// @Produce plain
// @Param id path string true "Snapshot ID"
// @Success 200 {string} string "FortiOS configuration"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/snapshots/{id}/config [get]
func (a *API) handleSnapshotConfig(w http.ResponseWriter, r *http.Request) {
	doc, err := a.Service.ConvertSnapshot(r.Context(), snapshotID(r))
	if err != nil {
		a.respondError(w, r, err, snapshotNotFound)
		return
	}
	a.writeDocument(w, r, doc)
}

// @Summary Download snapshot inventory
// @Description Spreadsheet with one sheet of VLANs and one of fixed assignments.
// @Tags snapshots
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Snapshot ID"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/snapshots/{id}/inventory [get]
func (a *API) handleSnapshotInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := snapshotID(r)
	snapshot, err := a.Service.GetSnapshot(ctx, id)
	if err != nil {
		a.respondError(w, r, err, snapshotNotFound)
		return
	}

	buf, err := inventory.Workbook(snapshot.Network)
	if err != nil {
		a.respondError(w, r, err, snapshotNotFound)
		return
	}

	w.Header().Set("Content-Type", inventory.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(id)+".xlsx"))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		a.Logger.ErrorContext(ctx, "writing inventory", "snapshot_id", id, "err", err.Error())
	}
}

func snapshotID(r *http.Request) domain.SnapshotID {
	return domain.SnapshotID(r.PathValue("id"))
}

// decodeNetwork reads and validates a ConversionRequest, answering the
// client itself when the body is unusable.
func (a *API) decodeNetwork(w http.ResponseWriter, r *http.Request) (domain.Network, bool) {
	ctx := r.Context()
	defer r.Body.Close()

	req, err := decode[ConversionRequest](r)
	if err != nil {
		a.Logger.DebugContext(ctx, "unmarshaling network from request", "err", err.Error())
		a.respond(w, r, http.StatusBadRequest, ErrorResponse{Error: "bad request"})
		return domain.Network{}, false
	}
	if err := a.validate.Struct(req); err != nil {
		a.Logger.DebugContext(ctx, "network request failed validation", "err", err.Error())
		a.respond(w, r, http.StatusBadRequest, ErrorResponse{Error: validationMessage(err)})
		return domain.Network{}, false
	}

	network, err := req.toDomain()
	if err != nil {
		a.Logger.DebugContext(ctx, "mapping network from request", "err", err.Error())
		a.respondError(w, r, err, "")
		return domain.Network{}, false
	}
	return network, true
}

func (a *API) writeDocument(w http.ResponseWriter, r *http.Request, doc domain.Document) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(doc.String())); err != nil {
		a.Logger.ErrorContext(r.Context(), "writing configuration", "err", err.Error())
	}
}
