package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/skuehn/lernbox/internal/api/shared"
	"github.com/skuehn/lernbox/internal/domain"
	"github.com/skuehn/lernbox/internal/platform/logger"
	"github.com/skuehn/lernbox/internal/store"
)

// ArchiveResponse describes one archived snapshot without its data payload.
type ArchiveResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	SourceLang   string    `json:"source_lang"`
	TargetLang   string    `json:"target_lang"`
	Compartments int       `json:"compartments"`
	CardCount    int       `json:"card_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SnapshotHandler handles archived snapshot listing and deletion. Creating
// and restoring archives goes through the session routes, so this handler
// talks to the store directly.
type SnapshotHandler struct {
	snapshots store.SnapshotStore
	logger    *slog.Logger
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(snapshots store.SnapshotStore, logger *slog.Logger) *SnapshotHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SnapshotHandler")
	}

	return &SnapshotHandler{
		snapshots: snapshots,
		logger:    logger.With(slog.String("component", "snapshot_handler")),
	}
}

// ListSnapshots handles GET /snapshots requests.
func (h *SnapshotHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	archives, err := h.snapshots.ListByUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list snapshots")
		return
	}

	responses := make([]ArchiveResponse, len(archives))
	for i, arch := range archives {
		responses[i] = archiveToResponse(arch)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// DeleteSnapshot handles DELETE /snapshots/{id} requests.
func (h *SnapshotHandler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, snapshotID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.snapshots.Delete(r.Context(), userID, snapshotID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("snapshot deleted", slog.String("snapshot_id", snapshotID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// archiveToResponse converts a domain.ArchivedSnapshot to an ArchiveResponse.
func archiveToResponse(arch *domain.ArchivedSnapshot) ArchiveResponse {
	return ArchiveResponse{
		ID:           arch.ID.String(),
		Name:         arch.Name,
		SourceLang:   arch.SourceLang,
		TargetLang:   arch.TargetLang,
		Compartments: arch.Compartments,
		CardCount:    arch.CardCount,
		CreatedAt:    arch.CreatedAt,
		UpdatedAt:    arch.UpdatedAt,
	}
}
