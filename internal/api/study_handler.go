package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/skuehn/lernbox/internal/api/shared"
	"github.com/skuehn/lernbox/internal/domain"
	"github.com/skuehn/lernbox/internal/notice"
	"github.com/skuehn/lernbox/internal/platform/logger"
	"github.com/skuehn/lernbox/internal/redact"
	"github.com/skuehn/lernbox/internal/service"
)

// CardPayload is one vocabulary/definition pair in a request body.
type CardPayload struct {
	Vocabulary string `json:"vocabulary" validate:"required,min=1"`
	Definition string `json:"definition" validate:"required,min=1"`
}

// CreateSessionRequest builds a session from inline cards, a named archive,
// or nothing. With from_archive set the archive's language tags win and
// compartments acts as the decode override.
type CreateSessionRequest struct {
	SourceLang   string        `json:"source_lang"   validate:"required_without=FromArchive,omitempty,min=1,max=64"`
	TargetLang   string        `json:"target_lang"   validate:"required_without=FromArchive,omitempty,min=1,max=64"`
	Compartments int           `json:"compartments"  validate:"omitempty,gte=1,lte=16"`
	Weights      []float64     `json:"weights"       validate:"omitempty,min=1,dive,gte=0"`
	Cards        []CardPayload `json:"cards"         validate:"omitempty,dive"`
	FromArchive  string        `json:"from_archive"  validate:"omitempty,min=1,max=120"`
}

// SessionResponse describes one live study session.
type SessionResponse struct {
	ID           string    `json:"id"`
	SourceLang   string    `json:"source_lang"`
	TargetLang   string    `json:"target_lang"`
	Compartments int       `json:"compartments"`
	Cards        int       `json:"cards"`
	TierSizes    []int     `json:"tier_sizes"`
	CreatedAt    time.Time `json:"created_at"`
	LastUsedAt   time.Time `json:"last_used_at"`
}

// CompartmentsResponse lists every tier's cards in tier order.
type CompartmentsResponse struct {
	Compartments [][]domain.FlashCard `json:"compartments"`
}

// DrawResponse carries a drawn card and the draw ID the answer must quote.
type DrawResponse struct {
	DrawID string           `json:"draw_id"`
	Card   domain.FlashCard `json:"card"`
}

// AnswerRequest grades an earlier draw. Correct is a pointer so that an
// explicit false survives the required check.
type AnswerRequest struct {
	DrawID  uuid.UUID `json:"draw_id" validate:"required"`
	Correct *bool     `json:"correct" validate:"required"`
}

// AnswerResponse reports where the card ended up. Applied is false when the
// draw ID was unknown or already answered; nothing moved in that case.
type AnswerResponse struct {
	Card    domain.FlashCard `json:"card"`
	Tier    int              `json:"tier"`
	Applied bool             `json:"applied"`
}

// UpdateSettingsRequest names per-session settings to change. All of them
// are fixed after construction, so each named field comes back as a
// rejection notice.
type UpdateSettingsRequest struct {
	SourceLang  *string   `json:"source_lang"`
	TargetLang  *string   `json:"target_lang"`
	TierWeights []float64 `json:"tier_weights"`
}

// NoticesResponse wraps the notices an operation produced.
type NoticesResponse struct {
	Notices []notice.Notice `json:"notices"`
}

// SaveSnapshotRequest names the archive to write. Saving over an existing
// name replaces its contents.
type SaveSnapshotRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// LoadSnapshotRequest names the archive to restore into the session.
type LoadSnapshotRequest struct {
	Name         string `json:"name"         validate:"required,min=1,max=120"`
	Compartments int    `json:"compartments" validate:"omitempty,gte=1,lte=16"`
}

// StudyHandler handles the session lifecycle and study-loop HTTP requests.
type StudyHandler struct {
	studyService *service.StudyService
	logger       *slog.Logger
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(studyService *service.StudyService, logger *slog.Logger) *StudyHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StudyHandler")
	}

	return &StudyHandler{
		studyService: studyService,
		logger:       logger.With(slog.String("component", "study_handler")),
	}
}

// CreateSession handles POST /sessions requests.
func (h *StudyHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	cards := make([]domain.FlashCard, len(req.Cards))
	for i, c := range req.Cards {
		cards[i] = domain.FlashCard{Vocabulary: c.Vocabulary, Definition: c.Definition}
	}

	info, err := h.studyService.CreateSession(r.Context(), userID, service.CreateSessionParams{
		SourceLang:   req.SourceLang,
		TargetLang:   req.TargetLang,
		Compartments: req.Compartments,
		Weights:      req.Weights,
		Cards:        cards,
		ArchiveName:  req.FromArchive,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("session created",
		slog.String("session_id", info.ID.String()),
		slog.Int("cards", info.Cards))
	shared.RespondWithJSON(w, r, http.StatusCreated, sessionToResponse(info))
}

// ListSessions handles GET /sessions requests.
func (h *StudyHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	infos := h.studyService.ListSessions(r.Context(), userID)

	responses := make([]SessionResponse, len(infos))
	for i, info := range infos {
		responses[i] = sessionToResponse(info)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// GetSession handles GET /sessions/{id} requests.
func (h *StudyHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	info, err := h.studyService.GetSession(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(info))
}

// GetCompartments handles GET /sessions/{id}/compartments requests.
func (h *StudyHandler) GetCompartments(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	comps, err := h.studyService.Compartments(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	// Empty tiers serialize as [] rather than null.
	for i := range comps {
		if comps[i] == nil {
			comps[i] = []domain.FlashCard{}
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CompartmentsResponse{Compartments: comps})
}

// Draw handles POST /sessions/{id}/draw requests.
func (h *StudyHandler) Draw(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	result, err := h.studyService.Draw(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("card drawn",
		slog.String("session_id", sessionID.String()),
		slog.String("draw_id", result.DrawID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, DrawResponse{
		DrawID: result.DrawID.String(),
		Card:   result.Card,
	})
}

// Answer handles POST /sessions/{id}/answer requests.
func (h *StudyHandler) Answer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req AnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	result, err := h.studyService.Answer(r.Context(), userID, sessionID, req.DrawID, *req.Correct)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AnswerResponse{
		Card:    result.Card,
		Tier:    result.Tier,
		Applied: result.Applied,
	})
}

// UpdateSettings handles PATCH /sessions/{id}/settings requests.
func (h *StudyHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateSettingsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	notices, err := h.studyService.UpdateSettings(r.Context(), userID, sessionID, service.SettingsPatch{
		SourceLang:  req.SourceLang,
		TargetLang:  req.TargetLang,
		TierWeights: req.TierWeights,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if notices == nil {
		notices = []notice.Notice{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NoticesResponse{Notices: notices})
}

// SaveSnapshot handles POST /sessions/{id}/save requests.
func (h *StudyHandler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req SaveSnapshotRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	saved, err := h.studyService.SaveSnapshot(r.Context(), userID, sessionID, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, archiveToResponse(saved))
}

// LoadSnapshot handles POST /sessions/{id}/load requests. A successful load
// replaces the session's whole box state.
func (h *StudyHandler) LoadSnapshot(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req LoadSnapshotRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	notices, err := h.studyService.LoadSnapshot(r.Context(), userID, sessionID, req.Name, req.Compartments)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if notices == nil {
		notices = []notice.Notice{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NoticesResponse{Notices: notices})
}

// Export handles GET /sessions/{id}/export requests, streaming the session
// state in the same tabular format the archive stores.
func (h *StudyHandler) Export(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	data, err := h.studyService.Export(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	filename := "lernbox-" + sessionID.String() + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Error("failed to write export body",
			slog.String("session_id", sessionID.String()),
			slog.String("error", redact.Error(err)))
	}
}

// EndSession handles DELETE /sessions/{id} requests.
func (h *StudyHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.studyService.EndSession(r.Context(), userID, sessionID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("session ended", slog.String("session_id", sessionID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// sessionToResponse converts a service.SessionInfo to a SessionResponse.
func sessionToResponse(info service.SessionInfo) SessionResponse {
	return SessionResponse{
		ID:           info.ID.String(),
		SourceLang:   info.SourceLang,
		TargetLang:   info.TargetLang,
		Compartments: info.Compartments,
		Cards:        info.Cards,
		TierSizes:    info.TierSizes,
		CreatedAt:    info.CreatedAt,
		LastUsedAt:   info.LastUsedAt,
	}
}
