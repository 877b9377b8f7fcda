package quiz

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/placementprep/portal/internal/auth"
	"github.com/placementprep/portal/internal/db/repository"
	httperrors "github.com/placementprep/portal/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for the quiz workflow.
type HTTPHandlers struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for quiz endpoints.
func NewHTTPHandlers(svc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{svc: svc, logger: logger}
}

// ListCategories handles GET /v1/quiz/categories
func (h *HTTPHandlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	list, err := h.svc.ListCategories(r.Context(), claims.UserID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, list)
}

// CategoryDetail handles GET /v1/quiz/categories/{id}
func (h *HTTPHandlers) CategoryDetail(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	categoryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid category id")
		return
	}

	detail, err := h.svc.CategoryDetail(r.Context(), claims.UserID, categoryID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, detail)
}

// Start handles POST /v1/quiz/start/{category_id}
func (h *HTTPHandlers) Start(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	categoryID, err := uuid.Parse(r.PathValue("category_id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid category id")
		return
	}

	started, err := h.svc.Start(r.Context(), claims.UserID, categoryID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, started)
}

// Question handles GET /v1/quiz/question/{n}
func (h *HTTPHandlers) Question(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	position, err := strconv.Atoi(r.PathValue("n"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid question position")
		return
	}

	page, err := h.svc.GetQuestion(r.Context(), claims.UserID, position)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, page)
}

// Submit handles POST /v1/quiz/submit
func (h *HTTPHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	var req struct {
		Answers map[string]string `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}

	// Unparseable question IDs are dropped; the matching question simply
	// counts as unanswered.
	answers := make(map[uuid.UUID]string, len(req.Answers))
	for key, letter := range req.Answers {
		qid, err := uuid.Parse(key)
		if err != nil {
			continue
		}
		answers[qid] = letter
	}

	outcome, err := h.svc.Submit(r.Context(), claims.UserID, answers)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, outcome)
}

// Result handles GET /v1/quiz/results/{id}
func (h *HTTPHandlers) Result(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	resultID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid result id")
		return
	}

	review, err := h.svc.GetResult(r.Context(), claims.UserID, resultID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, review)
}

// History handles GET /v1/quiz/history
func (h *HTTPHandlers) History(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	entries, err := h.svc.History(r.Context(), claims.UserID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"results": entries})
}

func (h *HTTPHandlers) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "Not found")
	case errors.Is(err, ErrEmptyCategory):
		httperrors.RespondConflict(w, httperrors.ErrCodeEmptyCategory, "No questions available in this category")
	case errors.Is(err, ErrNoActiveAttempt):
		httperrors.RespondConflict(w, httperrors.ErrCodeNoActiveAttempt, "No quiz in progress")
	case errors.Is(err, ErrInvalidPosition):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidPosition, "Invalid question number")
	case errors.Is(err, ErrResultForbidden):
		httperrors.RespondForbidden(w, httperrors.ErrCodeForbidden, "Result belongs to another user")
	default:
		h.logger.Error().Err(err).Msg("quiz request failed")
		httperrors.RespondInternalError(w, "Something went wrong")
	}
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("encode response")
	}
}
