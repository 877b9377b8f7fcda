package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/placementprep/portal/internal/auth"
	httperrors "github.com/placementprep/portal/pkg/http/errors"
)

// Handlers exposes the student dashboard over HTTP.
type HTTPHandlers struct {
	svc    *Service
	logger zerolog.Logger
}

func NewHTTPHandlers(svc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{svc: svc, logger: logger}
}

// Dashboard handles GET /v1/dashboard.
func (h *HTTPHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
		return
	}

	stats, err := h.svc.ForUser(r.Context(), claims.UserID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to build dashboard")
		httperrors.RespondInternalError(w, "Failed to load dashboard")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(stats)
}
