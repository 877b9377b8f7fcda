package resource

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	httperrors "github.com/placementprep/portal/pkg/http/errors"
)

// HTTPHandlers provides the public resource endpoints.
type HTTPHandlers struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for resource endpoints.
func NewHTTPHandlers(svc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{svc: svc, logger: logger}
}

// List handles GET /v1/resources
func (h *HTTPHandlers) List(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.svc.Grouped(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("resource listing failed")
		httperrors.RespondInternalError(w, "Something went wrong")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"resources_by_type": grouped}); err != nil {
		h.logger.Error().Err(err).Msg("encode response")
	}
}
