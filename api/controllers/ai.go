package controllers

import (
	"net/http"

	"github.com/smartinv/inventory-backend/api/responses"
	"github.com/smartinv/inventory-backend/api/validators"
	aisvc "github.com/smartinv/inventory-backend/internal/ai"
	pkgerrors "github.com/smartinv/inventory-backend/pkg/errors"
	"github.com/smartinv/inventory-backend/pkg/logger"
)

type insightsRequest struct {
	InventorySummary []map[string]any `json:"inventorySummary" validate:"required"`
}

type insightsResponse struct {
	Text string `json:"text"`
}

// GenerateInsights forwards an inventory summary to the analysis model.
func GenerateInsights(svc aisvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "ai insights are not configured"))
			return
		}

		var body insightsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		text, err := svc.Insights(r.Context(), body.InventorySummary)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, insightsResponse{Text: text})
	}
}
