package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/smartinv/inventory-backend/api/middleware"
	"github.com/smartinv/inventory-backend/api/responses"
	"github.com/smartinv/inventory-backend/api/validators"
	"github.com/smartinv/inventory-backend/internal/ledger"
	"github.com/smartinv/inventory-backend/pkg/enums"
	pkgerrors "github.com/smartinv/inventory-backend/pkg/errors"
	"github.com/smartinv/inventory-backend/pkg/logger"
)

type adjustStockRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Type      string `json:"type" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required"`
}

// ListTransactions returns the movement history, newest first.
func ListTransactions(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		list, err := svc.ListTransactions(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// AdjustStock records an IN/OUT movement for the authenticated actor.
func AdjustStock(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ledger service unavailable"))
			return
		}

		actorID := middleware.UserIDFromContext(r.Context())
		if actorID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		aid, err := uuid.Parse(actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		var body adjustStockRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pid, err := uuid.Parse(body.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		movement, err := enums.ParseTransactionType(strings.ToUpper(strings.TrimSpace(body.Type)))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction type"))
			return
		}

		txn, err := svc.AdjustStock(r.Context(), ledger.AdjustInput{
			ProductID: pid,
			ActorID:   aid,
			Type:      movement,
			Quantity:  body.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, txn)
	}
}
