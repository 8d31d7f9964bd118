package api

import (
	"net/http"
	"time"

	"bharatrohan/hangar/internal/common"

	"github.com/go-chi/chi/v5"
)

// ListAlertsHandler handles GET /api/v1/alerts
//
// @Summary Open maintenance alerts
// @Description One entry per drone with its alert count and latest hours.
// @Tags Alerts
// @Produce json
// @Success 200 {object} dtos.APIResponse
// @Router /api/v1/alerts [get]
func ListAlertsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		groups, err := deps.Services.AlertQuery.ListGrouped(r.Context())
		if err != nil {
			handleFleetError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Alerts fetched successfully", groups)
	}
}

// DeleteAlertHandler handles DELETE /api/v1/alerts/{id}
//
// @Summary Acknowledge a maintenance alert
// @Tags Alerts
// @Param id path string true "Alert ID"
// @Success 200 {object} dtos.APIResponse
// @Failure 404 {object} dtos.APIResponse
// @Router /api/v1/alerts/{id} [delete]
func DeleteAlertHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if err := deps.Services.AlertQuery.Acknowledge(r.Context(), chi.URLParam(r, "id")); err != nil {
			handleFleetError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Alert acknowledged", nil)
	}
}
