package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"bharatrohan/hangar/internal/common"
	"bharatrohan/hangar/internal/constants"
	"bharatrohan/hangar/internal/logging"
	"bharatrohan/hangar/internal/middleware"
	"bharatrohan/hangar/internal/models/dtos/requests"
	"bharatrohan/hangar/internal/models/dtos/responses"
	"bharatrohan/hangar/internal/services"
)

const maxChangeEventBytes = 1 << 20

// AlertCheckHandler handles POST /api/alerts/check
//
// Called by the database on every drones row change. The shared secret is
// checked by middleware.WebhookSecret before this handler runs.
//
// @Summary Evaluate maintenance thresholds for a changed drone
// @Tags Alerts
// @Accept json
// @Produce json
// @Param secret query string false "Shared webhook secret"
// @Param body body requests.ChangeEvent true "Row change event"
// @Success 200 {object} responses.AlertCheckResult
// @Failure 400 {object} responses.AlertCheckError
// @Failure 401 {object} responses.AlertCheckError
// @Failure 500 {object} responses.AlertCheckError
// @Router /api/alerts/check [post]
func AlertCheckHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var event requests.ChangeEvent
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChangeEventBytes)).Decode(&event); err != nil {
			common.WriteJSON(w, http.StatusBadRequest, responses.AlertCheckError{Error: constants.MsgInvalidJSON})
			return
		}

		result, err := deps.Services.Maintenance.HandleChange(r.Context(), &event)
		if err != nil {
			handleAlertCheckError(w, r, err)
			return
		}

		common.WriteJSON(w, http.StatusOK, result)
	}
}

func handleAlertCheckError(w http.ResponseWriter, r *http.Request, err error) {
	var checkErr *services.AlertCheckError
	if errors.As(err, &checkErr) && checkErr.Kind == services.AlertErrValidation {
		common.WriteJSON(w, http.StatusBadRequest, responses.AlertCheckError{Error: checkErr.Message})
		return
	}

	message := constants.MsgInternalError
	if checkErr != nil {
		message = checkErr.Message
	}

	logging.Error("Maintenance check failed",
		"request_id", middleware.GetRequestID(r.Context()),
		"error", err.Error(),
	)
	common.WriteJSON(w, http.StatusInternalServerError, responses.AlertCheckError{Error: message})
}
