package api

import (
	"net/http"
	"time"

	"bharatrohan/hangar/internal/common"

	"github.com/go-chi/chi/v5"
)

// ListDronesHandler handles GET /api/v1/drones
//
// @Summary List drones
// @Description All registered drones, most recently seen first, with log counts.
// @Tags Fleet
// @Produce json
// @Success 200 {object} dtos.APIResponse
// @Router /api/v1/drones [get]
func ListDronesHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		drones, err := deps.Services.Fleet.ListDrones(r.Context())
		if err != nil {
			handleFleetError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Drones fetched successfully", drones)
	}
}

// GetDroneHandler handles GET /api/v1/drones/{id}
//
// @Summary Drone detail
// @Tags Fleet
// @Produce json
// @Param id path string true "Drone ID"
// @Success 200 {object} dtos.APIResponse
// @Failure 404 {object} dtos.APIResponse
// @Router /api/v1/drones/{id} [get]
func GetDroneHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		detail, err := deps.Services.Fleet.GetDroneDetail(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleFleetError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Drone fetched successfully", detail)
	}
}

// ListModelsHandler handles GET /api/v1/models
func ListModelsHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		summaries, err := deps.Services.Fleet.ModelSummaries(r.Context())
		if err != nil {
			handleFleetError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Models fetched successfully", summaries)
	}
}

// ListModelDronesHandler handles GET /api/v1/models/{model}/drones
func ListModelDronesHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		drones, err := deps.Services.Fleet.ListModelDrones(r.Context(), chi.URLParam(r, "model"))
		if err != nil {
			handleFleetError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Model drones fetched successfully", drones)
	}
}

// GetModelDroneHandler handles GET /api/v1/models/{model}/drones/{serial}
func GetModelDroneHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		detail, err := deps.Services.Fleet.GetDroneDetailBySerial(r.Context(), chi.URLParam(r, "model"), chi.URLParam(r, "serial"))
		if err != nil {
			handleFleetError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Drone fetched successfully", detail)
	}
}
