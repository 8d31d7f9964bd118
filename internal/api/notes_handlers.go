package api

import (
	"net/http"
	"time"

	"bharatrohan/hangar/internal/common"
	"bharatrohan/hangar/internal/constants"
	"bharatrohan/hangar/internal/models/dtos/requests"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
	"github.com/go-chi/chi/v5"
)

var createNoteSchema = z.Struct(z.Shape{
	"Note": z.String().Trim().Min(1).Required(),
})

// ListNotesHandler handles GET /api/v1/drones/{id}/notes
func ListNotesHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		notes, err := deps.Services.Notes.List(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleFleetError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Notes fetched successfully", notes)
	}
}

// CreateNoteHandler handles POST /api/v1/drones/{id}/notes
//
// @Summary Log a maintenance note
// @Tags Notes
// @Accept json
// @Produce json
// @Param id path string true "Drone ID"
// @Param body body requests.CreateMaintenanceNoteReq true "Note text"
// @Success 201 {object} dtos.APIResponse
// @Failure 400 {object} dtos.APIResponse
// @Failure 404 {object} dtos.APIResponse
// @Router /api/v1/drones/{id}/notes [post]
func CreateNoteHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req requests.CreateMaintenanceNoteReq
		if issues := createNoteSchema.Parse(zhttp.Request(r), &req); len(issues) > 0 {
			common.RespondError(w, initTime, nil, constants.MsgInvalidNote, http.StatusBadRequest)
			return
		}

		note, err := deps.Services.Notes.Add(r.Context(), chi.URLParam(r, "id"), req.Note)
		if err != nil {
			handleFleetError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Note added", note, http.StatusCreated)
	}
}

// DeleteNoteHandler handles DELETE /api/v1/notes/{id}
func DeleteNoteHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if err := deps.Services.Notes.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			handleFleetError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Note deleted", nil)
	}
}
