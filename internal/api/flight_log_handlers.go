package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bharatrohan/hangar/internal/common"
	"bharatrohan/hangar/internal/constants"
	"bharatrohan/hangar/internal/logging"
	"bharatrohan/hangar/internal/models/dtos/requests"

	"github.com/go-chi/chi/v5"
)

const (
	maxUploadBytes    = 256 << 20
	multipartMemLimit = 32 << 20
)

// UploadFlightLogHandler handles POST /api/v1/logs
//
// @Summary Upload a flight log
// @Description Multipart form with serial_num, file and optional precomputed statistics.
// @Tags Logs
// @Accept multipart/form-data
// @Produce json
// @Param serial_num formData string true "Drone serial number"
// @Param file formData file true "Log file"
// @Param flight_time_seconds formData number false "Flight duration"
// @Param flight_distance_meters formData number false "Distance flown"
// @Param last_lat formData number false "Last latitude"
// @Param last_lon formData number false "Last longitude"
// @Param firmware_version formData string false "Autopilot firmware"
// @Param log_date formData string false "RFC3339 or YYYY-MM-DD"
// @Success 201 {object} dtos.APIResponse
// @Failure 400 {object} dtos.APIResponse
// @Failure 413 {object} dtos.APIResponse
// @Failure 429 {object} dtos.APIResponse
// @Router /api/v1/logs [post]
func UploadFlightLogHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(multipartMemLimit); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				common.RespondError(w, initTime, nil, constants.MsgUploadTooLarge, http.StatusRequestEntityTooLarge)
				return
			}
			common.RespondError(w, initTime, nil, constants.MsgInvalidUpload, http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			common.RespondError(w, initTime, nil, constants.MsgInvalidUpload+": file is required", http.StatusBadRequest)
			return
		}
		defer file.Close()

		req, err := parseUploadForm(r)
		if err != nil {
			common.RespondError(w, initTime, nil, constants.MsgInvalidUpload+": "+err.Error(), http.StatusBadRequest)
			return
		}
		req.FileName = header.Filename
		req.FileSizeBytes = header.Size

		result, err := deps.Services.FlightLogs.Upload(r.Context(), req, file)
		if err != nil {
			handleFleetError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Flight log uploaded", result, http.StatusCreated)
	}
}

func parseUploadForm(r *http.Request) (*requests.FlightLogUpload, error) {
	req := &requests.FlightLogUpload{SerialNum: r.FormValue("serial_num")}

	var err error
	if req.FlightTimeSeconds, err = optionalFloat(r, "flight_time_seconds"); err != nil {
		return nil, err
	}
	if req.FlightDistanceMeters, err = optionalFloat(r, "flight_distance_meters"); err != nil {
		return nil, err
	}
	if req.LastLat, err = optionalFloat(r, "last_lat"); err != nil {
		return nil, err
	}
	if req.LastLon, err = optionalFloat(r, "last_lon"); err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(r.FormValue("firmware_version")); v != "" {
		req.FirmwareVersion = &v
	}

	if v := strings.TrimSpace(r.FormValue("log_date")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			if t, err = time.Parse("2006-01-02", v); err != nil {
				return nil, fmt.Errorf("log_date must be RFC3339 or YYYY-MM-DD")
			}
		}
		req.LogDate = &t
	}

	return req, nil
}

func optionalFloat(r *http.Request, field string) (*float64, error) {
	v := strings.TrimSpace(r.FormValue(field))
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", field)
	}
	return &f, nil
}

// CreateDownloadLinkHandler handles POST /api/v1/logs/{id}/download-link
//
// @Summary Sign a download link for a stored log
// @Tags Logs
// @Produce json
// @Param id path string true "Flight log ID"
// @Success 200 {object} dtos.APIResponse
// @Failure 404 {object} dtos.APIResponse
// @Failure 503 {object} dtos.APIResponse
// @Router /api/v1/logs/{id}/download-link [post]
func CreateDownloadLinkHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		link, err := deps.Services.FlightLogs.CreateDownloadLink(r.Context(), chi.URLParam(r, "id"), requestBaseURL(r))
		if err != nil {
			handleFleetError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Download link created", link)
	}
}

// DownloadFlightLogHandler handles GET /api/v1/logs/download?token=
func DownloadFlightLogHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		rc, name, err := deps.Services.FlightLogs.OpenDownload(r.Context(), r.URL.Query().Get("token"))
		if err != nil {
			handleFleetError(w, initTime, err)
			return
		}
		defer rc.Close()

		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
		w.WriteHeader(http.StatusOK)

		if _, err := io.Copy(w, rc); err != nil {
			logging.Warn("Flight log download interrupted", "file", name, "error", err.Error())
		}
	}
}

// requestBaseURL rebuilds scheme://host as the client saw it
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return scheme + "://" + r.Host
}
