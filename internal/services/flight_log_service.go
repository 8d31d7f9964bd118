package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"bharatrohan/hangar/internal/common"
	"bharatrohan/hangar/internal/constants"
	"bharatrohan/hangar/internal/db/repositories"
	"bharatrohan/hangar/internal/logging"
	"bharatrohan/hangar/internal/metrics"
	"bharatrohan/hangar/internal/models/dtos/requests"
	"bharatrohan/hangar/internal/models/dtos/responses"
	gormModels "bharatrohan/hangar/internal/models/gorm"

	z "github.com/Oudwins/zog"
	"github.com/google/uuid"
)

// ChangeHandler receives drone row changes. MaintenanceAlertService is the
// production implementation.
type ChangeHandler interface {
	HandleChange(ctx context.Context, event *requests.ChangeEvent) (*responses.AlertCheckResult, error)
}

var flightLogUploadSchema = z.Struct(z.Shape{
	"SerialNum":            z.String().Min(1).Max(32).Required(),
	"FileName":             z.String().Min(1).Max(255).Required(),
	"FlightTimeSeconds":    z.Ptr(z.Float64().GTE(0)),
	"FlightDistanceMeters": z.Ptr(z.Float64().GTE(0)),
	"LastLat":              z.Ptr(z.Float64().GTE(-90).LTE(90)),
	"LastLon":              z.Ptr(z.Float64().GTE(-180).LTE(180)),
})

// FlightLogService stores uploaded logs and hands out download links
type FlightLogService struct {
	drones  *repositories.DroneRepo
	logs    *repositories.FlightLogRepo
	store   common.ObjectStore
	signer  *common.URLSignerService
	changes ChangeHandler
	fleet   *FleetService
	metrics *metrics.MetricsRegistry
	now     func() time.Time
}

// NewFlightLogService wires the upload pipeline. changes, fleet and
// metricsReg may be nil.
func NewFlightLogService(
	drones *repositories.DroneRepo,
	logs *repositories.FlightLogRepo,
	store common.ObjectStore,
	signer *common.URLSignerService,
	changes ChangeHandler,
	fleet *FleetService,
	metricsReg *metrics.MetricsRegistry,
) *FlightLogService {
	return &FlightLogService{
		drones:  drones,
		logs:    logs,
		store:   store,
		signer:  signer,
		changes: changes,
		fleet:   fleet,
		metrics: metricsReg,
		now:     time.Now,
	}
}

// Upload stores the file, registers the drone on first sight, appends the
// log row and refreshes the drone's totals. The refresh is an UPDATE of the
// drone row and is fed to the change handler, which may raise maintenance
// alerts. A failing maintenance check does not fail the upload.
func (s *FlightLogService) Upload(ctx context.Context, req *requests.FlightLogUpload, file io.Reader) (*responses.UploadResult, error) {
	if req == nil {
		return nil, newFleetError(constants.ErrCodeValidation, constants.MsgInvalidUpload, nil)
	}
	req.SerialNum = strings.TrimSpace(req.SerialNum)
	req.FileName = sanitizeFileName(req.FileName)

	if issues := flightLogUploadSchema.Validate(req); len(issues) > 0 {
		return nil, newFleetError(constants.ErrCodeValidation, constants.MsgInvalidUpload, nil)
	}

	now := s.now().UTC()
	drone, created, err := s.drones.FindOrCreateBySerial(ctx, &gormModels.Drone{
		SerialNum: req.SerialNum,
		ModelName: common.ModelFromSerial(req.SerialNum),
		LastSeen:  &now,
	})
	if err != nil {
		return nil, dbError("failed to register drone", err)
	}

	storagePath := path.Join(req.SerialNum, uuid.NewString()+"_"+req.FileName)
	written, err := s.store.Put(ctx, storagePath, file)
	if err != nil {
		return nil, newFleetError(constants.ErrCodeStorage, "failed to store flight log", err)
	}

	size := req.FileSizeBytes
	if size <= 0 {
		size = written
	}

	log := &gormModels.FlightLog{
		DroneID:              drone.ID,
		FileName:             req.FileName,
		StoragePath:          storagePath,
		FileSizeBytes:        size,
		UploadedAt:           now,
		LogDate:              req.LogDate,
		LastLat:              req.LastLat,
		LastLon:              req.LastLon,
		FlightTimeSeconds:    req.FlightTimeSeconds,
		FlightDistanceMeters: req.FlightDistanceMeters,
		FirmwareVersion:      req.FirmwareVersion,
	}
	if err := s.logs.Create(ctx, log); err != nil {
		s.discardObject(storagePath)
		return nil, dbError("failed to record flight log", err)
	}

	// From here the log row references the stored file, so both stay.
	totalSeconds, err := s.logs.SumFlightTimeSeconds(ctx, drone.ID)
	if err != nil {
		return nil, dbError("failed to total flight time", err)
	}
	totalHours := SecondsToHours(totalSeconds)
	if err := s.drones.RecordActivity(ctx, drone.ID, now, totalHours); err != nil {
		return nil, dbError("failed to update drone", err)
	}

	if s.metrics != nil {
		s.metrics.FlightLogsUploadedTotal.Inc()
	}
	if s.fleet != nil {
		s.fleet.InvalidateModelSummaries()
	}

	logging.Info("Flight log uploaded",
		"drone_id", drone.ID,
		"serial_num", drone.SerialNum,
		"drone_created", created,
		"storage_path", storagePath,
		"total_hours", totalHours,
	)

	result := &responses.UploadResult{
		Log:          flightLogView(*log),
		DroneID:      drone.ID,
		DroneCreated: created,
	}

	if s.changes != nil {
		lastSeen := now.Format(time.RFC3339)
		check, err := s.changes.HandleChange(ctx, &requests.ChangeEvent{
			Type:  requests.ChangeEventUpdate,
			Table: "drones",
			Record: &requests.DroneRecord{
				ID:               drone.ID,
				SerialNum:        drone.SerialNum,
				TotalFlightHours: &totalHours,
				LastSeen:         &lastSeen,
			},
		})
		if err != nil {
			logging.Warn("Maintenance check after upload failed",
				"drone_id", drone.ID,
				"error", err.Error(),
			)
		} else {
			result.Maintenance = check
		}
	}

	return result, nil
}

// discardObject removes a stored file whose log row was never written
func (s *FlightLogService) discardObject(storagePath string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.store.Delete(ctx, storagePath); err != nil {
		logging.Warn("Failed to remove orphaned flight log file",
			"storage_path", storagePath,
			"error", err.Error(),
		)
	}
}

// CreateDownloadLink signs a short-lived link for one stored log
func (s *FlightLogService) CreateDownloadLink(ctx context.Context, logID, baseURL string) (*responses.DownloadLink, error) {
	if s.signer == nil {
		return nil, newFleetError(constants.ErrCodeDownloadsDisabled, constants.MsgDownloadsDisabled, nil)
	}

	log, err := s.logs.FindByID(ctx, logID)
	if err != nil {
		return nil, dbError("failed to load flight log", err)
	}
	if log == nil {
		return nil, newFleetError(constants.ErrCodeLogNotFound, constants.MsgLogNotFound, nil)
	}

	token, expiresAt, err := s.signer.GenerateDownloadToken(log.StoragePath)
	if err != nil {
		return nil, newFleetError(constants.ErrCodeDownloadsDisabled, constants.MsgDownloadsDisabled, err)
	}

	return &responses.DownloadLink{
		URL:       fmt.Sprintf("%s/api/v1/logs/download?token=%s", strings.TrimRight(baseURL, "/"), token),
		ExpiresAt: expiresAt,
		ExpiresIn: int(s.signer.TTL().Seconds()),
	}, nil
}

// OpenDownload validates token and opens the file it grants. The caller
// closes the reader.
func (s *FlightLogService) OpenDownload(ctx context.Context, token string) (io.ReadCloser, string, error) {
	if s.signer == nil {
		return nil, "", newFleetError(constants.ErrCodeDownloadsDisabled, constants.MsgDownloadsDisabled, nil)
	}

	storagePath, err := s.signer.ValidateDownloadToken(token)
	if err != nil {
		return nil, "", newFleetError(constants.ErrCodeInvalidToken, constants.MsgInvalidDownload, err)
	}

	rc, err := s.store.Open(ctx, storagePath)
	if err != nil {
		if errors.Is(err, common.ErrObjectNotFound) {
			return nil, "", newFleetError(constants.ErrCodeFileNotFound, constants.MsgLogNotFound, err)
		}
		return nil, "", newFleetError(constants.ErrCodeStorage, "failed to open flight log", err)
	}

	return rc, downloadName(storagePath), nil
}

// sanitizeFileName keeps the base name of an uploaded file
func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}

// downloadName strips the uuid prefix added at upload
func downloadName(storagePath string) string {
	base := path.Base(storagePath)
	if i := strings.IndexByte(base, '_'); i > 0 {
		return base[i+1:]
	}
	return base
}
