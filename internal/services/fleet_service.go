package services

import (
	"context"
	"strings"
	"time"

	"bharatrohan/hangar/internal/common"
	"bharatrohan/hangar/internal/constants"
	"bharatrohan/hangar/internal/db/repositories"
	"bharatrohan/hangar/internal/metrics"
	"bharatrohan/hangar/internal/models/dtos/responses"
	"bharatrohan/hangar/internal/models/entities"
	gormModels "bharatrohan/hangar/internal/models/gorm"

	"golang.org/x/sync/errgroup"
)

const (
	modelSummaryTTL = 60 * time.Second

	// UnassignedModel is the URL alias for drones outside every serial block
	UnassignedModel = "unassigned"
)

// FleetService serves the read side of the fleet registry
type FleetService struct {
	drones  *repositories.DroneRepo
	logs    *repositories.FlightLogRepo
	alerts  *repositories.DroneAlertRepo
	notes   *repositories.MaintenanceNoteRepo
	stats   *repositories.FleetStatsRepo
	cache   common.CacheInterface
	metrics *metrics.MetricsRegistry
}

func NewFleetService(
	drones *repositories.DroneRepo,
	logs *repositories.FlightLogRepo,
	alerts *repositories.DroneAlertRepo,
	notes *repositories.MaintenanceNoteRepo,
	stats *repositories.FleetStatsRepo,
	cache common.CacheInterface,
	metricsReg *metrics.MetricsRegistry,
) *FleetService {
	return &FleetService{
		drones:  drones,
		logs:    logs,
		alerts:  alerts,
		notes:   notes,
		stats:   stats,
		cache:   cache,
		metrics: metricsReg,
	}
}

// ListDrones returns every drone, most recently seen first, with its log count
func (s *FleetService) ListDrones(ctx context.Context) ([]responses.DroneSummary, error) {
	var (
		drones []gormModels.Drone
		stats  map[string]entities.DroneLogStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		drones, err = s.drones.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats, err = s.stats.LogStatsByDrone(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dbError("failed to list drones", err)
	}

	out := make([]responses.DroneSummary, 0, len(drones))
	for _, d := range drones {
		out = append(out, droneSummary(d, stats[d.ID]))
	}
	return out, nil
}

// GetDroneDetail loads a drone with its logs, notes and alerts
func (s *FleetService) GetDroneDetail(ctx context.Context, droneID string) (*responses.DroneDetail, error) {
	drone, err := s.drones.FindByID(ctx, droneID)
	if err != nil {
		return nil, dbError("failed to load drone", err)
	}
	if drone == nil {
		return nil, newFleetError(constants.ErrCodeDroneNotFound, constants.MsgDroneNotFound, nil)
	}
	return s.detail(ctx, drone)
}

// GetDroneDetailBySerial resolves the drone by serial within a model page.
// The serial must belong to model.
func (s *FleetService) GetDroneDetailBySerial(ctx context.Context, model, serialNum string) (*responses.DroneDetail, error) {
	resolved, err := resolveModel(model)
	if err != nil {
		return nil, err
	}

	drone, err := s.drones.FindBySerial(ctx, serialNum)
	if err != nil {
		return nil, dbError("failed to load drone", err)
	}
	if drone == nil || common.ModelFromSerial(drone.SerialNum) != resolved {
		return nil, newFleetError(constants.ErrCodeDroneNotFound, constants.MsgDroneNotFound, nil)
	}
	return s.detail(ctx, drone)
}

func (s *FleetService) detail(ctx context.Context, drone *gormModels.Drone) (*responses.DroneDetail, error) {
	var (
		logs   []gormModels.FlightLog
		notes  []entities.MaintenanceNote
		alerts []gormModels.DroneAlert
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		logs, err = s.logs.ListByDrone(gctx, drone.ID)
		return err
	})
	g.Go(func() (err error) {
		notes, err = s.notes.ListByDrone(gctx, drone.ID)
		return err
	})
	g.Go(func() (err error) {
		alerts, err = s.alerts.ListByDrone(gctx, drone.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dbError("failed to load drone detail", err)
	}

	detail := &responses.DroneDetail{
		Logs:   make([]responses.FlightLogView, 0, len(logs)),
		Notes:  notes,
		Alerts: make([]responses.AlertView, 0, len(alerts)),
	}

	stats := entities.DroneLogStats{DroneID: drone.ID, LogCount: int64(len(logs))}
	for _, l := range logs {
		if l.FlightDistanceMeters != nil {
			detail.TotalDistanceMeters += *l.FlightDistanceMeters
		}
		detail.Logs = append(detail.Logs, flightLogView(l))
	}
	for _, a := range alerts {
		detail.Alerts = append(detail.Alerts, alertView(a))
	}
	detail.Drone = droneSummary(*drone, stats)

	return detail, nil
}

// ModelSummaries returns one row per model, known blocks first. An
// "Unknown" row is appended only when some drone falls outside every block.
func (s *FleetService) ModelSummaries(ctx context.Context) ([]responses.ModelSummary, error) {
	key := string(constants.CachePrefixModelSummaries)

	summaries, hit, err := common.GetOrLoadJSON(s.cache, key, modelSummaryTTL, func() ([]responses.ModelSummary, error) {
		return s.loadModelSummaries(ctx)
	})
	if err != nil {
		return nil, dbError("failed to summarise models", err)
	}

	if s.metrics != nil {
		if hit {
			s.metrics.CacheHitsTotal.WithLabelValues(key).Inc()
		} else {
			s.metrics.CacheMissesTotal.WithLabelValues(key).Inc()
		}
	}
	return summaries, nil
}

func (s *FleetService) loadModelSummaries(ctx context.Context) ([]responses.ModelSummary, error) {
	var (
		drones []gormModels.Drone
		stats  map[string]entities.DroneLogStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		drones, err = s.drones.ListOrderedBySerial(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats, err = s.stats.LogStatsByDrone(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byModel := make(map[string]*responses.ModelSummary)
	order := common.KnownModels()
	for _, m := range order {
		r, _ := common.SerialRangeFor(m)
		byModel[m] = &responses.ModelSummary{Model: m, SerialMin: r.Min, SerialMax: r.Max}
	}

	for _, d := range drones {
		m := common.ModelFromSerial(d.SerialNum)
		sum, ok := byModel[m]
		if !ok {
			sum = &responses.ModelSummary{Model: m}
			byModel[m] = sum
			order = append(order, m)
		}
		st := stats[d.ID]
		sum.DroneCount++
		sum.LogCount += st.LogCount
		sum.TotalFlightHours += SecondsToHours(st.TotalFlightSeconds)
	}

	out := make([]responses.ModelSummary, 0, len(order))
	for _, m := range order {
		out = append(out, *byModel[m])
	}
	return out, nil
}

// InvalidateModelSummaries drops the cached model table
func (s *FleetService) InvalidateModelSummaries() {
	s.cache.Delete(string(constants.CachePrefixModelSummaries))
}

// ListModelDrones returns the drones of one model ordered by serial, with
// hours summed from their logs and the newest located fix.
func (s *FleetService) ListModelDrones(ctx context.Context, model string) ([]responses.DroneSummary, error) {
	resolved, err := resolveModel(model)
	if err != nil {
		return nil, err
	}

	var (
		drones    []gormModels.Drone
		stats     map[string]entities.DroneLogStats
		positions map[string]entities.DronePosition
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		drones, err = s.drones.ListOrderedBySerial(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats, err = s.stats.LogStatsByDrone(gctx)
		return err
	})
	g.Go(func() (err error) {
		positions, err = s.stats.LatestPositions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dbError("failed to list model drones", err)
	}

	out := []responses.DroneSummary{}
	for _, d := range drones {
		if common.ModelFromSerial(d.SerialNum) != resolved {
			continue
		}
		st := stats[d.ID]
		summary := droneSummary(d, st)
		summary.TotalFlightHours = SecondsToHours(st.TotalFlightSeconds)
		if pos, ok := positions[d.ID]; ok {
			lat, lon := pos.LastLat, pos.LastLon
			summary.LastLat = &lat
			summary.LastLon = &lon
		}
		out = append(out, summary)
	}
	return out, nil
}

// resolveModel accepts a known model name, "Unknown" or the "unassigned" alias
func resolveModel(model string) (string, error) {
	model = strings.TrimSpace(model)
	if strings.EqualFold(model, UnassignedModel) || model == common.ModelUnknown {
		return common.ModelUnknown, nil
	}
	if _, ok := common.SerialRangeFor(model); ok {
		return model, nil
	}
	return "", newFleetError(constants.ErrCodeModelNotFound, constants.MsgModelNotFound, nil)
}
