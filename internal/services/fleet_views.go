package services

import (
	"bharatrohan/hangar/internal/models/dtos/responses"
	"bharatrohan/hangar/internal/models/entities"
	gormModels "bharatrohan/hangar/internal/models/gorm"
)

func droneSummary(d gormModels.Drone, stats entities.DroneLogStats) responses.DroneSummary {
	return responses.DroneSummary{
		ID:               d.ID,
		SerialNum:        d.SerialNum,
		ModelName:        d.ModelName,
		TotalFlightHours: d.TotalFlightHours,
		LastSeen:         d.LastSeen,
		LogCount:         stats.LogCount,
		CreatedAt:        d.CreatedAt,
	}
}

func flightLogView(l gormModels.FlightLog) responses.FlightLogView {
	return responses.FlightLogView{
		ID:                   l.ID,
		DroneID:              l.DroneID,
		FileName:             l.FileName,
		FileSizeBytes:        l.FileSizeBytes,
		UploadedAt:           l.UploadedAt,
		LogDate:              l.LogDate,
		LastLat:              l.LastLat,
		LastLon:              l.LastLon,
		FlightTimeSeconds:    l.FlightTimeSeconds,
		FlightDistanceMeters: l.FlightDistanceMeters,
		FirmwareVersion:      l.FirmwareVersion,
	}
}

func alertView(a gormModels.DroneAlert) responses.AlertView {
	return responses.AlertView{
		ID:                   a.ID,
		DroneID:              a.DroneID,
		SerialNum:            a.SerialNum,
		ModelName:            a.ModelName,
		ThresholdMultiple:    a.ThresholdMultiple,
		FlightHoursAtTrigger: a.FlightHoursAtTrigger,
		CreatedAt:            a.CreatedAt,
	}
}
