package constants

const (
	InsertMaintenanceNote = `
	INSERT INTO maintenance_notes (id, drone_id, note, created_at)
	VALUES ($1, $2, $3, $4)
	`

	GetMaintenanceNotesByDrone = `
	SELECT id, drone_id, note, created_at
	FROM maintenance_notes
	WHERE drone_id = $1
	ORDER BY created_at DESC
	`

	DeleteMaintenanceNote = `
	DELETE FROM maintenance_notes WHERE id = $1
	`

	GetLogStatsPerDrone = `
	SELECT drone_id,
		COUNT(*) AS log_count,
		COALESCE(SUM(flight_time_seconds), 0) AS total_flight_seconds,
		COALESCE(SUM(flight_distance_meters), 0) AS total_distance_meters
	FROM flight_logs
	GROUP BY drone_id
	`

	GetLatestPositionPerDrone = `
	SELECT fl.drone_id, fl.last_lat, fl.last_lon, fl.uploaded_at
	FROM flight_logs fl
	JOIN (
		SELECT drone_id, MAX(uploaded_at) AS latest
		FROM flight_logs
		WHERE last_lat IS NOT NULL AND last_lon IS NOT NULL
		GROUP BY drone_id
	) newest ON newest.drone_id = fl.drone_id AND newest.latest = fl.uploaded_at
	WHERE fl.last_lat IS NOT NULL AND fl.last_lon IS NOT NULL
	`
)
