package db

import (
	"math"

	log "github.com/entn-at/ts-asr/logger"
)

type Metric struct {
	RunId int64
	Epoch int
	Name  string
	Value float64
}

// InsertMetricSeries stores one named metric series indexed by epoch.
// NaN values mark epochs where the metric was not reported and are skipped.
func (d *DBAdapter) InsertMetricSeries(runId int64, name string, epochs []float64, values []float64) *log.Status {
	tx, err := d.DB.Begin()
	if err != nil {
		return log.Error(d.Ctx, 500, err, `Error starting metrics transaction`)
	}
	stmt, err := tx.Prepare(`INSERT INTO metrics (run_id, epoch, name, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return log.Error(d.Ctx, 500, err, `Error preparing metrics insert`)
	}
	defer stmt.Close()
	for i, value := range values {
		if math.IsNaN(value) {
			continue
		}
		epoch := i + 1
		if i < len(epochs) && !math.IsNaN(epochs[i]) {
			epoch = int(epochs[i])
		}
		_, err = stmt.Exec(runId, epoch, name, value)
		if err != nil {
			_ = tx.Rollback()
			return log.Error(d.Ctx, 500, err, `Error inserting metric`, name)
		}
	}
	err = tx.Commit()
	if err != nil {
		return log.Error(d.Ctx, 500, err, `Error committing metrics`)
	}
	return nil
}

func (d *DBAdapter) SelectMetrics(runId int64) ([]Metric, *log.Status) {
	var results []Metric
	query := `SELECT run_id, epoch, name, value FROM metrics WHERE run_id = ? ORDER BY name, epoch`
	rows, err := d.DB.Query(query, runId)
	if err != nil {
		return results, log.Error(d.Ctx, 500, err, `Error selecting metrics`)
	}
	defer rows.Close()
	for rows.Next() {
		var metric Metric
		err = rows.Scan(&metric.RunId, &metric.Epoch, &metric.Name, &metric.Value)
		if err != nil {
			return results, log.Error(d.Ctx, 500, err, `Error scanning metric row`)
		}
		results = append(results, metric)
	}
	err = rows.Err()
	if err != nil {
		return results, log.Error(d.Ctx, 500, err, `Error reading metric rows`)
	}
	return results, nil
}
