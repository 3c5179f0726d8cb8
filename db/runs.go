package db

import (
	"database/sql"
	"strings"
	"time"

	log "github.com/entn-at/ts-asr/logger"
)

type Run struct {
	RunId       int64
	Model       string
	HparamsFile string
	Argv        string
	StartedAt   string
	FinishedAt  string
	ExitStatus  int
	ErrorMsg    string
}

func (d *DBAdapter) InsertRun(model string, hparamsFile string, argv []string) (int64, *log.Status) {
	query := `INSERT INTO runs (model, hparams_file, argv, started_at) VALUES (?, ?, ?, ?)`
	result, err := d.DB.Exec(query, model, hparamsFile, strings.Join(argv, ` `),
		time.Now().Format(time.RFC3339))
	if err != nil {
		return 0, log.Error(d.Ctx, 500, err, `Error inserting run`, model)
	}
	runId, err := result.LastInsertId()
	if err != nil {
		return 0, log.Error(d.Ctx, 500, err, `Error getting run id`, model)
	}
	return runId, nil
}

func (d *DBAdapter) UpdateRunResult(runId int64, exitStatus int, errorMsg string) *log.Status {
	query := `UPDATE runs SET finished_at = ?, exit_status = ?, error_msg = ? WHERE run_id = ?`
	_, err := d.DB.Exec(query, time.Now().Format(time.RFC3339), exitStatus, errorMsg, runId)
	if err != nil {
		return log.Error(d.Ctx, 500, err, `Error updating run result`, runId)
	}
	return nil
}

func (d *DBAdapter) SelectRuns() ([]Run, *log.Status) {
	var results []Run
	query := `SELECT run_id, model, hparams_file, argv, started_at,
		COALESCE(finished_at, ''), COALESCE(exit_status, -1), COALESCE(error_msg, '')
		FROM runs ORDER BY run_id`
	rows, err := d.DB.Query(query)
	if err != nil {
		return results, log.Error(d.Ctx, 500, err, `Error selecting runs`)
	}
	defer rows.Close()
	for rows.Next() {
		var run Run
		err = rows.Scan(&run.RunId, &run.Model, &run.HparamsFile, &run.Argv,
			&run.StartedAt, &run.FinishedAt, &run.ExitStatus, &run.ErrorMsg)
		if err != nil {
			return results, log.Error(d.Ctx, 500, err, `Error scanning run row`)
		}
		results = append(results, run)
	}
	err = rows.Err()
	if err != nil {
		return results, log.Error(d.Ctx, 500, err, `Error reading run rows`)
	}
	return results, nil
}

func (d *DBAdapter) CountRuns() (int, *log.Status) {
	var count int
	row := d.DB.QueryRow(`SELECT count(*) FROM runs`)
	err := row.Scan(&count)
	if err != nil && err != sql.ErrNoRows {
		return count, log.Error(d.Ctx, 500, err, `Error counting runs`)
	}
	return count, nil
}
