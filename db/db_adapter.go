package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	log "github.com/entn-at/ts-asr/logger"
	_ "github.com/mattn/go-sqlite3"
)

type DBAdapter struct {
	Ctx          context.Context
	DatabasePath string
	DB           *sql.DB
}

// NewDBAdapter opens or creates the sqlite database for one dataset run.
func NewDBAdapter(ctx context.Context, directory string, datasetName string) (DBAdapter, *log.Status) {
	var d DBAdapter
	d.Ctx = ctx
	err := os.MkdirAll(directory, 0755)
	if err != nil {
		return d, log.Error(ctx, 500, err, `Error creating database directory`, directory)
	}
	d.DatabasePath = filepath.Join(directory, datasetName+`.db`)
	d.DB, err = sql.Open(`sqlite3`, d.DatabasePath)
	if err != nil {
		return d, log.Error(ctx, 500, err, `Error opening database`, d.DatabasePath)
	}
	status := d.createTables()
	return d, status
}

func (d *DBAdapter) Close() {
	if d.DB != nil {
		_ = d.DB.Close()
	}
}

func (d *DBAdapter) createTables() *log.Status {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS ident (
			dataset_name TEXT NOT NULL,
			username TEXT NOT NULL,
			data_folder TEXT NOT NULL,
			created_at TEXT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS runs (
			run_id INTEGER PRIMARY KEY AUTOINCREMENT,
			model TEXT NOT NULL,
			hparams_file TEXT NOT NULL,
			argv TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			exit_status INTEGER,
			error_msg TEXT)`,
		`CREATE TABLE IF NOT EXISTS metrics (
			metric_id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL,
			epoch INTEGER NOT NULL,
			name TEXT NOT NULL,
			value REAL NOT NULL,
			FOREIGN KEY(run_id) REFERENCES runs(run_id))`,
	}
	for _, query := range queries {
		_, err := d.DB.Exec(query)
		if err != nil {
			return log.Error(d.Ctx, 500, err, `Error creating table`, query)
		}
	}
	return nil
}

type Ident struct {
	DatasetName string
	Username    string
	DataFolder  string
	CreatedAt   string
}

func (d *DBAdapter) InsertIdent(datasetName string, username string, dataFolder string) *log.Status {
	query := `INSERT INTO ident (dataset_name, username, data_folder, created_at) VALUES (?, ?, ?, ?)`
	_, err := d.DB.Exec(query, datasetName, username, dataFolder, time.Now().Format(time.RFC3339))
	if err != nil {
		return log.Error(d.Ctx, 500, err, `Error inserting ident`)
	}
	return nil
}

func (d *DBAdapter) SelectIdent() (Ident, *log.Status) {
	var ident Ident
	query := `SELECT dataset_name, username, data_folder, created_at FROM ident ORDER BY rowid DESC LIMIT 1`
	row := d.DB.QueryRow(query)
	err := row.Scan(&ident.DatasetName, &ident.Username, &ident.DataFolder, &ident.CreatedAt)
	if err == sql.ErrNoRows {
		return ident, nil
	}
	if err != nil {
		return ident, log.Error(d.Ctx, 500, err, `Error selecting ident`)
	}
	return ident, nil
}
