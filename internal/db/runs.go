package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// AggregationRun is the bookkeeping row written once per ETL invocation.
type AggregationRun struct {
	RunID               string     `json:"run_id"`
	Mode                string     `json:"mode"`
	CountyRows          int        `json:"county_rows"`
	CountyBuildingRows  int        `json:"county_building_rows"`
	LoadshapeRows       int        `json:"loadshape_rows"`
	SkippedCombinations int        `json:"skipped_combinations"`
	StartedAt           time.Time  `json:"started_at"`
	FinishedAt          *time.Time `json:"finished_at,omitempty"`
	Error               string     `json:"error,omitempty"`
}

// InsertAggregationRun persists a run record. A missing RunID gets a UUID.
func (db *DB) InsertAggregationRun(run *AggregationRun) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	var finished interface{}
	if run.FinishedAt != nil {
		finished = run.FinishedAt.UTC()
	}
	var errStr interface{}
	if run.Error != "" {
		errStr = run.Error
	}
	_, err := db.Exec(`INSERT INTO aggregation_runs (
		run_id, mode, county_rows, county_building_rows, loadshape_rows,
		skipped_combinations, started_at, finished_at, error
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Mode, run.CountyRows, run.CountyBuildingRows, run.LoadshapeRows,
		run.SkippedCombinations, run.StartedAt.UTC(), finished, errStr,
	)
	if err != nil {
		return &StoreError{Op: "write aggregation_runs", Err: err}
	}
	return nil
}

// ListAggregationRuns returns the most recent runs, newest first.
func (db *DB) ListAggregationRuns(limit int) ([]AggregationRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`SELECT run_id, mode, county_rows, county_building_rows,
		loadshape_rows, skipped_combinations, started_at, finished_at, error
		FROM aggregation_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AggregationRun
	for rows.Next() {
		var r AggregationRun
		var finished sql.NullTime
		var errStr sql.NullString
		if err := rows.Scan(&r.RunID, &r.Mode, &r.CountyRows, &r.CountyBuildingRows,
			&r.LoadshapeRows, &r.SkippedCombinations, &r.StartedAt, &finished, &errStr); err != nil {
			return nil, err
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		r.Error = errStr.String
		out = append(out, r)
	}
	return out, rows.Err()
}
