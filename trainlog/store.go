package trainlog

import (
	"github.com/entn-at/ts-asr/db"
	log "github.com/entn-at/ts-asr/logger"
)

// StoreMetrics persists every parsed metric series for one run,
// indexed by the epoch counter from the same log.
func StoreMetrics(conn db.DBAdapter, runId int64, metrics Metrics) *log.Status {
	epochs := metrics[`epoch`]
	for _, name := range metricOrder(metrics) {
		status := conn.InsertMetricSeries(runId, name, epochs, metrics[name])
		if status != nil {
			return status
		}
	}
	return nil
}
