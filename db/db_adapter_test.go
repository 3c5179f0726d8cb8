package db

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/entn-at/ts-asr/decode_yaml/request"
	log "github.com/entn-at/ts-asr/logger"
)

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	log.SetOutput(`stderr`)
	user := request.GetTestUser()
	conn, status := NewDBAdapter(ctx, t.TempDir(), `SmokeTest`)
	if status != nil {
		t.Fatal(status)
	}
	defer conn.Close()
	status = conn.InsertIdent(`SmokeTest`, user, `/data/LibriSpeechMix`)
	if status != nil {
		t.Fatal(status)
	}
	ident, status := conn.SelectIdent()
	if status != nil {
		t.Fatal(status)
	}
	if ident.DatasetName != `SmokeTest` || ident.Username != user {
		t.Error(`Wrong ident row`, ident)
	}
	argv := []string{`train_librispeechmix.py`, `hparams/LibriSpeechMix/rnn-t.yaml`, `--debug`}
	runId, status := conn.InsertRun(`rnn-t`, `hparams/LibriSpeechMix/rnn-t.yaml`, argv)
	if status != nil {
		t.Fatal(status)
	}
	if runId == 0 {
		t.Fatal(`Expected non-zero run id`)
	}
	runs, status := conn.SelectRuns()
	if status != nil {
		t.Fatal(status)
	}
	if len(runs) != 1 {
		t.Fatal(`Expected 1 run, got`, len(runs))
	}
	// Unfinished runs report exit status -1
	if runs[0].ExitStatus != -1 || runs[0].FinishedAt != `` {
		t.Error(`Run should be unfinished`, runs[0])
	}
	if !strings.Contains(runs[0].Argv, `--debug`) {
		t.Error(`Argv should be recorded`, runs[0].Argv)
	}
	status = conn.UpdateRunResult(runId, 0, ``)
	if status != nil {
		t.Fatal(status)
	}
	runs, status = conn.SelectRuns()
	if status != nil {
		t.Fatal(status)
	}
	if runs[0].ExitStatus != 0 || runs[0].FinishedAt == `` {
		t.Error(`Run should be finished`, runs[0])
	}
	count, status := conn.CountRuns()
	if status != nil {
		t.Fatal(status)
	}
	if count != 1 {
		t.Error(`Expected 1 run, got`, count)
	}
}

func TestMetricSeries(t *testing.T) {
	ctx := context.Background()
	conn, status := NewDBAdapter(ctx, t.TempDir(), `SmokeTest`)
	if status != nil {
		t.Fatal(status)
	}
	defer conn.Close()
	runId, status := conn.InsertRun(`conformer-t`, `hparams/LibriSpeechMix/conformer-t.yaml`, nil)
	if status != nil {
		t.Fatal(status)
	}
	epochs := []float64{1, 2, 3}
	values := []float64{3.52, math.NaN(), 2.96}
	status = conn.InsertMetricSeries(runId, `valid loss`, epochs, values)
	if status != nil {
		t.Fatal(status)
	}
	metrics, status := conn.SelectMetrics(runId)
	if status != nil {
		t.Fatal(status)
	}
	// The NaN epoch is not stored
	if len(metrics) != 2 {
		t.Fatal(`Expected 2 metric rows, got`, len(metrics))
	}
	if metrics[0].Epoch != 1 || metrics[0].Value != 3.52 {
		t.Error(`Wrong first metric row`, metrics[0])
	}
	if metrics[1].Epoch != 3 || metrics[1].Value != 2.96 {
		t.Error(`Wrong second metric row`, metrics[1])
	}
	for _, metric := range metrics {
		if metric.Name != `valid loss` || metric.RunId != runId {
			t.Error(`Wrong metric row`, metric)
		}
	}
}
