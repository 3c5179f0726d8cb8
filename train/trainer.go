package train

import (
	"context"
	"os"
	"path/filepath"

	"github.com/entn-at/ts-asr/db"
	req "github.com/entn-at/ts-asr/decode_yaml/request"
	log "github.com/entn-at/ts-asr/logger"
	"github.com/entn-at/ts-asr/utility/stdio_exec"
)

type Trainer struct {
	ctx        context.Context
	conn       db.DBAdapter
	dataFolder string
	args       req.Training
}

func NewTrainer(ctx context.Context, conn db.DBAdapter, dataFolder string, args req.Training) Trainer {
	var t Trainer
	t.ctx = ctx
	t.conn = conn
	t.dataFolder = dataFolder
	t.args = args
	return t
}

// RunSmoke trains each model family once with the smoke overrides,
// strictly in order. Each run must complete before the next begins.
// The first failing run stops the sequence, there is no retry.
func (t *Trainer) RunSmoke() *log.Status {
	for _, model := range SmokeModels() {
		status := t.RunModel(model)
		if status != nil {
			return status
		}
	}
	return nil
}

// RunModel launches the external training program for one model family
// and blocks until it exits.
func (t *Trainer) RunModel(model string) *log.Status {
	hparamsFile := HparamsFile(model)
	argv := t.Argv(model)
	runId, status := t.conn.InsertRun(model, hparamsFile, argv)
	if status != nil {
		return status
	}
	log.Info(t.ctx, `Training`, model, hparamsFile)
	pythonPath := os.Getenv(`TSASR_TRAIN_PYTHON`)
	status = stdio_exec.RunScriptWithLogging(t.ctx, pythonPath, argv...)
	if status != nil {
		_ = t.conn.UpdateRunResult(runId, 1, status.Message)
		return status
	}
	status = t.conn.UpdateRunResult(runId, 0, ``)
	if status != nil {
		return status
	}
	log.Info(t.ctx, `Finished`, model)
	return nil
}

// Argv returns the full argument list for one model family: the training
// script, its positional hparams config, and the overrides.
func (t *Trainer) Argv(model string) []string {
	recipeDir := os.Getenv(`TSASR_RECIPE_DIR`)
	var argv []string
	argv = append(argv, filepath.Join(recipeDir, `train_librispeechmix.py`))
	argv = append(argv, filepath.Join(recipeDir, HparamsFile(model)))
	argv = append(argv, OverrideArgs(model, t.dataFolder, t.args)...)
	return argv
}
