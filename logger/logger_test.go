package logger

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestStatusError(t *testing.T) {
	ctx := context.Background()
	SetOutput(`stderr`)
	status := Error(ctx, 500, errors.New(`open failed`), `Unable to read`, `train_log.txt`)
	if status.Status != 500 {
		t.Error(`Expected status 500, got`, status.Status)
	}
	if status.Message != `Unable to read train_log.txt` {
		t.Error(`Wrong message`, status.Message)
	}
	text := status.Error()
	if !strings.Contains(text, `500`) || !strings.Contains(text, `open failed`) {
		t.Error(`Wrong error text`, text)
	}
	if status.Trace == `` {
		t.Error(`Stack trace should be captured`)
	}
}

func TestErrorCapturesRequest(t *testing.T) {
	yamlContent := `dataset_name: SmokeTest`
	ctx := context.WithValue(context.Background(), RequestKey, yamlContent)
	status := ErrorNoErr(ctx, 400, `Bad request`)
	if status.Request != yamlContent {
		t.Error(`Request content should be captured from context, got`, status.Request)
	}
	status = ErrorNoErr(context.Background(), 400, `Bad request`)
	if status.Request != `` {
		t.Error(`Request should be empty without context value`)
	}
}

func TestExecError(t *testing.T) {
	ctx := context.Background()
	crashes := []string{
		`Traceback (most recent call last):`,
		`ValueError: invalid hparams file`,
		`RuntimeError: CUDA out of memory. Tried to allocate 20.00 MiB`,
		`torch.cuda.OutOfMemoryError: CUDA out of memory`,
	}
	for _, line := range crashes {
		status := ExecError(ctx, 500, line)
		if status == nil {
			t.Error(`Line should be treated as a crash:`, line)
		}
	}
	progress := []string{
		`100%|==========| 26/26 [00:42<00:00,  1.62s/it]`,
		`speechbrain.core - Beginning experiment!`,
		`Epoch loaded: 1`,
	}
	for _, line := range progress {
		status := ExecError(ctx, 500, line)
		if status != nil {
			t.Error(`Line should be a warning only:`, line)
		}
	}
}
