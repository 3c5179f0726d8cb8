package courier

import (
	"context"
	"strconv"
	"time"

	"github.com/entn-at/ts-asr/decode_yaml/request"
	log "github.com/entn-at/ts-asr/logger"
)

// LongRunNotify emails the error addresses if the job runs past its time
// estimate. A smoke run over every model family is minutes, not hours, so
// a long runner usually means the trainer is hung on data loading.
func LongRunNotify(ctx context.Context, req request.Request) chan struct{} {
	var estimateMin = 5.0
	if !req.Prepare.NoPrepare {
		estimateMin += 10.0
	}
	if !req.Training.NoTraining {
		if req.Training.Debug == nil || *req.Training.Debug {
			estimateMin += 30.0
		} else {
			estimateMin += 480.0
		}
	}
	estimateMin *= 2.0
	log.Info(ctx, "Process will email if runs over", strconv.FormatFloat(estimateMin, 'g', 0, 64),
		"minutes.")
	threshold := time.Duration(estimateMin*60.0) * time.Second

	done := make(chan struct{})
	go func() {
		select {
		case <-time.After(threshold):
			recipients := emails(req.NotifyErr)
			msg := "username: " + req.Username + "\n" +
				"dataset_name: " + req.DatasetName + "\n" +
				"Has been running for " + strconv.FormatFloat(estimateMin, 'f', 1, 64) + " minutes."
			_ = SendEmail(ctx, recipients, "TS-ASR: Long Running Job", msg, nil)
		case <-done:
			// Job completed before threshold - monitoring done
		}
	}()
	return done
}
