package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/entn-at/ts-asr/cleanup"
	"github.com/entn-at/ts-asr/courier"
	"github.com/entn-at/ts-asr/db"
	"github.com/entn-at/ts-asr/decode_yaml"
	"github.com/entn-at/ts-asr/decode_yaml/request"
	"github.com/entn-at/ts-asr/fetch"
	log "github.com/entn-at/ts-asr/logger"
	"github.com/entn-at/ts-asr/match/diff"
	"github.com/entn-at/ts-asr/prepare"
	"github.com/entn-at/ts-asr/train"
	"github.com/entn-at/ts-asr/trainlog"
)

// Smoke-tests the training recipe: one short debug run per model family,
// strictly in sequence. The dataset folder named in the request must
// already exist, it is not created or checked here.
func main() {
	var (
		requestFile = flag.String("request", "", "Path to yaml job request (required)")
		enqueueURL  = flag.String("enqueue", "", "SQS queue URL to enqueue the request to after a passing run")
	)
	flag.Parse()
	if *requestFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -request <yaml_file> [options]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	yamlContent, err := os.ReadFile(*requestFile)
	if err != nil {
		log.Fatalf("Unable to read request file %s: %v", *requestFile, err)
	}
	ctx := context.WithValue(context.Background(), log.RequestKey, string(yamlContent))
	start := time.Now()

	decoder := decode_yaml.NewRequestDecoder(ctx)
	req, status := decoder.Process(yamlContent)
	if status != nil {
		log.Fatal(status)
	}
	post := courier.NewCourier(ctx, yamlContent)
	post.SetNotify(req.NotifyOk, req.NotifyErr)
	done := courier.LongRunNotify(ctx, req)

	conn, status := db.NewDBAdapter(ctx, outputFolder(req), req.DatasetName)
	if status == nil {
		defer conn.Close()
		status = runJob(ctx, conn, &post, req)
	}
	close(done)
	post.AddDatabase(conn)
	persistStatus := post.PersistToBucket()
	if status == nil {
		status = persistStatus
	}
	_ = post.Notification(status, time.Since(start))
	cleanup.CleanupRunDirectories(ctx)
	if status != nil {
		os.Exit(1)
	}
	if *enqueueURL != "" {
		_, status = courier.SQSEnqueue(ctx, *enqueueURL, string(yamlContent))
		if status != nil {
			os.Exit(1)
		}
	}
}

func runJob(ctx context.Context, conn db.DBAdapter, post *courier.Courier,
	req request.Request) *log.Status {
	status := conn.InsertIdent(req.DatasetName, req.Username, req.DataFolder)
	if status != nil {
		return status
	}
	if !req.Prepare.NoPrepare {
		status = prepareData(ctx, req)
		if status != nil {
			return status
		}
	}
	if !req.Training.NoTraining {
		trainer := train.NewTrainer(ctx, conn, req.DataFolder, req.Training)
		status = trainer.RunSmoke()
		if status != nil {
			return status
		}
	}
	if !req.Report.NoReport {
		status = writeReports(ctx, conn, post, req)
		if status != nil {
			return status
		}
	}
	return nil
}

func prepareData(ctx context.Context, req request.Request) *log.Status {
	splits := req.Prepare.Splits
	if len(splits) == 0 {
		splits = prepare.DefaultSplits
	}
	if req.Prepare.ProbeDuration {
		// Pre-mixed distributions ship their own list/ annotations
		return prepare.PrepareDevTest(ctx, req.DataFolder, splits)
	}
	status := fetch.DownloadAnnotations(ctx, req.DataFolder, splits)
	if status != nil {
		return status
	}
	return prepare.PrepareLibriSpeechMix(ctx, req.DataFolder, ``, req.Prepare)
}

// writeReports builds the selected report from the train logs the
// recipe wrote during each run.
func writeReports(ctx context.Context, conn db.DBAdapter, post *courier.Courier,
	req request.Request) *log.Status {
	runs, status := conn.SelectRuns()
	if status != nil {
		return status
	}
	output := outputFolder(req)
	excel := trainlog.NewExcelReport(ctx, filepath.Join(output, req.DatasetName))
	for _, run := range runs {
		logPath := filepath.Join(output, run.Model, `train_log.txt`)
		if _, err := os.Stat(logPath); err != nil {
			log.Warn(ctx, `No train log found for`, run.Model, logPath)
			continue
		}
		metrics, status2 := trainlog.ParseTrainLog(ctx, logPath)
		if status2 != nil {
			return status2
		}
		status2 = trainlog.StoreMetrics(conn, run.RunId, metrics)
		if status2 != nil {
			return status2
		}
		if req.Report.ExcelReport {
			status2 = excel.WriteModel(run.Model, trainlog.Summarize(metrics))
			if status2 != nil {
				return status2
			}
		}
		if req.Report.PlotReport {
			image := filepath.Join(output, req.DatasetName+`_`+run.Model+`.png`)
			status2 = trainlog.PlotMetrics(ctx, metrics, image, `Epoch`, `Loss`, run.Model)
			if status2 != nil {
				return status2
			}
			post.AddOutput(image)
		}
		if req.Report.HTMLReport {
			status2 = writeWerReport(ctx, post, req, output, run.Model)
			if status2 != nil {
				return status2
			}
		}
	}
	if req.Report.ExcelReport {
		path, status2 := excel.Save()
		if status2 != nil {
			return status2
		}
		post.AddOutput(path)
	}
	return nil
}

func writeWerReport(ctx context.Context, post *courier.Courier, req request.Request,
	output string, model string) *log.Status {
	werFile := filepath.Join(output, model, `wer_test.txt`)
	if _, err := os.Stat(werFile); err != nil {
		log.Warn(ctx, `No wer file found for`, model, werFile)
		return nil
	}
	pairs, status := diff.ParseWerFile(ctx, werFile)
	if status != nil {
		return status
	}
	writer := diff.NewHTMLWriter(ctx, req.DatasetName)
	path, status := writer.WriteReport(output, model, pairs)
	if status != nil {
		return status
	}
	post.AddOutput(path)
	return nil
}

func outputFolder(req request.Request) string {
	if req.OutputFolder != `` {
		return req.OutputFolder
	}
	return filepath.Join(os.Getenv(`TSASR_OUTPUT_DIR`), req.DatasetName)
}
