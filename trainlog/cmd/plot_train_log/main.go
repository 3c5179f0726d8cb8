package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	log "github.com/entn-at/ts-asr/logger"
	"github.com/entn-at/ts-asr/trainlog"
)

// Plots the loss curves of a train log and prints the metric summary.
func main() {
	var (
		outputImage = flag.String("o", "", "path to output image")
		xlabel      = flag.String("x", "Epoch", "x-axis label")
		ylabel      = flag.String("y", "Loss", "y-axis label")
		title       = flag.String("t", "", "title")
	)
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <path-to-train_log.txt>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	trainLog := flag.Arg(0)
	ctx := context.Background()
	log.SetOutput("stderr")
	metrics, status := trainlog.ParseTrainLog(ctx, trainLog)
	if status != nil {
		log.Fatal(status)
	}
	image := *outputImage
	if image == "" {
		image = strings.TrimSuffix(trainLog, ".txt") + ".png"
	}
	status = trainlog.PlotMetrics(ctx, metrics, image, *xlabel, *ylabel, *title)
	if status != nil {
		log.Fatal(status)
	}
	for _, summary := range trainlog.Summarize(metrics) {
		fmt.Printf("%-12s count: %3d  mean: %8.4f  std: %8.4f  min: %8.4f  final: %8.4f\n",
			summary.Name, summary.Count, summary.Mean, summary.StdDev, summary.Min, summary.Final)
	}
}
