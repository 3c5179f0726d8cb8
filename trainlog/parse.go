package trainlog

import (
	"bufio"
	"context"
	"os"
	"strconv"
	"strings"

	log "github.com/entn-at/ts-asr/logger"
)

// ExpectedMetrics are the train_log.txt columns every epoch line should
// carry. Metrics absent from a line are recorded as NaN so that all
// series stay aligned by epoch.
var ExpectedMetrics = []string{
	`epoch`,
	`train loss`,
	`valid loss`,
	`valid CER`,
	`valid WER`,
}

type Metrics map[string][]float64

// ParseTrainLog extracts metric names and values from a train log written
// by the training framework. A line looks like:
// epoch: 1, lr: 1.00e-03, steps: 42 - train loss: 3.21 - valid loss: 2.87, valid CER: 61.11, valid WER: 93.10
func ParseTrainLog(ctx context.Context, trainLog string) (Metrics, *log.Status) {
	file, err := os.Open(trainLog)
	if err != nil {
		return nil, log.Error(ctx, 404, err, `Unable to open train log`, trainLog)
	}
	defer file.Close()
	metrics := make(Metrics)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		line = strings.ReplaceAll(line, ` - `, `, `)
		if line == `` {
			continue
		}
		names, values := splitTokens(line)
		for _, name := range ExpectedMetrics {
			if !contains(names, name) {
				names = append(names, name)
				values = append(values, `nan`)
			}
		}
		for i, name := range names {
			// ParseFloat accepts the literal nan fill values
			value, err2 := strconv.ParseFloat(values[i], 64)
			if err2 != nil {
				continue
			}
			metrics[name] = append(metrics[name], value)
		}
	}
	err = scanner.Err()
	if err != nil {
		return metrics, log.Error(ctx, 500, err, `Error reading train log`, trainLog)
	}
	if len(metrics) == 0 {
		return metrics, log.ErrorNoErr(ctx, 400, `No metrics found in train log`, trainLog)
	}
	return metrics, nil
}

func splitTokens(line string) ([]string, []string) {
	var names []string
	var values []string
	for _, token := range strings.Split(line, `, `) {
		parts := strings.SplitN(token, `: `, 2)
		if len(parts) != 2 {
			continue
		}
		names = append(names, strings.TrimSpace(parts[0]))
		values = append(values, strings.TrimSpace(parts[1]))
	}
	return names, values
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
