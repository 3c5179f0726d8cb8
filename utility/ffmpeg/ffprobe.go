package ffmpeg

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/entn-at/ts-asr/logger"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

type ProbeData struct {
	Format ProbeFormat `json:"format"`
}

type ProbeFormat struct {
	Filename       string `json:"filename"`
	NBStreams      int    `json:"nb_streams"`
	FormatName     string `json:"format_name"`
	FormatLongName string `json:"format_long_name"`
	StartTime      string `json:"start_time"`
	Duration       string `json:"duration"`
	Size           string `json:"size"`
	BitRate        string `json:"bit_rate"`
	ProbeScore     int    `json:"probe_score"`
}

// GetAudioDuration returns the duration in seconds of a wav or flac file.
func GetAudioDuration(ctx context.Context, directory string, filename string) (float64, *log.Status) {
	var result float64
	probeData, status := GetProbeData(ctx, directory, filename)
	if status != nil {
		return result, status
	}
	if strings.TrimSpace(probeData.Format.Duration) == "" {
		return result, log.ErrorNoErr(ctx, 500, "No duration reported for audio file", filename)
	}
	var err error
	result, err = strconv.ParseFloat(probeData.Format.Duration, 64)
	if err != nil {
		return result, log.Error(ctx, 500, err, "Data conversion error in ffmpeg.GetAudioDuration")
	}
	return result, nil
}

func GetProbeData(ctx context.Context, directory string, filename string) (ProbeData, *log.Status) {
	var result ProbeData
	filePath := filepath.Join(directory, filename)
	data, err := ffmpeg.Probe(filePath)
	if err != nil {
		return result, log.Error(ctx, 500, err, "Error in ffmpeg.GetProbeData", filePath)
	}
	err = json.Unmarshal([]byte(data), &result)
	if err != nil {
		return result, log.Error(ctx, 500, err, "Error in ffmpeg.GetProbeData", filePath)
	}
	return result, nil
}
