package prepare

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/entn-at/ts-asr/decode_yaml/request"
	log "github.com/entn-at/ts-asr/logger"
)

var DefaultSplits = []string{
	`train-1mix`, `train-2mix`, `train-3mix`,
	`dev-clean-1mix`, `dev-clean-2mix`, `dev-clean-3mix`,
	`test-clean-1mix`, `test-clean-2mix`, `test-clean-3mix`,
}

// PrepareLibriSpeechMix builds the train/dev/test manifest JSON files from
// the LibriSpeechMix jsonl annotation files found in dataFolder. Splits with
// the same prefix are merged into a single manifest (e.g. dev-clean-1mix and
// dev-clean-2mix). One entry is written per target utterance and enrollment
// utterance of each mixture.
func PrepareLibriSpeechMix(ctx context.Context, dataFolder string, saveFolder string,
	args request.Prepare) *log.Status {
	if saveFolder == `` {
		saveFolder = dataFolder
	}
	splits := args.Splits
	if len(splits) == 0 {
		splits = DefaultSplits
	}
	groups, status := groupSplits(ctx, splits, true)
	if status != nil {
		return status
	}
	for _, groupName := range groupOrder(groups) {
		entries := make(map[string]ManifestEntry)
		for _, split := range groups[groupName] {
			log.Info(ctx, `Split:`, split)
			inputJsonl := filepath.Join(dataFolder, split+`.jsonl`)
			status = readAnnotations(ctx, inputJsonl, func(annotation Annotation) {
				expandAnnotation(annotation, args, entries)
			})
			if status != nil {
				return status
			}
		}
		outputJson := filepath.Join(saveFolder, groupName+`.json`)
		status = writeManifest(ctx, outputJson, entries)
		if status != nil {
			return status
		}
	}
	log.Info(ctx, `Manifest preparation done`)
	return nil
}

// expandAnnotation writes one manifest entry per target text and enrollment
// utterance, applying the delay and trim options to each.
func expandAnnotation(annotation Annotation, args request.Prepare, entries map[string]ManifestEntry) {
	texts := capStrings(annotation.Texts, args.NumTargets)
	profileIndex := capInts(annotation.SpeakerProfileIndex, args.NumTargets)
	wavs := make([]string, len(annotation.Wavs))
	for i, wav := range annotation.Wavs {
		wavs[i] = filepath.Join(DataRoot, wav)
	}
	for targetSpeakerIdx, text := range texts {
		if targetSpeakerIdx >= len(profileIndex) {
			break
		}
		idx := profileIndex[targetSpeakerIdx]
		idText := annotation.ID + `_text-` + strconv.Itoa(targetSpeakerIdx)

		delays := annotation.Delays
		if args.SuppressDelay {
			delays = make([]float64, len(annotation.Delays))
		}
		if args.OverlapRatio != nil {
			targetDuration := annotation.Durations[targetSpeakerIdx]
			overlapStart := (1.0 - *args.OverlapRatio) * targetDuration
			delays = make([]float64, len(wavs))
			for i := range delays {
				delays[i] = overlapStart
			}
			delays[targetSpeakerIdx] = 0
		}

		start := 0.0
		maxDuration := 0.0
		for i, delay := range delays {
			if delay+annotation.Durations[i] > maxDuration {
				maxDuration = delay + annotation.Durations[i]
			}
		}
		duration := maxDuration
		if args.TrimNontarget != nil {
			start = delays[targetSpeakerIdx]
			duration = annotation.Durations[targetSpeakerIdx]
			newStart := start - *args.TrimNontarget
			if newStart < 0.0 {
				newStart = 0.0
			}
			duration += start - newStart
			duration += *args.TrimNontarget
			if duration > maxDuration {
				duration = maxDuration
			}
		}

		enrollWavs := capStrings(annotation.SpeakerProfile[idx], args.NumEnrolls)
		for _, enrollWav := range enrollWavs {
			idEnroll := idText + `_` + enrollWav
			entries[idEnroll] = ManifestEntry{
				Wavs:             wavs,
				EnrollWav:        filepath.Join(DataRoot, enrollWav),
				Delays:           delays,
				Start:            start,
				Duration:         duration,
				TargetSpeakerIdx: targetSpeakerIdx,
				Wrd:              text,
			}
		}
	}
}

// groupSplits merges splits by prefix. Train splits are only legal when
// allowTrain is set; the pre-mixed dev/test preparation has no train data.
func groupSplits(ctx context.Context, splits []string, allowTrain bool) (map[string][]string, *log.Status) {
	groups := make(map[string][]string)
	for _, split := range splits {
		if strings.HasPrefix(split, `train`) {
			if !allowTrain {
				return groups, log.ErrorNoErr(ctx, 400, `Split`, split, `must start with dev or test`)
			}
			groups[`train`] = append(groups[`train`], split)
		} else if strings.HasPrefix(split, `dev`) {
			groups[`dev`] = append(groups[`dev`], split)
		} else if strings.HasPrefix(split, `test`) {
			groups[`test`] = append(groups[`test`], split)
		} else {
			return groups, log.ErrorNoErr(ctx, 400, `Split`, split, `must start with train, dev or test`)
		}
	}
	return groups, nil
}

func groupOrder(groups map[string][]string) []string {
	var order []string
	for _, name := range []string{`train`, `dev`, `test`} {
		if len(groups[name]) > 0 {
			order = append(order, name)
		}
	}
	return order
}

func readAnnotations(ctx context.Context, inputJsonl string, each func(Annotation)) *log.Status {
	file, err := os.Open(inputJsonl)
	if err != nil {
		return log.Error(ctx, 404, err, inputJsonl, `not found. Download the annotation files`,
			`from https://github.com/NaoyukiKanda/LibriSpeechMix`)
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == `` {
			continue
		}
		var annotation Annotation
		err = json.Unmarshal([]byte(line), &annotation)
		if err != nil {
			return log.Error(ctx, 500, err, `Error decoding annotation line in`, inputJsonl)
		}
		each(annotation)
	}
	err = scanner.Err()
	if err != nil {
		return log.Error(ctx, 500, err, `Error reading`, inputJsonl)
	}
	return nil
}

func writeManifest(ctx context.Context, outputJson string, entries any) *log.Status {
	log.Info(ctx, `Writing`, outputJson)
	jsonData, err := json.MarshalIndent(entries, ``, `    `)
	if err != nil {
		return log.Error(ctx, 500, err, `Error marshalling manifest`, outputJson)
	}
	err = os.WriteFile(outputJson, jsonData, 0644)
	if err != nil {
		return log.Error(ctx, 500, err, `Error writing manifest`, outputJson)
	}
	return nil
}

func capStrings(items []string, max int) []string {
	if max > 0 && max < len(items) {
		return items[:max]
	}
	return items
}

func capInts(items []int, max int) []int {
	if max > 0 && max < len(items) {
		return items[:max]
	}
	return items
}
