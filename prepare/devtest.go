package prepare

import (
	"context"
	"path/filepath"
	"strconv"

	log "github.com/entn-at/ts-asr/logger"
	"github.com/entn-at/ts-asr/utility/ffmpeg"
)

var DefaultDevTestSplits = []string{
	`dev-clean-1mix`, `dev-clean-2mix`, `dev-clean-3mix`,
	`test-clean-1mix`, `test-clean-2mix`, `test-clean-3mix`,
}

// PrepareDevTest builds manifest JSON files for the pre-mixed dev and test
// data, where the mixture wavs are already on disk under data/ and the
// annotation files under list/. The mixture duration is probed from the
// audio file itself.
func PrepareDevTest(ctx context.Context, dataFolder string, splits []string) *log.Status {
	if len(splits) == 0 {
		splits = DefaultDevTestSplits
	}
	groups, status := groupSplits(ctx, splits, false)
	if status != nil {
		return status
	}
	for _, groupName := range groupOrder(groups) {
		entries := make(map[string]DevTestEntry)
		for _, split := range groups[groupName] {
			log.Info(ctx, `Split:`, split)
			inputJsonl := filepath.Join(dataFolder, `list`, split+`.jsonl`)
			var probeStatus *log.Status
			status = readAnnotations(ctx, inputJsonl, func(annotation Annotation) {
				if probeStatus != nil {
					return
				}
				probeStatus = expandDevTest(ctx, dataFolder, annotation, entries)
			})
			if status != nil {
				return status
			}
			if probeStatus != nil {
				return probeStatus
			}
		}
		outputJson := filepath.Join(dataFolder, groupName+`.json`)
		status = writeManifest(ctx, outputJson, entries)
		if status != nil {
			return status
		}
	}
	log.Info(ctx, `Manifest preparation done`)
	return nil
}

func expandDevTest(ctx context.Context, dataFolder string, annotation Annotation,
	entries map[string]DevTestEntry) *log.Status {
	duration, status := ffmpeg.GetAudioDuration(ctx, filepath.Join(dataFolder, `data`), annotation.MixedWav)
	if status != nil {
		return status
	}
	mixedWav := filepath.Join(DataRoot, `data`, annotation.MixedWav)
	for i, text := range annotation.Texts {
		if i >= len(annotation.SpeakerProfileIndex) {
			break
		}
		idx := annotation.SpeakerProfileIndex[i]
		idText := annotation.ID + `_text-` + strconv.Itoa(i)
		for _, enrollWav := range annotation.SpeakerProfile[idx] {
			idEnroll := idText + `_` + enrollWav
			entries[idEnroll] = DevTestEntry{
				MixedWav:      mixedWav,
				EnrollWav:     filepath.Join(DataRoot, `data`, enrollWav),
				Transcription: text,
				Duration:      duration,
			}
		}
	}
	return nil
}
