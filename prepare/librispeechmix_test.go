package prepare

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/entn-at/ts-asr/decode_yaml/request"
	log "github.com/entn-at/ts-asr/logger"
)

// One dev annotation with two speakers. Speaker 0 is 3.0 sec, speaker 1
// starts 1.5 sec in and runs 2.0 sec, so the mixture is 3.5 sec long.
const devAnnotation = `{"id": "dev-1", "mixed_wav": "dev-1.wav",` +
	` "wavs": ["a/1.wav", "b/2.wav"], "texts": ["HELLO THERE", "GOOD DAY"],` +
	` "delays": [0.0, 1.5], "durations": [3.0, 2.0],` +
	` "speakers": ["19", "26"], "genders": ["f", "m"],` +
	` "speaker_profile": [["e1.wav", "e2.wav"], ["e3.wav"]],` +
	` "speaker_profile_index": [0, 1]}`

func writeAnnotationFile(t *testing.T, dir string, split string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, split+`.jsonl`), []byte(devAnnotation+"\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}
}

func readManifest(t *testing.T, path string) map[string]ManifestEntry {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	entries := make(map[string]ManifestEntry)
	err = json.Unmarshal(content, &entries)
	if err != nil {
		t.Fatal(err)
	}
	return entries
}

func TestPrepareLibriSpeechMix(t *testing.T) {
	ctx := context.Background()
	log.SetOutput(`stderr`)
	dataFolder := t.TempDir()
	writeAnnotationFile(t, dataFolder, `dev-clean-2mix`)
	var args request.Prepare
	args.Splits = []string{`dev-clean-2mix`}
	status := PrepareLibriSpeechMix(ctx, dataFolder, ``, args)
	if status != nil {
		t.Fatal(status)
	}
	entries := readManifest(t, filepath.Join(dataFolder, `dev.json`))
	// 2 targets, with 2 and 1 enrollment utterances
	if len(entries) != 3 {
		t.Fatal(`Expected 3 manifest entries, got`, len(entries))
	}
	entry, ok := entries[`dev-1_text-0_e2.wav`]
	if !ok {
		t.Fatal(`Missing entry dev-1_text-0_e2.wav`)
	}
	if entry.Wrd != `HELLO THERE` {
		t.Error(`Wrong target text`, entry.Wrd)
	}
	if entry.EnrollWav != DataRoot+`/e2.wav` {
		t.Error(`Enroll wav should be under the data root, got`, entry.EnrollWav)
	}
	if entry.Start != 0.0 || entry.Duration != 3.5 {
		t.Error(`Expected full mixture 0.0/3.5, got`, entry.Start, entry.Duration)
	}
	entry = entries[`dev-1_text-1_e3.wav`]
	if entry.TargetSpeakerIdx != 1 || entry.Wrd != `GOOD DAY` {
		t.Error(`Wrong second target`, entry.TargetSpeakerIdx, entry.Wrd)
	}
	if len(entry.Delays) != 2 || entry.Delays[1] != 1.5 {
		t.Error(`Delays should be kept from the annotation, got`, entry.Delays)
	}
}

func TestPrepareSuppressDelay(t *testing.T) {
	ctx := context.Background()
	dataFolder := t.TempDir()
	writeAnnotationFile(t, dataFolder, `dev-clean-2mix`)
	var args request.Prepare
	args.Splits = []string{`dev-clean-2mix`}
	args.SuppressDelay = true
	status := PrepareLibriSpeechMix(ctx, dataFolder, ``, args)
	if status != nil {
		t.Fatal(status)
	}
	entries := readManifest(t, filepath.Join(dataFolder, `dev.json`))
	entry := entries[`dev-1_text-0_e1.wav`]
	for _, delay := range entry.Delays {
		if delay != 0.0 {
			t.Fatal(`All delays should be zero, got`, entry.Delays)
		}
	}
	// With no delays the mixture is only as long as the longest utterance
	if entry.Duration != 3.0 {
		t.Error(`Expected duration 3.0, got`, entry.Duration)
	}
}

func TestPrepareOverlapRatio(t *testing.T) {
	ctx := context.Background()
	dataFolder := t.TempDir()
	writeAnnotationFile(t, dataFolder, `dev-clean-2mix`)
	ratio := 0.5
	var args request.Prepare
	args.Splits = []string{`dev-clean-2mix`}
	args.OverlapRatio = &ratio
	status := PrepareLibriSpeechMix(ctx, dataFolder, ``, args)
	if status != nil {
		t.Fatal(status)
	}
	entries := readManifest(t, filepath.Join(dataFolder, `dev.json`))
	// Target 0 is 3.0 sec, so the other speaker starts at 1.5
	entry := entries[`dev-1_text-0_e1.wav`]
	if entry.Delays[0] != 0.0 || entry.Delays[1] != 1.5 {
		t.Error(`Expected overlap delays [0 1.5], got`, entry.Delays)
	}
	// Target 1 is 2.0 sec, so the other speaker starts at 1.0
	entry = entries[`dev-1_text-1_e3.wav`]
	if entry.Delays[0] != 1.0 || entry.Delays[1] != 0.0 {
		t.Error(`Expected overlap delays [1 0], got`, entry.Delays)
	}
}

func TestPrepareTrimNontarget(t *testing.T) {
	ctx := context.Background()
	dataFolder := t.TempDir()
	writeAnnotationFile(t, dataFolder, `dev-clean-2mix`)
	trim := 0.5
	var args request.Prepare
	args.Splits = []string{`dev-clean-2mix`}
	args.TrimNontarget = &trim
	status := PrepareLibriSpeechMix(ctx, dataFolder, ``, args)
	if status != nil {
		t.Fatal(status)
	}
	entries := readManifest(t, filepath.Join(dataFolder, `dev.json`))
	// Target 1 starts at 1.5 and runs 2.0 sec. Trimming keeps 0.5 sec of
	// context on each side, so the segment is 3.0 sec starting at 1.5.
	entry := entries[`dev-1_text-1_e3.wav`]
	if entry.Start != 1.5 {
		t.Error(`Expected start 1.5, got`, entry.Start)
	}
	if math.Abs(entry.Duration-3.0) > 1e-9 {
		t.Error(`Expected duration 3.0, got`, entry.Duration)
	}
	// Target 0 covers the whole mixture, the trim cannot extend past it
	entry = entries[`dev-1_text-0_e1.wav`]
	if math.Abs(entry.Duration-3.5) > 1e-9 {
		t.Error(`Expected duration capped at 3.5, got`, entry.Duration)
	}
}

func TestPrepareNumTargetsAndEnrolls(t *testing.T) {
	ctx := context.Background()
	dataFolder := t.TempDir()
	writeAnnotationFile(t, dataFolder, `dev-clean-2mix`)
	var args request.Prepare
	args.Splits = []string{`dev-clean-2mix`}
	args.NumTargets = 1
	args.NumEnrolls = 1
	status := PrepareLibriSpeechMix(ctx, dataFolder, ``, args)
	if status != nil {
		t.Fatal(status)
	}
	entries := readManifest(t, filepath.Join(dataFolder, `dev.json`))
	if len(entries) != 1 {
		t.Fatal(`Expected 1 entry with num_targets and num_enrolls capped, got`, len(entries))
	}
	if _, ok := entries[`dev-1_text-0_e1.wav`]; !ok {
		t.Error(`Expected only the first target and enrollment to remain`)
	}
}

func TestGroupSplits(t *testing.T) {
	ctx := context.Background()
	groups, status := groupSplits(ctx, DefaultSplits, true)
	if status != nil {
		t.Fatal(status)
	}
	if len(groups[`train`]) != 3 || len(groups[`dev`]) != 3 || len(groups[`test`]) != 3 {
		t.Error(`Default splits should group 3/3/3, got`, groups)
	}
	order := groupOrder(groups)
	expect := []string{`train`, `dev`, `test`}
	for i, name := range order {
		if name != expect[i] {
			t.Error(`Group order should be train, dev, test, got`, order)
		}
	}
	_, status = groupSplits(ctx, []string{`eval-other`}, true)
	if status == nil {
		t.Error(`Unknown split prefix should fail`)
	}
}

func TestGroupSplitsDevTestOnly(t *testing.T) {
	ctx := context.Background()
	_, status := groupSplits(ctx, []string{`train-2mix`}, false)
	if status == nil {
		t.Fatal(`Train split should be rejected by the pre-mixed preparation`)
	}
	if !strings.Contains(status.Message, `must start with dev or test`) {
		t.Error(`Error should name the dev/test restriction:`, status.Message)
	}
}

func TestPrepareMissingAnnotation(t *testing.T) {
	ctx := context.Background()
	var args request.Prepare
	args.Splits = []string{`dev-clean-1mix`}
	status := PrepareLibriSpeechMix(ctx, t.TempDir(), ``, args)
	if status == nil {
		t.Fatal(`Missing annotation file should fail`)
	}
	if status.Status != 404 {
		t.Error(`Expected status 404, got`, status.Status)
	}
}
