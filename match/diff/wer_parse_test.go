package diff

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/entn-at/ts-asr/logger"
)

func TestParseWerFile(t *testing.T) {
	ctx := context.Background()
	log.SetOutput(`stderr`)
	pairs, status := ParseWerFile(ctx, filepath.Join(`testdata`, `wer_test.txt`))
	if status != nil {
		t.Fatal(status)
	}
	if len(pairs) != 2 {
		t.Fatal(`Expected 2 utterances, got`, len(pairs))
	}
	// Worst WER first
	if pairs[0].ID != `dev-2_text-1_e3` {
		t.Fatal(`Expected dev-2_text-1_e3 first, got`, pairs[0].ID)
	}
	if pairs[0].WER != 100.0 || pairs[0].ErrCount != 7 || pairs[0].WordCount != 7 {
		t.Error(`Wrong score for dev-2`, pairs[0])
	}
	if pairs[0].Ins != 0 || pairs[0].Del != 2 || pairs[0].Sub != 5 {
		t.Error(`Wrong edit counts for dev-2`, pairs[0])
	}
	if pairs[0].Ref != `good day to you sir i said` {
		t.Error(`Wrong reference for dev-2:`, pairs[0].Ref)
	}
	if pairs[0].Hyp != `gud dey two u surr` {
		t.Error(`Epsilon tokens should be dropped from the hypothesis:`, pairs[0].Hyp)
	}
	if pairs[1].ID != `dev-1_text-0_e1` || pairs[1].WER != 85.71 || pairs[1].Ins != 1 {
		t.Error(`Wrong second utterance`, pairs[1])
	}
	if pairs[1].Ref != `the quick brown fox jumped over` {
		t.Error(`Wrong reference for dev-1:`, pairs[1].Ref)
	}
	if pairs[1].Hyp != `a quack braun fax jumpd ovr it` {
		t.Error(`Wrong hypothesis for dev-1:`, pairs[1].Hyp)
	}
}

func TestParseWerFileNoAlignments(t *testing.T) {
	ctx := context.Background()
	werFile := filepath.Join(t.TempDir(), `wer_test.txt`)
	content := "%WER 92.86 [ 13 / 14, 1 ins, 2 del, 10 sub ]\nScored 2 sentences\n"
	err := os.WriteFile(werFile, []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}
	_, status := ParseWerFile(ctx, werFile)
	if status == nil {
		t.Fatal(`Summary only wer file should fail`)
	}
	if status.Status != 400 {
		t.Error(`Expected status 400, got`, status.Status)
	}
}

func TestWriteReport(t *testing.T) {
	ctx := context.Background()
	pairs, status := ParseWerFile(ctx, filepath.Join(`testdata`, `wer_test.txt`))
	if status != nil {
		t.Fatal(status)
	}
	writer := NewHTMLWriter(ctx, `SmokeTest`)
	outputDir := t.TempDir()
	filename, status := writer.WriteReport(outputDir, `rnn-t`, pairs)
	if status != nil {
		t.Fatal(status)
	}
	if filepath.Base(filename) != `SmokeTest_rnn-t_wer.html` {
		t.Error(`Wrong report filename`, filename)
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	html := string(content)
	for _, expect := range []string{`dev-1_text-0_e1`, `dev-2_text-1_e3`,
		`color:red`, `color:green`, `</html>`} {
		if !strings.Contains(html, expect) {
			t.Error(`Report should contain`, expect)
		}
	}
}
