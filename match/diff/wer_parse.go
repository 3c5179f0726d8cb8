package diff

import (
	"bufio"
	"context"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	log "github.com/entn-at/ts-asr/logger"
)

// Pair is one scored utterance from the trainer's WER detail file.
type Pair struct {
	ID        string
	WER       float64
	ErrCount  int
	WordCount int
	Ins       int
	Del       int
	Sub       int
	Ref       string
	Hyp       string
}

var werLine = regexp.MustCompile(`^(.+), %WER ([0-9.]+) \[ (\d+) / (\d+), (\d+) ins, (\d+) del, (\d+) sub \]`)

// ParseWerFile reads the per-utterance alignments the training framework
// writes after the test stage. Each utterance block is a scoring line
// followed by three token rows: reference, edit ops, hypothesis.
func ParseWerFile(ctx context.Context, werFile string) ([]Pair, *log.Status) {
	file, err := os.Open(werFile)
	if err != nil {
		return nil, log.Error(ctx, 404, err, `Unable to open wer file`, werFile)
	}
	defer file.Close()
	var results []Pair
	var pair *Pair
	tokenRow := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		match := werLine.FindStringSubmatch(line)
		// The summary header repeats the scoring shape without an id,
		// real utterance ids contain no space.
		if match != nil && !strings.Contains(match[1], ` `) {
			if pair != nil {
				results = append(results, *pair)
			}
			pair = scorePair(match)
			tokenRow = 0
			continue
		}
		if pair == nil || !strings.Contains(line, ` ; `) {
			continue
		}
		tokenRow++
		switch tokenRow {
		case 1:
			pair.Ref = joinTokens(line)
		case 3:
			pair.Hyp = joinTokens(line)
		}
	}
	if pair != nil {
		results = append(results, *pair)
	}
	err = scanner.Err()
	if err != nil {
		return results, log.Error(ctx, 500, err, `Error reading wer file`, werFile)
	}
	if len(results) == 0 {
		return results, log.ErrorNoErr(ctx, 400, `No utterance alignments found in`, werFile)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].WER > results[j].WER
	})
	return results, nil
}

func scorePair(match []string) *Pair {
	var pair Pair
	pair.ID = match[1]
	pair.WER, _ = strconv.ParseFloat(match[2], 64)
	pair.ErrCount, _ = strconv.Atoi(match[3])
	pair.WordCount, _ = strconv.Atoi(match[4])
	pair.Ins, _ = strconv.Atoi(match[5])
	pair.Del, _ = strconv.Atoi(match[6])
	pair.Sub, _ = strconv.Atoi(match[7])
	return &pair
}

func joinTokens(line string) string {
	var words []string
	for _, token := range strings.Split(line, `;`) {
		word := strings.TrimSpace(token)
		if word == `` || word == `<eps>` || word == `=` {
			continue
		}
		words = append(words, word)
	}
	return strings.Join(words, ` `)
}
