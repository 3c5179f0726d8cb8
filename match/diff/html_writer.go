package diff

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"time"

	log "github.com/entn-at/ts-asr/logger"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// HTMLWriter renders the scored utterances as an html table, worst first,
// with character level differences colored.
type HTMLWriter struct {
	ctx         context.Context
	datasetName string
	diffMatch   *diffmatchpatch.DiffMatchPatch
	out         *os.File
	diffCount   int
	insertSum   int
	deleteSum   int
}

func NewHTMLWriter(ctx context.Context, datasetName string) HTMLWriter {
	var h HTMLWriter
	h.ctx = ctx
	h.datasetName = datasetName
	h.diffMatch = diffmatchpatch.New()
	return h
}

// WriteReport writes the diff report for one model family and returns its path.
func (h *HTMLWriter) WriteReport(outputDir string, model string, pairs []Pair) (string, *log.Status) {
	var err error
	filename := filepath.Join(outputDir, h.datasetName+`_`+model+`_wer.html`)
	h.out, err = os.Create(filename)
	if err != nil {
		return ``, log.Error(h.ctx, 500, err, `Error creating output file for diff`)
	}
	defer h.out.Close()
	h.writeHeading(model)
	for _, pair := range pairs {
		h.writeLine(pair)
	}
	h.writeEnd()
	return filename, nil
}

func (h *HTMLWriter) writeHeading(model string) {
	head := `<!DOCTYPE html>
<html>
 <head>
  <meta charset="utf-8">
  <title>WER Report</title>
 </head>
<body>
`
	_, _ = h.out.WriteString(head)
	_, _ = h.out.WriteString(`<h2 style="text-align:center">WER report for `)
	_, _ = h.out.WriteString(h.datasetName)
	_, _ = h.out.WriteString(` model `)
	_, _ = h.out.WriteString(model)
	_, _ = h.out.WriteString("</h2>\n")
	_, _ = h.out.WriteString(`<h3 style="text-align:center">`)
	_, _ = h.out.WriteString(time.Now().Format(`Mon Jan 2 2006 03:04:05 pm MST`))
	_, _ = h.out.WriteString("</h3>\n")
	_, _ = h.out.WriteString(`<h3 style="text-align:center">RED characters are reference only, ` +
		`GREEN characters are hypothesis only</h3>` + "\n")
	table := `<table border="1" cellpadding="4" style="margin-left:auto;margin-right:auto">
<thead>
<tr><th>Utterance</th><th>WER</th><th>Ins</th><th>Del</th><th>Sub</th><th>Text</th></tr>
</thead>
<tbody>
`
	_, _ = h.out.WriteString(table)
}

func (h *HTMLWriter) writeLine(pair Pair) {
	diffs := h.diffMatch.DiffMain(pair.Ref, pair.Hyp, false)
	diffs = h.diffMatch.DiffCleanupSemantic(diffs)
	if len(diffs) > 1 {
		h.diffCount++
	}
	_, _ = h.out.WriteString(`<tr><td>`)
	_, _ = h.out.WriteString(pair.ID)
	_, _ = h.out.WriteString(`</td><td>`)
	_, _ = h.out.WriteString(strconv.FormatFloat(pair.WER, 'f', 2, 64))
	_, _ = h.out.WriteString(`</td><td>`)
	_, _ = h.out.WriteString(strconv.Itoa(pair.Ins))
	_, _ = h.out.WriteString(`</td><td>`)
	_, _ = h.out.WriteString(strconv.Itoa(pair.Del))
	_, _ = h.out.WriteString(`</td><td>`)
	_, _ = h.out.WriteString(strconv.Itoa(pair.Sub))
	_, _ = h.out.WriteString(`</td><td>`)
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffEqual:
			_, _ = h.out.WriteString(diff.Text)
		case diffmatchpatch.DiffDelete:
			h.deleteSum += len(diff.Text)
			_, _ = h.out.WriteString(`<span style="color:red">` + diff.Text + `</span>`)
		case diffmatchpatch.DiffInsert:
			h.insertSum += len(diff.Text)
			_, _ = h.out.WriteString(`<span style="color:green">` + diff.Text + `</span>`)
		}
	}
	_, _ = h.out.WriteString("</td></tr>\n")
}

func (h *HTMLWriter) writeEnd() {
	_, _ = h.out.WriteString("</tbody></table>\n")
	_, _ = h.out.WriteString(`<p style="text-align:center">`)
	_, _ = h.out.WriteString(strconv.Itoa(h.diffCount))
	_, _ = h.out.WriteString(` utterances differ, `)
	_, _ = h.out.WriteString(strconv.Itoa(h.deleteSum))
	_, _ = h.out.WriteString(` chars reference only, `)
	_, _ = h.out.WriteString(strconv.Itoa(h.insertSum))
	_, _ = h.out.WriteString(" chars hypothesis only</p>\n")
	_, _ = h.out.WriteString("</body></html>\n")
}
