package trainlog

import (
	"context"
	"strconv"

	log "github.com/entn-at/ts-asr/logger"
	"github.com/xuri/excelize/v2"
)

const SHEET1 = "Sheet1"

// ExcelReport writes the per-model metric summaries to a workbook.
type ExcelReport struct {
	ctx      context.Context
	file     *excelize.File
	filepath string
	styleId  int
	headId   int
	lineNum  int
}

func NewExcelReport(ctx context.Context, title string) ExcelReport {
	var r ExcelReport
	r.ctx = ctx
	r.file = excelize.NewFile()
	r.filepath = title + ".xlsx"
	return r
}

func (r *ExcelReport) setStyle() *log.Status {
	var err error
	r.styleId, err = r.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size:   12,
			Family: "Calibri",
		},
	})
	if err != nil {
		return log.Error(r.ctx, 500, err, `Error creating excel style`)
	}
	r.headId, err = r.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size:   12,
			Family: "Calibri",
			Bold:   true,
		},
	})
	if err != nil {
		return log.Error(r.ctx, 500, err, `Error creating excel heading style`)
	}
	return nil
}

// WriteModel appends the summary rows for one model family.
func (r *ExcelReport) WriteModel(model string, summaries []Summary) *log.Status {
	if r.styleId == 0 {
		status := r.setStyle()
		if status != nil {
			return status
		}
	}
	r.lineNum++
	status := r.writeRow(r.headId, model, `count`, `mean`, `std dev`, `min`, `final`)
	if status != nil {
		return status
	}
	for _, summary := range summaries {
		r.lineNum++
		status = r.writeRow(r.styleId, summary.Name,
			strconv.Itoa(summary.Count),
			strconv.FormatFloat(summary.Mean, 'f', 4, 64),
			strconv.FormatFloat(summary.StdDev, 'f', 4, 64),
			strconv.FormatFloat(summary.Min, 'f', 4, 64),
			strconv.FormatFloat(summary.Final, 'f', 4, 64))
		if status != nil {
			return status
		}
	}
	r.lineNum++ // blank row between models
	return nil
}

func (r *ExcelReport) writeRow(styleId int, values ...string) *log.Status {
	columns := []string{`A`, `B`, `C`, `D`, `E`, `F`}
	for i, value := range values {
		if i >= len(columns) {
			break
		}
		cell := columns[i] + strconv.Itoa(r.lineNum)
		err := r.file.SetCellValue(SHEET1, cell, value)
		if err != nil {
			return log.Error(r.ctx, 500, err, `Error writing excel cell`, cell)
		}
		err = r.file.SetCellStyle(SHEET1, cell, cell, styleId)
		if err != nil {
			return log.Error(r.ctx, 500, err, `Error styling excel cell`, cell)
		}
	}
	return nil
}

// Save writes the workbook and returns its path.
func (r *ExcelReport) Save() (string, *log.Status) {
	err := r.file.SaveAs(r.filepath)
	if err != nil {
		return r.filepath, log.Error(r.ctx, 500, err, `Error saving excel report`, r.filepath)
	}
	return r.filepath, nil
}
