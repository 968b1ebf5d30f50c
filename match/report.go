package match

import (
	"context"
	"strconv"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/xuri/excelize/v2"

	log "github.com/kmatton/speech-feature-io/logger"
)

// ExcelReport writes hypothesis diffs to a spreadsheet, one block of
// three rows per pair. Words dropped by the second hypothesis show red,
// words it added show green.
type ExcelReport struct {
	ctx         context.Context
	file        *excelize.File
	filepath    string
	styleId     int
	colDStyleId int
	lineNum     int
}

const sheet1 = `Sheet1`

func NewExcelReport(ctx context.Context, filePath string) ExcelReport {
	var r ExcelReport
	r.ctx = ctx
	r.file = excelize.NewFile()
	r.filepath = filePath
	return r
}

func (r *ExcelReport) setStyle() *log.Status {
	var err error
	r.styleId, err = r.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size:   12,
			Family: `Calibri`,
			Color:  `#000000`,
		},
	})
	if err != nil {
		return log.Error(r.ctx, 500, err, `Failed to create new style.`)
	}
	_ = r.file.SetColWidth(sheet1, `A`, `A`, 24)
	_ = r.file.SetColWidth(sheet1, `B`, `B`, 10)
	_ = r.file.SetColWidth(sheet1, `C`, `C`, 6)
	_ = r.file.SetColWidth(sheet1, `D`, `D`, 120)
	r.colDStyleId, err = r.file.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			WrapText: true,
			Vertical: `top`,
		},
		Font: &excelize.Font{
			Size:   12,
			Family: `Calibri`,
			Color:  `#000000`,
		},
	})
	if err != nil {
		return log.Error(r.ctx, 500, err, `Failed to create new style.`)
	}
	return nil
}

// WriteReport writes every pair and saves the file.
func WriteReport(ctx context.Context, filePath string, pairs []Pair) *log.Status {
	rpt := NewExcelReport(ctx, filePath)
	status := rpt.setStyle()
	if status != nil {
		return status
	}
	for _, pair := range pairs {
		status = rpt.generateBlock(pair)
		if status != nil {
			return status
		}
	}
	return rpt.writeFile()
}

func (r *ExcelReport) generateBlock(pair Pair) *log.Status {
	r.lineNum += 1
	status := r.writeCell(`A`, pair.GroupId)
	if status != nil {
		return status
	}
	status = r.writeCell(`B`, `hyp `+strconv.Itoa(pair.BaseNum))
	if status != nil {
		return status
	}
	status = r.writeCell(`C`, `Text`)
	if status != nil {
		return status
	}
	status = r.writeCell(`D`, pair.Base)
	if status != nil {
		return status
	}
	r.lineNum += 1
	status = r.writeCell(`B`, `hyp `+strconv.Itoa(pair.CompNum))
	if status != nil {
		return status
	}
	status = r.writeCell(`C`, `Text`)
	if status != nil {
		return status
	}
	status = r.writeCell(`D`, pair.Comp)
	if status != nil {
		return status
	}
	r.lineNum += 1
	status = r.writeCell(`C`, `Diff`)
	if status != nil {
		return status
	}
	return r.writeLine(`D`, r.generateDiffLine(pair.Diffs))
}

func (r *ExcelReport) generateDiffLine(diffs []diffmatchpatch.Diff) []excelize.RichTextRun {
	var result []excelize.RichTextRun
	for _, diff := range diffs {
		var item excelize.RichTextRun
		switch diff.Type {
		case diffmatchpatch.DiffEqual: // in both hypotheses
			item = excelize.RichTextRun{Text: diff.Text, Font: &excelize.Font{
				Size:   12,
				Family: `Calibri`,
				Color:  `#000000`}}
		case diffmatchpatch.DiffDelete: // in base only red
			item = excelize.RichTextRun{Text: diff.Text, Font: &excelize.Font{
				Size:   12,
				Family: `Calibri`,
				Color:  `#FF0000`}}
		case diffmatchpatch.DiffInsert: // in comp only green
			item = excelize.RichTextRun{Text: diff.Text, Font: &excelize.Font{
				Size:   12,
				Family: `Calibri`,
				Color:  `#008000`}}
		}
		result = append(result, item)
	}
	return result
}

func (r *ExcelReport) writeCell(col string, value string) *log.Status {
	cell := col + strconv.Itoa(r.lineNum)
	err := r.file.SetCellValue(sheet1, cell, value)
	if err != nil {
		return log.Error(r.ctx, 500, err, `Unable to write cell.`)
	}
	return nil
}

func (r *ExcelReport) writeLine(col string, line []excelize.RichTextRun) *log.Status {
	cell := col + strconv.Itoa(r.lineNum)
	err := r.file.SetCellRichText(sheet1, cell, line)
	if err != nil {
		return log.Error(r.ctx, 500, err, `Failed to write excel line.`)
	}
	return nil
}

func (r *ExcelReport) writeFile() *log.Status {
	if r.lineNum == 0 {
		r.lineNum = 1
	}
	lastCell := `C` + strconv.Itoa(r.lineNum)
	err := r.file.SetCellStyle(sheet1, `A1`, lastCell, r.styleId)
	if err != nil {
		return log.Error(r.ctx, 500, err, `Failed to set styles for A-C.`)
	}
	lastCell = `D` + strconv.Itoa(r.lineNum)
	err = r.file.SetCellStyle(sheet1, `D1`, lastCell, r.colDStyleId)
	if err != nil {
		return log.Error(r.ctx, 500, err, `Failed to set styles for D.`)
	}
	err = r.file.SaveAs(r.filepath)
	if err != nil {
		return log.Error(r.ctx, 500, err, `Failed to save compare report`)
	}
	return nil
}
