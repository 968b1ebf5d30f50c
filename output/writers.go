package output

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/kmatton/speech-feature-io/db"
	log "github.com/kmatton/speech-feature-io/logger"
)

// WriteCSV writes the table with a group_id column followed by the
// feature columns. Missing values render as NaN.
func (t *Table) WriteCSV(ctx context.Context, filePath string) *log.Status {
	file, err := os.Create(filePath)
	if err != nil {
		return log.Error(ctx, 500, err, `Error creating feature csv`, filePath)
	}
	defer file.Close()
	writer := csv.NewWriter(file)
	columns := t.Columns()
	header := append([]string{`group_id`}, columns...)
	err = writer.Write(header)
	if err != nil {
		return log.Error(ctx, 500, err, `Error writing feature csv`, filePath)
	}
	for _, row := range t.Rows {
		record := make([]string, 0, len(header))
		record = append(record, row.GroupId)
		for _, name := range columns {
			record = append(record, formatValue(row.Values, name))
		}
		err = writer.Write(record)
		if err != nil {
			return log.Error(ctx, 500, err, `Error writing feature csv`, filePath)
		}
	}
	writer.Flush()
	err = writer.Error()
	if err != nil {
		return log.Error(ctx, 500, err, `Error writing feature csv`, filePath)
	}
	return nil
}

func formatValue(values map[string]float64, name string) string {
	value, ok := values[name]
	if !ok {
		return `NaN`
	}
	return strconv.FormatFloat(value, 'g', -1, 64)
}

const sheet1 = `Sheet1`

// WriteXLSX writes the table as a spreadsheet with a styled header row.
func (t *Table) WriteXLSX(ctx context.Context, filePath string) *log.Status {
	file := excelize.NewFile()
	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size:   12,
			Family: `Calibri`,
			Bold:   true,
		},
	})
	if err != nil {
		return log.Error(ctx, 500, err, `Failed to create header style`)
	}
	columns := t.Columns()
	header := append([]string{`group_id`}, columns...)
	for i, name := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return log.Error(ctx, 500, err, `Failed to map header cell`)
		}
		err = file.SetCellValue(sheet1, cell, name)
		if err != nil {
			return log.Error(ctx, 500, err, `Failed to write header cell`)
		}
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return log.Error(ctx, 500, err, `Failed to map header range`)
	}
	err = file.SetCellStyle(sheet1, `A1`, lastHeader, headerStyle)
	if err != nil {
		return log.Error(ctx, 500, err, `Failed to style header row`)
	}
	for r, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return log.Error(ctx, 500, err, `Failed to map cell`)
		}
		err = file.SetCellValue(sheet1, cell, row.GroupId)
		if err != nil {
			return log.Error(ctx, 500, err, `Failed to write group id`)
		}
		for c, name := range columns {
			cell, err = excelize.CoordinatesToCellName(c+2, r+2)
			if err != nil {
				return log.Error(ctx, 500, err, `Failed to map cell`)
			}
			err = file.SetCellValue(sheet1, cell, formatCellValue(row.Values, name))
			if err != nil {
				return log.Error(ctx, 500, err, `Failed to write feature cell`)
			}
		}
	}
	err = file.SaveAs(filePath)
	if err != nil {
		return log.Error(ctx, 500, err, `Failed to save feature spreadsheet`, filePath)
	}
	return nil
}

// formatCellValue keeps numbers numeric in the spreadsheet but writes
// NaN as text, which excel cannot store as a number.
func formatCellValue(values map[string]float64, name string) any {
	value, ok := values[name]
	if !ok {
		return `NaN`
	}
	if value != value {
		return `NaN`
	}
	return value
}

// WriteDB stores the table in the features table of the dataset
// database.
func (t *Table) WriteDB(conn *db.DBAdapter) *log.Status {
	return conn.InsertFeatures(t.FeatureValues())
}
