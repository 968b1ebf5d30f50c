package controller

import (
	"path/filepath"

	log "github.com/kmatton/speech-feature-io/logger"
	"github.com/kmatton/speech-feature-io/match"
	"github.com/kmatton/speech-feature-io/output"
)

// writeOutputs renders every feature table in each requested format and
// registers the files for upload.
func (c *Controller) writeOutputs(tables []*output.Table) *log.Status {
	if c.req.Output.NoOutput {
		return nil
	}
	for _, table := range tables {
		base := string(c.req.Level) + `_` + string(c.req.CallType) + `_` + table.FeatureSet
		if c.req.Output.CSV {
			csvPath := filepath.Join(c.req.OutputDir, base+`.csv`)
			status := table.WriteCSV(c.ctx, csvPath)
			if status != nil {
				return status
			}
			c.courier.AddOutput(csvPath)
		}
		if c.req.Output.XLSX {
			xlsxPath := filepath.Join(c.req.OutputDir, base+`.xlsx`)
			status := table.WriteXLSX(c.ctx, xlsxPath)
			if status != nil {
				return status
			}
			c.courier.AddOutput(xlsxPath)
		}
		if c.req.Output.Sqlite {
			status := table.WriteDB(&c.database)
			if status != nil {
				return status
			}
		}
		log.Info(c.ctx, `Wrote`, table.FeatureSet, `table with`, len(table.Rows), `rows`)
	}
	return nil
}

func (c *Controller) writeCompareReport(pairs []match.Pair) *log.Status {
	if !c.req.Compare.XLSXReport || len(pairs) == 0 {
		return nil
	}
	reportPath := filepath.Join(c.req.OutputDir, c.req.DatasetName+`_hyp_agreement_report.xlsx`)
	status := match.WriteReport(c.ctx, reportPath, pairs)
	if status != nil {
		return status
	}
	c.courier.AddOutput(reportPath)
	return nil
}
