package batch

import (
	"fmt"
	"os"
	"sort"

	"github.com/gocarina/gocsv"
	"github.com/olekukonko/tablewriter"

	"github.com/jiaming2012/volbatch/src/models"
)

// writeSkewCSV exports the fixed-grid skew summary as CSV, one row per
// tenor in ascending order.
func writeSkewCSV(path string, summary *models.SkewSummary) error {
	tenors := make([]int, 0, len(summary.Rows))
	for tenor := range summary.Rows {
		tenors = append(tenors, tenor)
	}
	sort.Ints(tenors)

	rows := make([]*models.SkewRow, 0, len(tenors))
	for _, tenor := range tenors {
		rows = append(rows, summary.Rows[tenor])
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", path, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("failed to write %s: %v", path, err)
	}

	return nil
}

func printSummary(statuses []itemStatus) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Status", "Elapsed"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)

	for _, s := range statuses {
		table.Append([]string{s.key, s.status, s.elapsed.String()})
	}

	table.Render()
}
