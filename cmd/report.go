package cmd

import (
	"communestats/internal/report"

	"github.com/spf13/cobra"
)

var (
	sampleCommune    string
	sampleDepartment string
	withRecords      bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print every derived structure",
	Long: `Print the department list, the commune list, one commune lookup, the
per-department index and one department entry, in that order.`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	addReportFlags(reportCmd)
}

func addReportFlags(c *cobra.Command) {
	c.Flags().StringVar(&sampleCommune, "commune", "39124", "Commune code looked up in the report")
	c.Flags().StringVar(&sampleDepartment, "departement", "80", "Department code looked up in the report")
	c.Flags().BoolVar(&withRecords, "records", false, "Also print every loaded record")
}

func runReport(cmd *cobra.Command, args []string) error {
	d, err := loadDataset()
	if err != nil {
		return err
	}
	return report.Full(cmd.OutOrStdout(), d, report.Options{
		CommuneCode:    sampleCommune,
		DepartmentCode: sampleDepartment,
		WithRecords:    withRecords,
	})
}
