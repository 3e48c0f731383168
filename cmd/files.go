package cmd

import (
	"log"

	"communestats/internal/report"

	"github.com/spf13/cobra"
)

var (
	workbookPath string
	chartPath    string
	chartTop     int
)

var workbookCmd = &cobra.Command{
	Use:   "workbook",
	Short: "Write departments, communes and department stats to an xlsx file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDataset()
		if err != nil {
			return err
		}
		if err := report.WriteWorkbook(workbookPath, d); err != nil {
			return err
		}
		log.Printf("Workbook written to %s", workbookPath)
		return nil
	},
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render the most populated departments as a PNG bar chart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDataset()
		if err != nil {
			return err
		}
		if err := report.WriteChart(chartPath, d.DepartmentIndex(), chartTop); err != nil {
			return err
		}
		log.Printf("Chart written to %s", chartPath)
		return nil
	},
}

func init() {
	workbookCmd.Flags().StringVarP(&workbookPath, "output", "o", "population.xlsx", "Workbook path")
	chartCmd.Flags().StringVarP(&chartPath, "output", "o", "population.png", "PNG path")
	chartCmd.Flags().IntVar(&chartTop, "top", 20, "Number of departments to plot (0 for all)")
}
