package cmd

import (
	"communestats/internal/population"
	"communestats/internal/report"

	"github.com/spf13/cobra"
)

var departementsCmd = &cobra.Command{
	Use:     "departements",
	Aliases: []string{"departments"},
	Short:   "List (code, name) department pairs",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDataset()
		if err != nil {
			return err
		}
		p := report.NewPrinter(cmd.OutOrStdout())
		p.Pairs(d.Departments())
		return p.Err()
	},
}

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "List (code, name) region pairs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDataset()
		if err != nil {
			return err
		}
		p := report.NewPrinter(cmd.OutOrStdout())
		p.Pairs(d.Regions())
		return p.Err()
	},
}

var communesCmd = &cobra.Command{
	Use:   "communes",
	Short: "List (code, name) commune pairs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDataset()
		if err != nil {
			return err
		}
		p := report.NewPrinter(cmd.OutOrStdout())
		p.Pairs(d.Communes())
		return p.Err()
	},
}

var communeCmd = &cobra.Command{
	Use:   "commune <code>...",
	Short: "Show the population of one or more communes",
	Long: `Show name, population and census year for each commune code. Unknown
codes print "not found" and do not fail the command.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDataset()
		if err != nil {
			return err
		}
		p := report.NewPrinter(cmd.OutOrStdout())
		for _, code := range args {
			c, ok := d.CommunePopulation(code)
			p.Commune(code, c, ok)
		}
		return p.Err()
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats [departement]...",
	Short: "Show record count and total population per department",
	Long: `Without arguments print the whole department index. With department
codes print only those entries; an unknown code fails the command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDataset()
		if err != nil {
			return err
		}
		index := d.DepartmentIndex()
		p := report.NewPrinter(cmd.OutOrStdout())
		if len(args) == 0 {
			p.DepartmentIndex(index)
			return p.Err()
		}
		for _, code := range args {
			s, err := population.StatByDepartment(index, code)
			if err != nil {
				return err
			}
			p.DepartmentStat(code, s)
		}
		return p.Err()
	},
}
