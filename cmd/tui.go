package cmd

import (
	"fmt"

	"communestats/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var tuiOutputDir string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the dataset interactively",
	Long: `Start a terminal interface to browse departments and communes, look up
populations and department totals, and export or back up to MongoDB.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	addDBFlags(tuiCmd)
	tuiCmd.Flags().StringVarP(&collection, "collection", "t", "departements", "Department collection name")
	tuiCmd.Flags().StringVarP(&tuiOutputDir, "output", "o", "./backups", "Backup directory")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	d, err := loadDataset()
	if err != nil {
		return err
	}

	model := tui.NewModel(d, tui.Settings{
		DBURI:      dbURI,
		DBName:     dbName,
		Collection: collection,
		OutputDir:  tuiOutputDir,
		CensusYear: censusYear,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
