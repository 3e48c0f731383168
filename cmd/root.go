package cmd

import (
	"fmt"
	"log"
	"os"

	"communestats/internal/population"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	csvFile    string
	censusYear string
	firstMatch bool
)

var rootCmd = &cobra.Command{
	Use:   "communestats",
	Short: "Query French commune population exports",
	Long: `communestats loads a ';'-delimited INSEE population export and answers
aggregation queries: departments, communes, commune population and
per-department totals.

Run without a command to print every derived structure.`,
	SilenceUsage:      true,
	PersistentPreRunE: applyEnv,
	RunE:              runReport,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&csvFile, "csv", "f", "population.csv", "Population CSV file")
	rootCmd.PersistentFlags().StringVar(&censusYear, "year", "", "Restrict queries to one census year")
	rootCmd.PersistentFlags().BoolVar(&firstMatch, "first-match", false, "Commune lookup returns the first row in file order instead of the latest census")
	addReportFlags(rootCmd)

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(departementsCmd)
	rootCmd.AddCommand(regionsCmd)
	rootCmd.AddCommand(communesCmd)
	rootCmd.AddCommand(communeCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(workbookCmd)
	rootCmd.AddCommand(chartCmd)
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error loading .env file: %v", err)
	}
}

// envFlags maps environment variables onto flags. Explicit flags win.
var envFlags = map[string]string{
	"POPULATION_CSV": "csv",
	"DB_URI":         "db-uri",
	"DB_NAME":        "database",
	"DB_COLLECTION":  "collection",
}

func applyEnv(cmd *cobra.Command, args []string) error {
	for env, name := range envFlags {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		f := cmd.Flags().Lookup(name)
		if f == nil || f.Changed {
			continue
		}
		if err := f.Value.Set(v); err != nil {
			return fmt.Errorf("invalid %s: %w", env, err)
		}
	}
	return nil
}

func lookupPolicy() population.LookupPolicy {
	if firstMatch {
		return population.FirstMatch
	}
	return population.LatestCensus
}

// loadDataset reads --csv and applies --year and --first-match.
func loadDataset() (*population.Dataset, error) {
	if csvFile == "" {
		return nil, fmt.Errorf("no CSV file given; use --csv or POPULATION_CSV")
	}
	d, err := population.Load(csvFile, population.WithLookupPolicy(lookupPolicy()))
	if err != nil {
		return nil, err
	}
	if censusYear != "" {
		d = d.FilterYear(censusYear)
		log.Printf("Kept %d records for census year %s", d.Len(), censusYear)
	}
	return d, nil
}
