package cmd

import (
	"fmt"
	"log"

	"communestats/internal/database"
	"communestats/internal/export"

	"github.com/spf13/cobra"
)

var (
	dbURI             string
	dbName            string
	collection        string
	communeCollection string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export department stats and communes to MongoDB",
	Long: `Upsert one document per department (code, name, record count, total
population) and, unless --communes is empty, one document per commune and
census year.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	addDBFlags(exportCmd)
	exportCmd.Flags().StringVarP(&collection, "collection", "t", "departements", "Department collection name")
	exportCmd.Flags().StringVar(&communeCollection, "communes", "communes", "Commune collection name (empty to skip)")
}

func addDBFlags(c *cobra.Command) {
	c.Flags().StringVarP(&dbURI, "db-uri", "u", "mongodb://localhost:27017", "MongoDB connection URI")
	c.Flags().StringVarP(&dbName, "database", "d", "communestats", "Database name")
}

func runExport(cmd *cobra.Command, args []string) error {
	d, err := loadDataset()
	if err != nil {
		return err
	}

	db, err := database.NewMongoDB(dbURI, dbName)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer db.Close()

	result, err := export.Run(db, d, export.Options{
		DepartmentCollection: collection,
		CommuneCollection:    communeCollection,
		CensusYear:           censusYear,
	})
	if err != nil {
		return err
	}

	log.Printf("Exported %d/%d documents to %s (%d new, %d updated)",
		result.NewDocuments+result.UpdatedDocuments, result.TotalDocuments, dbName,
		result.NewDocuments, result.UpdatedDocuments)
	if result.FailedDocuments > 0 {
		log.Printf("WARNING: %d documents failed", result.FailedDocuments)
	}
	return nil
}
