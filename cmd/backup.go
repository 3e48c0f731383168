package cmd

import (
	"fmt"
	"log"

	"communestats/internal/backup"
	"communestats/internal/database"

	"github.com/spf13/cobra"
)

var (
	outputDir        string
	backupFormat     string
	backupCollection string
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Backup exported collections",
	Long:  "Dump the exported department and commune collections to BSON or JSON files",
	Args:  cobra.NoArgs,
	RunE:  runBackup,
}

func init() {
	backupCmd.Flags().StringVarP(&outputDir, "output", "o", "./backups", "Output directory for backup files")
	backupCmd.Flags().StringVar(&backupFormat, "format", "bson", "Backup format: bson or json")
	backupCmd.Flags().StringVarP(&backupCollection, "collection", "c", "", "Collection to backup (all collections when empty)")
	addDBFlags(backupCmd)
}

func runBackup(cmd *cobra.Command, args []string) error {
	format, err := database.ParseFormat(backupFormat)
	if err != nil {
		return err
	}

	db, err := database.NewMongoDB(dbURI, dbName)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer db.Close()

	service := backup.NewService(db)

	if backupCollection != "" {
		log.Printf("Starting backup of collection '%s' to %s format...", backupCollection, format)
		file, count, err := service.BackupCollection(backupCollection, outputDir, format)
		if err != nil {
			return err
		}
		log.Printf("Backup completed: %d documents in %s", count, file)
		return nil
	}

	log.Printf("Starting backup of all collections in database '%s' to %s format...", dbName, format)
	files, err := service.BackupDatabase(outputDir, format)
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	log.Printf("Backup completed. Created %d backup files:", len(files))
	for _, file := range files {
		log.Printf("  - %s", file)
	}
	return nil
}
