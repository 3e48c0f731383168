package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"

	"communestats/internal/backup"
	"communestats/internal/database"

	"github.com/spf13/cobra"
)

var (
	inputFile         string
	restoreFormat     string
	restoreCollection string
	dropExisting      bool
	skipConfirmation  bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore a collection from a backup file",
	Long: `Restore a collection from a BSON or JSON backup file. The format is taken
from the file extension and the collection from the backup file name unless
given explicitly.`,
	Args: cobra.NoArgs,
	RunE: runRestore,
}

func init() {
	restoreCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Backup file to restore (required)")
	restoreCmd.Flags().StringVar(&restoreFormat, "format", "", "Backup format: bson or json (detected from extension when empty)")
	restoreCmd.Flags().StringVarP(&restoreCollection, "collection", "c", "", "Target collection (defaults to the one in the backup file name)")
	restoreCmd.Flags().BoolVar(&dropExisting, "drop", false, "Drop the target collection before restore")
	restoreCmd.Flags().BoolVar(&skipConfirmation, "yes", false, "Skip confirmation prompt")
	addDBFlags(restoreCmd)

	restoreCmd.MarkFlagRequired("input")
}

func runRestore(cmd *cobra.Command, args []string) error {
	var (
		format database.Format
		err    error
	)
	if restoreFormat != "" {
		format, err = database.ParseFormat(restoreFormat)
	} else {
		format, err = database.FormatFromPath(inputFile)
	}
	if err != nil {
		return err
	}

	target := restoreCollection
	if target == "" {
		name, ok := backup.CollectionFromFileName(inputFile)
		if !ok {
			return fmt.Errorf("cannot determine target collection name. Please specify --collection")
		}
		target = name
	}

	if !skipConfirmation {
		log.Printf("About to restore %s (%s) into %s.%s", inputFile, format, dbName, target)
		if dropExisting {
			log.Printf("  WARNING: existing collection will be DROPPED!")
		}
		if !confirmAction(cmd.InOrStdin(), cmd.OutOrStdout(), "Do you want to continue?") {
			log.Println("Restore cancelled")
			return nil
		}
	}

	db, err := database.NewMongoDB(dbURI, dbName)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer db.Close()

	service := backup.NewService(db)
	if err := service.ValidateBackupFile(inputFile, format); err != nil {
		return fmt.Errorf("backup file validation failed: %w", err)
	}

	count, err := service.RestoreCollection(target, inputFile, format, dropExisting)
	if err != nil {
		return err
	}
	log.Printf("Restored %d documents into '%s'", count, target)
	return nil
}

func confirmAction(in io.Reader, out io.Writer, message string) bool {
	fmt.Fprintf(out, "%s (y/N): ", message)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
