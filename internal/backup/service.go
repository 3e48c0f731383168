package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"communestats/internal/database"
)

// Store is the part of database.MongoDB the service needs.
type Store interface {
	ListCollections() ([]string, error)
	BackupCollection(collectionName string, w io.Writer, format database.Format) (int, error)
	RestoreCollection(collectionName string, r io.Reader, format database.Format, dropExisting bool) (int, error)
}

type Service struct {
	db  Store
	now func() time.Time
}

func NewService(db Store) *Service {
	return &Service{db: db, now: time.Now}
}

// FileName builds backup_<collection>_<timestamp>.<format>.
func FileName(collectionName string, at time.Time, format database.Format) string {
	return fmt.Sprintf("backup_%s_%s%s", collectionName, at.Format("20060102_150405"), format.Ext())
}

// CollectionFromFileName recovers the collection name from a FileName result.
func CollectionFromFileName(path string) (string, bool) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if !strings.HasPrefix(base, "backup_") {
		return "", false
	}
	base = strings.TrimPrefix(base, "backup_")
	// the timestamp adds two underscore-separated parts
	parts := strings.Split(base, "_")
	if len(parts) < 3 {
		return "", false
	}
	return strings.Join(parts[:len(parts)-2], "_"), true
}

func (s *Service) BackupCollection(collectionName, outputDir string, format database.Format) (string, int, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(outputDir, FileName(collectionName, s.now(), format))
	file, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create backup file: %w", err)
	}
	defer file.Close()

	count, err := s.db.BackupCollection(collectionName, file, format)
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("backup failed: %w", err)
	}

	return path, count, nil
}

// BackupDatabase dumps every collection except system ones.
func (s *Service) BackupDatabase(outputDir string, format database.Format) ([]string, error) {
	collections, err := s.db.ListCollections()
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	var files []string
	for _, collection := range collections {
		if strings.HasPrefix(collection, "system.") {
			continue
		}
		path, _, err := s.BackupCollection(collection, outputDir, format)
		if err != nil {
			return files, fmt.Errorf("failed to backup collection %s: %w", collection, err)
		}
		files = append(files, path)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no collections found in database")
	}

	return files, nil
}

func (s *Service) RestoreCollection(collectionName, inputFile string, format database.Format, dropExisting bool) (int, error) {
	file, err := os.Open(inputFile)
	if err != nil {
		return 0, fmt.Errorf("failed to open backup file: %w", err)
	}
	defer file.Close()

	count, err := s.db.RestoreCollection(collectionName, file, format, dropExisting)
	if err != nil {
		return count, fmt.Errorf("restore failed: %w", err)
	}
	return count, nil
}

// ValidateBackupFile checks the file is non-empty and its extension agrees
// with format.
func (s *Service) ValidateBackupFile(filename string, format database.Format) error {
	info, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("cannot open backup file: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("backup file is empty")
	}
	if ext := filepath.Ext(filename); ext != format.Ext() {
		return fmt.Errorf("expected %s file but got %s", strings.ToUpper(string(format)), ext)
	}
	return nil
}
