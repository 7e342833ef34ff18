package backup

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/habitual/habitual/internal/constants"
	"github.com/habitual/habitual/internal/logger"
)

const (
	minuteLayout = "20060102-1504"
	secondLayout = "20060102-150405"
)

// ErrNothingToBackup is returned when the data directory holds no data files
var ErrNothingToBackup = errors.New("no data files to back up")

// BackupInfo describes one snapshot directory
type BackupInfo struct {
	Name      string
	Path      string
	Timestamp time.Time
	Files     int
	Size      int64
}

// Manager snapshots the data files of a data directory (CSV tables and
// SQLite databases) into timestamped directories under backups/
type Manager struct {
	dataDir   string
	backupDir string
	now       func() time.Time
}

// NewManager creates a backup manager for dataDir
func NewManager(dataDir string) *Manager {
	return &Manager{
		dataDir:   dataDir,
		backupDir: filepath.Join(dataDir, constants.BackupDirName),
		now:       time.Now,
	}
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

func isDataFile(name string) bool {
	return strings.HasSuffix(name, constants.CSVFileSuffix) || strings.HasSuffix(name, ".db")
}

// dataFiles lists the data files directly under dir
func dataFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && isDataFile(e.Name()) && !strings.HasPrefix(e.Name(), ".") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// CreateBackup snapshots the data directory and rotates old snapshots
func (m *Manager) CreateBackup() (string, error) {
	return m.createBackup(false)
}

// createBackup skips rotation when called as part of a restore
func (m *Manager) createBackup(skipRotation bool) (string, error) {
	files, err := dataFiles(m.dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("data directory does not exist: %s", m.dataDir)
		}
		return "", err
	}
	if len(files) == 0 {
		return "", ErrNothingToBackup
	}

	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	target, err := m.uniqueTarget()
	if err != nil {
		return "", err
	}
	if err := os.Mkdir(target, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}

	for _, name := range files {
		src := filepath.Join(m.dataDir, name)
		dst := filepath.Join(target, name)
		if strings.HasSuffix(name, ".db") {
			err = backupDatabase(src, dst)
		} else {
			err = copyFile(src, dst)
		}
		if err != nil {
			_ = os.RemoveAll(target)
			return "", fmt.Errorf("failed to back up %s: %w", name, err)
		}
	}

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}

	logger.Info("Backup created", "path", target, "files", len(files))
	return target, nil
}

// uniqueTarget picks a snapshot directory name, adding seconds and then a
// counter when a snapshot with the same minute already exists
func (m *Manager) uniqueTarget() (string, error) {
	now := m.now()
	path := filepath.Join(m.backupDir, constants.BackupNamePrefix+now.Format(minuteLayout))
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	}

	base := filepath.Join(m.backupDir, constants.BackupNamePrefix+now.Format(secondLayout))
	path = base
	for counter := 1; counter <= 100; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		path = fmt.Sprintf("%s-%d", base, counter)
	}
	return "", fmt.Errorf("failed to generate unique backup name")
}

// backupDatabase copies a SQLite database with VACUUM INTO
func backupDatabase(srcPath, destPath string) error {
	srcDB, err := sql.Open("sqlite", srcPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer srcDB.Close()

	var count int
	if err := srcDB.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}

	if _, err := srcDB.Exec("VACUUM INTO ?", destPath); err != nil {
		logger.Debug("VACUUM INTO failed, falling back to file copy", "error", err)
		srcDB.Close()
		return copyFile(srcPath, destPath)
	}
	return nil
}

// parseTimestamp extracts the snapshot time from a directory name
func parseTimestamp(name string) (time.Time, bool) {
	ts := strings.TrimPrefix(name, constants.BackupNamePrefix)

	// drop a trailing counter (YYYYMMDD-HHMMSS-N)
	if parts := strings.Split(ts, "-"); len(parts) == 3 {
		ts = parts[0] + "-" + parts[1]
	}

	for _, layout := range []string{minuteLayout, secondLayout} {
		if t, err := time.ParseInLocation(layout, ts, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ListBackups returns all snapshots, newest first
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || !strings.HasPrefix(name, constants.BackupNamePrefix) {
			continue
		}
		ts, ok := parseTimestamp(name)
		if !ok {
			continue
		}

		info := BackupInfo{Name: name, Path: filepath.Join(m.backupDir, name), Timestamp: ts}
		files, err := dataFiles(info.Path)
		if err != nil {
			continue
		}
		for _, f := range files {
			if st, err := os.Stat(filepath.Join(info.Path, f)); err == nil {
				info.Size += st.Size()
			}
		}
		info.Files = len(files)
		backups = append(backups, info)
	}

	sort.Slice(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Name > backups[j].Name
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// rotateBackups removes snapshots beyond the retention limit
func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.RemoveAll(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Name, err)
		}
	}
	return nil
}

// Resolve maps a snapshot name or path to its directory
func (m *Manager) Resolve(nameOrPath string) string {
	if filepath.IsAbs(nameOrPath) || strings.ContainsRune(nameOrPath, filepath.Separator) {
		return nameOrPath
	}
	return filepath.Join(m.backupDir, nameOrPath)
}

// RestoreBackup replaces the data files with the snapshot's. The current
// state is snapshotted first; its path is returned (empty when there was
// nothing to save). Data files absent from the snapshot are removed.
func (m *Manager) RestoreBackup(nameOrPath string) (string, error) {
	src := m.Resolve(nameOrPath)
	files, err := dataFiles(src)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("backup does not exist: %s", nameOrPath)
		}
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("backup %s contains no data files", nameOrPath)
	}
	for _, name := range files {
		if strings.HasSuffix(name, ".db") {
			if err := verifyDatabase(filepath.Join(src, name)); err != nil {
				return "", fmt.Errorf("backup file %s is corrupted or invalid: %w", name, err)
			}
		}
	}

	preRestore, err := m.createBackup(true)
	if err != nil && !errors.Is(err, ErrNothingToBackup) {
		return "", fmt.Errorf("failed to back up current data before restore: %w", err)
	}
	if err := os.MkdirAll(m.dataDir, 0700); err != nil {
		return "", err
	}

	keep := make(map[string]bool, len(files))
	for _, name := range files {
		keep[name] = true
		tmp := filepath.Join(m.dataDir, "."+name+".restore.tmp")
		if err := copyFile(filepath.Join(src, name), tmp); err != nil {
			_ = os.Remove(tmp)
			return preRestore, fmt.Errorf("failed to copy %s: %w", name, err)
		}
		if err := os.Rename(tmp, filepath.Join(m.dataDir, name)); err != nil {
			_ = os.Remove(tmp)
			return preRestore, fmt.Errorf("failed to restore %s: %w", name, err)
		}
	}

	current, err := dataFiles(m.dataDir)
	if err != nil {
		return preRestore, err
	}
	for _, name := range current {
		if !keep[name] {
			if err := os.Remove(filepath.Join(m.dataDir, name)); err != nil {
				logger.Warn("Failed to remove file not present in backup", "file", name, "error", err)
			}
		}
	}

	logger.Info("Backup restored", "backup", filepath.Base(src), "files", len(files))
	return preRestore, nil
}

// verifyDatabase checks that path is a readable SQLite database
func verifyDatabase(path string) error {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()

	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := destFile.ReadFrom(sourceFile); err != nil {
		return err
	}
	return destFile.Sync()
}
