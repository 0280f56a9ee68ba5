package ops

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sproutnotes/sprout/internal/db"
	"github.com/sproutnotes/sprout/internal/errors"
	"github.com/sproutnotes/sprout/internal/idea"
	"github.com/sproutnotes/sprout/internal/settings"
)

// ExportBackup snapshots every idea, every folder, and the current
// settings into a versioned backup document.
func ExportBackup(database *sql.DB, mgr *settings.Manager) (*idea.Backup, error) {
	ideas, err := db.ListIdeas(database)
	if err != nil {
		return nil, err
	}
	folders, err := db.ListFolders(database)
	if err != nil {
		return nil, err
	}
	s := mgr.Get()

	return &idea.Backup{
		Version:   idea.BackupVersion,
		Timestamp: nowMillis(),
		Ideas:     ideas,
		Folders:   folders,
		Settings:  &s,
	}, nil
}

// ExportJSON renders a backup as indented JSON, the format users keep
// in their own files.
func ExportJSON(database *sql.DB, mgr *settings.Manager) ([]byte, error) {
	backup, err := ExportBackup(database, mgr)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return data, nil
}

// ImportBackup restores a backup document. Records are upserted by id:
// existing ideas and folders are overwritten, everything else in the
// store is left alone. Settings are applied last, through the manager,
// so provider subscribers see the change.
func ImportBackup(database *sql.DB, mgr *settings.Manager, data []byte) (*idea.Backup, error) {
	var backup idea.Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return nil, errors.NewInvalidRequest("backup is not valid JSON: " + err.Error())
	}
	if backup.Version != idea.BackupVersion {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unsupported backup version %d", backup.Version))
	}

	for n := range backup.Folders {
		f := backup.Folders[n]
		if f.ID == "" || cleanString(f.Name) == "" {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("folder %d is missing id or name", n))
		}
		if err := db.PutFolder(database, &f); err != nil {
			return nil, err
		}
	}

	for n := range backup.Ideas {
		i := backup.Ideas[n]
		if i.ID == "" {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("idea %d is missing an id", n))
		}
		i.Normalize()
		if err := db.PutIdea(database, &i); err != nil {
			return nil, err
		}
	}

	if backup.Settings != nil {
		if err := mgr.Set(*backup.Settings); err != nil {
			return nil, err
		}
	}

	return &backup, nil
}
