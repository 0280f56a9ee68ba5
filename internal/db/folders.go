package db

import (
	"database/sql"

	"github.com/sproutnotes/sprout/internal/errors"
	"github.com/sproutnotes/sprout/internal/idea"
)

// PutFolder upserts a folder keyed by id.
func PutFolder(database *sql.DB, f *idea.Folder) error {
	query := `
		INSERT INTO folders (id, name, created_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, created_at = excluded.created_at
	`
	if _, err := database.Exec(query, f.ID, f.Name, f.Timestamp); err != nil {
		return errors.NewStoreUnavailable(err)
	}
	return nil
}

// GetFolder retrieves a folder by id.
func GetFolder(database *sql.DB, id string) (*idea.Folder, error) {
	row := database.QueryRow(`SELECT id, name, created_at FROM folders WHERE id = ?`, id)

	var f idea.Folder
	err := row.Scan(&f.ID, &f.Name, &f.Timestamp)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("folder", id)
	}
	if err != nil {
		return nil, errors.NewStoreUnavailable(err)
	}
	return &f, nil
}

// FindFolderByName retrieves a folder by case-insensitive name match.
// Used by bulk assignment to reuse folders instead of creating
// duplicates that differ only in case.
func FindFolderByName(database *sql.DB, name string) (*idea.Folder, error) {
	row := database.QueryRow(`
		SELECT id, name, created_at FROM folders
		WHERE lower(name) = lower(?)
		ORDER BY created_at ASC LIMIT 1
	`, name)

	var f idea.Folder
	err := row.Scan(&f.ID, &f.Name, &f.Timestamp)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("folder", name)
	}
	if err != nil {
		return nil, errors.NewStoreUnavailable(err)
	}
	return &f, nil
}

// ListFolders returns all folders.
func ListFolders(database *sql.DB) ([]idea.Folder, error) {
	rows, err := database.Query(`SELECT id, name, created_at FROM folders ORDER BY created_at ASC`)
	if err != nil {
		return nil, errors.NewStoreUnavailable(err)
	}
	defer rows.Close()

	folders := make([]idea.Folder, 0)
	for rows.Next() {
		var f idea.Folder
		if err := rows.Scan(&f.ID, &f.Name, &f.Timestamp); err != nil {
			return nil, errors.NewStoreUnavailable(err)
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreUnavailable(err)
	}

	return folders, nil
}

// DeleteFolder removes a folder. It never cascades: ideas referencing
// the deleted id become orphans and are reclassified as uncategorized
// by the view projection, not by mutation. Deleting a non-existent id
// is not an error.
func DeleteFolder(database *sql.DB, id string) error {
	if _, err := database.Exec(`DELETE FROM folders WHERE id = ?`, id); err != nil {
		return errors.NewStoreUnavailable(err)
	}
	return nil
}
