package ops

import (
	"database/sql"

	"github.com/sproutnotes/sprout/internal/db"
	"github.com/sproutnotes/sprout/internal/errors"
)

// Delete removes one idea. Deleting a non-existent id is not an error.
// Ideas are only ever deleted explicitly; the confirmation gate lives
// at the surface (CLI --yes flag, frontend confirm dialog), so this
// operation assumes the caller already confirmed.
func Delete(database *sql.DB, id string) error {
	if id == "" {
		return errors.NewInvalidRequest("id is required")
	}
	return db.DeleteIdea(database, id)
}
