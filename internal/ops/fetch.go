package ops

import (
	"database/sql"

	"github.com/sproutnotes/sprout/internal/db"
	"github.com/sproutnotes/sprout/internal/idea"
)

// Fetch retrieves one idea by id. Absence is NOT_FOUND, which read
// surfaces render as 404/absent rather than a failure.
func Fetch(database *sql.DB, id string) (*idea.Idea, error) {
	return db.GetIdea(database, id)
}
