package ops

import (
	"database/sql"

	"github.com/sproutnotes/sprout/internal/db"
	"github.com/sproutnotes/sprout/internal/errors"
	"github.com/sproutnotes/sprout/internal/idea"
)

// ListInput contains projection parameters for the List operation.
type ListInput struct {
	Search string
	Status string
	Folder string // "", "all", "uncategorized", or a folder id
	Sort   idea.SortOption
}

// ListOutput contains the projected ideas plus the full folder set,
// which list surfaces need to render the sidebar.
type ListOutput struct {
	Items   []idea.Idea   `json:"items"`
	Folders []idea.Folder `json:"folders"`
	Total   int           `json:"total"`
}

// List loads all ideas and folders and applies the pure view
// projection. Store unavailability propagates: the surface must show a
// connectivity error rather than an empty list.
func List(database *sql.DB, input ListInput) (*ListOutput, error) {
	if input.Sort != "" && input.Sort != idea.SortNewest && input.Sort != idea.SortOldest && input.Sort != idea.SortAZ {
		return nil, errors.NewInvalidRequest("sort must be one of: newest, oldest, az")
	}

	ideas, err := db.ListIdeas(database)
	if err != nil {
		return nil, err
	}
	folders, err := db.ListFolders(database)
	if err != nil {
		return nil, err
	}

	items := idea.Project(ideas, folders, idea.Query{
		Search: input.Search,
		Status: input.Status,
		Folder: input.Folder,
		Sort:   input.Sort,
	})

	return &ListOutput{
		Items:   items,
		Folders: folders,
		Total:   len(items),
	}, nil
}
