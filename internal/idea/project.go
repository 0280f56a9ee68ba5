package idea

import (
	"sort"
	"strings"
)

// SortOption selects the ordering of a projection.
type SortOption string

const (
	SortNewest SortOption = "newest"
	SortOldest SortOption = "oldest"
	SortAZ     SortOption = "az"
)

// Folder selection sentinels for Query.Folder.
const (
	FolderAll           = "all"
	FolderUncategorized = "uncategorized"
)

// Query holds projection parameters. Zero values mean "no filtering,
// newest first".
type Query struct {
	// Search matches case-insensitively against title, details, and
	// keywords.
	Search string

	// Status filters on exact status; "" or "all" passes everything.
	Status string

	// Folder is "", "all", "uncategorized", or a concrete folder id.
	Folder string

	// Sort is one of newest, oldest, az; defaults to newest.
	Sort SortOption
}

// Project returns the displayed subset and order of ideas for a query.
// It is a pure function: no I/O, no mutation of its inputs, and the
// same inputs always yield the same output. Orphaned ideas (folder id
// referencing no existing folder) classify as uncategorized here rather
// than by rewriting the record.
func Project(ideas []Idea, folders []Folder, q Query) []Idea {
	existing := make(map[string]bool, len(folders))
	for _, f := range folders {
		existing[f.ID] = true
	}

	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]Idea, 0, len(ideas))
	for _, i := range ideas {
		if search != "" && !matchesSearch(&i, search) {
			continue
		}
		if q.Status != "" && q.Status != "all" && string(i.Status) != q.Status {
			continue
		}
		if !matchesFolder(&i, existing, q.Folder) {
			continue
		}
		out = append(out, i)
	}

	switch q.Sort {
	case SortOldest:
		sort.SliceStable(out, func(a, b int) bool { return out[a].Timestamp < out[b].Timestamp })
	case SortAZ:
		sort.SliceStable(out, func(a, b int) bool { return strings.Compare(out[a].Title, out[b].Title) < 0 })
	default: // SortNewest
		sort.SliceStable(out, func(a, b int) bool { return out[a].Timestamp > out[b].Timestamp })
	}

	return out
}

func matchesSearch(i *Idea, search string) bool {
	haystack := strings.ToLower(i.Title + " " + i.Details + " " + strings.Join(i.Keywords, " "))
	return strings.Contains(haystack, search)
}

func matchesFolder(i *Idea, existing map[string]bool, selection string) bool {
	switch selection {
	case "", FolderAll:
		return true
	case FolderUncategorized:
		return i.FolderID == "" || !existing[i.FolderID]
	default:
		return i.FolderID == selection
	}
}
