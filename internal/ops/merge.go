package ops

import (
	"database/sql"
	"sync"

	"github.com/sproutnotes/sprout/internal/db"
	"github.com/sproutnotes/sprout/internal/errors"
	"github.com/sproutnotes/sprout/internal/idea"
)

// writeLocks serializes read-modify-write cycles per idea id, making
// Apply a single writer per entity within the process.
var writeLocks = struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}{m: make(map[string]*sync.Mutex)}

func lockIdea(id string) func() {
	writeLocks.mu.Lock()
	l, ok := writeLocks.m[id]
	if !ok {
		l = &sync.Mutex{}
		writeLocks.m[id] = l
	}
	writeLocks.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Apply loads the latest stored record, applies patch to a clone, and
// persists the result. Async completion handlers must route every
// write through here: a patch touches only the fields its operation
// owns, computed against whatever the current record is at write time —
// never a snapshot captured when the async call began. Two concurrent
// operations on disjoint fields therefore both land.
//
// If no row exists yet and seed is non-nil, the patch applies to the
// seed and the result is inserted: the first write of a transient
// draft, which is how a draft transitions to persisted. With a nil
// seed, an absent row is NOT_FOUND.
func Apply(database *sql.DB, id string, seed *idea.Idea, patch func(*idea.Idea)) (*idea.Idea, error) {
	unlock := lockIdea(id)
	defer unlock()

	current, err := db.GetIdea(database, id)
	if err != nil {
		if !errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
		if seed == nil {
			return nil, err
		}
		current = seed.Clone()
		current.Normalize()
	}

	next := current.Clone()
	patch(next)
	next.ID = id // ids are immutable; a patch cannot rekey the record

	if err := db.PutIdea(database, next); err != nil {
		return nil, err
	}
	return next, nil
}
