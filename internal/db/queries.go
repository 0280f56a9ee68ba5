package db

import (
	"database/sql"
	"encoding/json"

	"github.com/sproutnotes/sprout/internal/errors"
	"github.com/sproutnotes/sprout/internal/idea"
)

// PutIdea upserts an idea keyed by id: create if absent, replace if
// present. Calling it twice with the same value leaves the same stored
// state, so the autosave and merge paths can retry freely.
func PutIdea(database *sql.DB, i *idea.Idea) error {
	keywordsJSON, err := marshalList(i.Keywords)
	if err != nil {
		return err
	}
	chatJSON, err := marshalChat(i.ChatHistory)
	if err != nil {
		return err
	}
	relatedJSON, err := marshalList(i.RelatedIdeaIDs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ideas (
			id, title, details, analysis, status, folder_id,
			keywords_json, chat_json, related_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			details = excluded.details,
			analysis = excluded.analysis,
			status = excluded.status,
			folder_id = excluded.folder_id,
			keywords_json = excluded.keywords_json,
			chat_json = excluded.chat_json,
			related_json = excluded.related_json,
			created_at = excluded.created_at
	`

	_, err = database.Exec(query,
		i.ID, i.Title, i.Details, emptyToNull(i.Analysis), string(i.Status),
		emptyToNull(i.FolderID), keywordsJSON, chatJSON, relatedJSON, i.Timestamp,
	)
	if err != nil {
		return errors.NewStoreUnavailable(err)
	}

	return nil
}

// GetIdea retrieves an idea by id. Absence surfaces as a NOT_FOUND
// error that read callers may treat as a valid outcome.
func GetIdea(database *sql.DB, id string) (*idea.Idea, error) {
	row := database.QueryRow(`
		SELECT id, title, details, analysis, status, folder_id,
			keywords_json, chat_json, related_json, created_at
		FROM ideas WHERE id = ?
	`, id)

	i, err := scanIdea(row.Scan)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("idea", id)
	}
	if err != nil {
		return nil, errors.NewStoreUnavailable(err)
	}

	return i, nil
}

// ListIdeas returns all ideas. Ordering is not guaranteed by the store
// itself; callers sort via the view projection.
func ListIdeas(database *sql.DB) ([]idea.Idea, error) {
	rows, err := database.Query(`
		SELECT id, title, details, analysis, status, folder_id,
			keywords_json, chat_json, related_json, created_at
		FROM ideas
	`)
	if err != nil {
		return nil, errors.NewStoreUnavailable(err)
	}
	defer rows.Close()

	ideas := make([]idea.Idea, 0)
	for rows.Next() {
		i, err := scanIdea(rows.Scan)
		if err != nil {
			return nil, errors.NewStoreUnavailable(err)
		}
		ideas = append(ideas, *i)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreUnavailable(err)
	}

	return ideas, nil
}

// DeleteIdea removes an idea. Deleting a non-existent id is not an
// error.
func DeleteIdea(database *sql.DB, id string) error {
	if _, err := database.Exec(`DELETE FROM ideas WHERE id = ?`, id); err != nil {
		return errors.NewStoreUnavailable(err)
	}
	return nil
}

// scanIdea scans one row into an Idea and applies the load-time
// migration (fill-in defaults for records written by older versions).
func scanIdea(scan func(dest ...any) error) (*idea.Idea, error) {
	var (
		i            idea.Idea
		analysis     sql.NullString
		folderID     sql.NullString
		keywordsJSON sql.NullString
		chatJSON     sql.NullString
		relatedJSON  sql.NullString
		status       string
	)

	err := scan(
		&i.ID, &i.Title, &i.Details, &analysis, &status, &folderID,
		&keywordsJSON, &chatJSON, &relatedJSON, &i.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	i.Analysis = analysis.String
	i.FolderID = folderID.String
	i.Status = idea.Status(status)

	if keywordsJSON.Valid {
		if err := json.Unmarshal([]byte(keywordsJSON.String), &i.Keywords); err != nil {
			return nil, err
		}
	}
	if chatJSON.Valid {
		if err := json.Unmarshal([]byte(chatJSON.String), &i.ChatHistory); err != nil {
			return nil, err
		}
	}
	if relatedJSON.Valid {
		if err := json.Unmarshal([]byte(relatedJSON.String), &i.RelatedIdeaIDs); err != nil {
			return nil, err
		}
	}

	i.Normalize()
	return &i, nil
}

func marshalList(list []string) (sql.NullString, error) {
	if len(list) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(list)
	if err != nil {
		return sql.NullString{}, errors.NewInternal(err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func marshalChat(history []idea.ChatMessage) (sql.NullString, error) {
	if len(history) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(history)
	if err != nil {
		return sql.NullString{}, errors.NewInternal(err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func emptyToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
