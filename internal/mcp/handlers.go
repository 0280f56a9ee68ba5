package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sproutnotes/sprout/internal/config"
	"github.com/sproutnotes/sprout/internal/errors"
	"github.com/sproutnotes/sprout/internal/idea"
	"github.com/sproutnotes/sprout/internal/ops"
	"github.com/sproutnotes/sprout/internal/settings"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	settings *settings.Manager
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config, mgr *settings.Manager) *Handlers {
	return &Handlers{db: db, cfg: cfg, settings: mgr}
}

// Request types for each tool

// CaptureRequest represents the arguments for idea_capture.
type CaptureRequest struct {
	Title    string `json:"title"`
	Details  string `json:"details,omitempty"`
	Status   string `json:"status,omitempty"`
	FolderID string `json:"folder_id,omitempty"`
}

// FetchRequest represents the arguments for idea_fetch.
type FetchRequest struct {
	ID string `json:"id"`
}

// ListRequest represents the arguments for idea_list.
type ListRequest struct {
	Search string `json:"search,omitempty"`
	Status string `json:"status,omitempty"`
	Folder string `json:"folder,omitempty"`
	Sort   string `json:"sort,omitempty"`
}

// UpdateRequest represents the arguments for idea_update.
type UpdateRequest struct {
	ID       string    `json:"id"`
	Title    *string   `json:"title,omitempty"`
	Details  *string   `json:"details,omitempty"`
	Analysis *string   `json:"analysis,omitempty"`
	Status   *string   `json:"status,omitempty"`
	Keywords *[]string `json:"keywords,omitempty"`
}

// DeleteRequest represents the arguments for idea_delete.
type DeleteRequest struct {
	ID string `json:"id"`
}

// MoveRequest represents the arguments for idea_move.
type MoveRequest struct {
	ID       string `json:"id"`
	FolderID string `json:"folder_id,omitempty"`
}

// FolderCreateRequest represents the arguments for folder_create.
type FolderCreateRequest struct {
	Name string `json:"name"`
}

// FolderDeleteRequest represents the arguments for folder_delete.
type FolderDeleteRequest struct {
	ID string `json:"id"`
}

// BackupImportRequest represents the arguments for backup_import.
type BackupImportRequest struct {
	BackupJSON string `json:"backup_json"`
}

// Handler implementations

// HandleCapture handles the idea_capture tool call.
func (h *Handlers) HandleCapture(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CaptureRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Create(h.db, ops.CreateInput{
		Title:    input.Title,
		Details:  input.Details,
		Status:   idea.Status(input.Status),
		FolderID: input.FolderID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFetch handles the idea_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Fetch(h.db, input.ID)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the idea_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(h.db, ops.ListInput{
		Search: input.Search,
		Status: input.Status,
		Folder: input.Folder,
		Sort:   idea.SortOption(input.Sort),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleUpdate handles the idea_update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	var status *idea.Status
	if input.Status != nil {
		s := idea.Status(*input.Status)
		status = &s
	}

	result, err := ops.Update(h.db, ops.UpdateInput{
		ID:       input.ID,
		Title:    input.Title,
		Details:  input.Details,
		Analysis: input.Analysis,
		Status:   status,
		Keywords: input.Keywords,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the idea_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if err := ops.Delete(h.db, input.ID); err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{"deleted": input.ID})
}

// HandleMove handles the idea_move tool call.
func (h *Handlers) HandleMove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MoveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.AssignFolder(h.db, input.ID, input.FolderID)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFolderCreate handles the folder_create tool call.
func (h *Handlers) HandleFolderCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FolderCreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.CreateFolder(h.db, input.Name)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFolderList handles the folder_list tool call.
func (h *Handlers) HandleFolderList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.ListFolders(h.db)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{"folders": result})
}

// HandleFolderDelete handles the folder_delete tool call.
func (h *Handlers) HandleFolderDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FolderDeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	if err := ops.DeleteFolder(h.db, input.ID); err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{"deleted": input.ID})
}

// HandleBackupExport handles the backup_export tool call.
func (h *Handlers) HandleBackupExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.ExportBackup(h.db, h.settings)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleBackupImport handles the backup_import tool call.
func (h *Handlers) HandleBackupImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[BackupImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	backup, err := ops.ImportBackup(h.db, h.settings, []byte(input.BackupJSON))
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{
		"imported_ideas":   len(backup.Ideas),
		"imported_folders": len(backup.Folders),
	})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if sErr, ok := err.(*errors.SproutError); ok {
		errorObj := map[string]any{
			"code":    sErr.Code,
			"message": sErr.Message,
			"status":  sErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if sErr.Code != errors.ErrInternal && sErr.Details != nil {
			errorObj["details"] = sErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
