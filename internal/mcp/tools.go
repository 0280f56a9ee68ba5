package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var captureToolDef = mcp.NewTool("idea_capture",
	mcp.WithDescription("Capture a new startup idea. Returns the stored idea with its generated id."),
	mcp.WithString("title", mcp.Required(), mcp.Description("Idea title")),
	mcp.WithString("details", mcp.Description("Free-form description of the idea")),
	mcp.WithString("status", mcp.Description("Lifecycle status: draft, validation, mvp, completed, archived (default draft)")),
	mcp.WithString("folder_id", mcp.Description("Folder to file the idea under")),
)

var fetchToolDef = mcp.NewTool("idea_fetch",
	mcp.WithDescription("Fetch one idea by id, including its chat history and analysis."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Idea id")),
)

var listToolDef = mcp.NewTool("idea_list",
	mcp.WithDescription("List ideas with optional search, status, folder, and sort filters."),
	mcp.WithString("search", mcp.Description("Case-insensitive match against title, details, and keywords")),
	mcp.WithString("status", mcp.Description("Filter by lifecycle status; empty or 'all' disables the filter")),
	mcp.WithString("folder", mcp.Description("Folder id, 'all', or 'uncategorized'")),
	mcp.WithString("sort", mcp.Description("Sort order: newest (default), oldest, az")),
)

var updateToolDef = mcp.NewTool("idea_update",
	mcp.WithDescription("Update fields on an existing idea. Omitted fields are left unchanged."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Idea id")),
	mcp.WithString("title", mcp.Description("New title")),
	mcp.WithString("details", mcp.Description("New details")),
	mcp.WithString("analysis", mcp.Description("New analysis text (Markdown)")),
	mcp.WithString("status", mcp.Description("New lifecycle status")),
	mcp.WithArray("keywords", mcp.Description("Replacement keyword list")),
)

var deleteToolDef = mcp.NewTool("idea_delete",
	mcp.WithDescription("Delete an idea by id. Deleting a non-existent id succeeds."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Idea id")),
)

var moveToolDef = mcp.NewTool("idea_move",
	mcp.WithDescription("Move an idea into a folder, or clear its folder when folder_id is empty."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Idea id")),
	mcp.WithString("folder_id", mcp.Description("Target folder id; empty clears the assignment")),
)

var folderCreateToolDef = mcp.NewTool("folder_create",
	mcp.WithDescription("Create a folder."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Folder name")),
)

var folderListToolDef = mcp.NewTool("folder_list",
	mcp.WithDescription("List all folders."),
)

var folderDeleteToolDef = mcp.NewTool("folder_delete",
	mcp.WithDescription("Delete a folder. Ideas inside it become uncategorized."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Folder id")),
)

var backupExportToolDef = mcp.NewTool("backup_export",
	mcp.WithDescription("Export all ideas, folders, and settings as a versioned backup document."),
)

var backupImportToolDef = mcp.NewTool("backup_import",
	mcp.WithDescription("Import a backup document, upserting its ideas and folders by id."),
	mcp.WithString("backup_json", mcp.Required(), mcp.Description("The backup document as a JSON string")),
)
