package idea

// Status is the lifecycle stage of an idea.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusValidation Status = "validation"
	StatusMVP        Status = "mvp"
	StatusCompleted  Status = "completed"
	StatusArchived   Status = "archived"
)

// AllStatuses lists the valid statuses in lifecycle order.
var AllStatuses = []Status{StatusDraft, StatusValidation, StatusMVP, StatusCompleted, StatusArchived}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusValidation, StatusMVP, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// Role identifies who authored a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatMessage is a single entry in an idea's advisor conversation.
// Array order is authoritative; Timestamp is informational only.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// Idea is a user-authored note representing a candidate startup concept.
type Idea struct {
	// ID uniquely identifies the idea; immutable after creation.
	ID string `json:"id"`

	Title   string `json:"title"`
	Details string `json:"details"`

	// Analysis holds the latest viability report (markdown), if any.
	Analysis string `json:"analysis,omitempty"`

	// Timestamp is the creation time in epoch milliseconds. It is the
	// default sort key and is never updated on edit, so "newest"
	// ordering reflects creation, not last modification.
	Timestamp int64 `json:"timestamp"`

	// Keywords is fully replaced (never merged) on each extraction.
	Keywords []string `json:"keywords"`

	// ChatHistory is append-only, truncatable only by an explicit
	// "undo last turn".
	ChatHistory []ChatMessage `json:"chatHistory"`

	// RelatedIdeaIDs is informational and never validated for existence.
	RelatedIdeaIDs []string `json:"relatedIdeaIds"`

	Status Status `json:"status"`

	// FolderID references a Folder. Empty, or referencing a deleted
	// folder, means "uncategorized" — resolved at projection time,
	// never by mutation.
	FolderID string `json:"folderId,omitempty"`
}

// Normalize fills backward-compatible defaults on a record loaded from
// storage or a backup. Records written before the status and folder
// fields existed lack them; this is the load-time migration step, so
// defaults are not scattered inline through the callers.
func (i *Idea) Normalize() {
	if !i.Status.Valid() {
		i.Status = StatusDraft
	}
	if i.Keywords == nil {
		i.Keywords = []string{}
	}
	if i.ChatHistory == nil {
		i.ChatHistory = []ChatMessage{}
	}
	if i.RelatedIdeaIDs == nil {
		i.RelatedIdeaIDs = []string{}
	}
}

// Clone returns a deep copy. Patch functions receive clones so a failed
// write never leaves a half-mutated record visible to other readers.
func (i *Idea) Clone() *Idea {
	out := *i
	out.Keywords = append([]string(nil), i.Keywords...)
	out.ChatHistory = append([]ChatMessage(nil), i.ChatHistory...)
	out.RelatedIdeaIDs = append([]string(nil), i.RelatedIdeaIDs...)
	return &out
}

// Folder is a named grouping of ideas, zero-or-one per idea.
// Deleting a folder does not cascade; ideas referencing it become
// orphans and are shown as uncategorized.
type Folder struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Timestamp int64  `json:"timestamp"`
}

// Provider names accepted in Settings.Provider.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// Settings is the singleton completion-provider configuration.
// It is read by every feature that calls the completion boundary and
// written only through the settings surface.
type Settings struct {
	Provider       string `json:"provider"`
	GeminiKey      string `json:"geminiKey"`
	OllamaEndpoint string `json:"ollamaEndpoint"`
	OllamaModel    string `json:"ollamaModel"`
}

// DefaultSettings returns the settings created on first read.
func DefaultSettings() Settings {
	return Settings{
		Provider:       ProviderGemini,
		GeminiKey:      "",
		OllamaEndpoint: "http://localhost:11434",
		OllamaModel:    "llama3",
	}
}
