package idea

// BackupVersion is the current backup format version.
const BackupVersion = 1

// Backup is the versioned JSON export format:
//
//	{ "version": 1, "timestamp": <epoch ms>, "ideas": [...], "settings": {...} }
//
// Folders are included when present but older backups without them
// import cleanly; referenced folder ids then resolve as uncategorized.
type Backup struct {
	Version   int       `json:"version"`
	Timestamp int64     `json:"timestamp"`
	Ideas     []Idea    `json:"ideas"`
	Folders   []Folder  `json:"folders,omitempty"`
	Settings  *Settings `json:"settings,omitempty"`
}
