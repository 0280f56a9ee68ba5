package web

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sproutnotes/sprout/internal/config"
	"github.com/sproutnotes/sprout/internal/errors"
	"github.com/sproutnotes/sprout/internal/idea"
	"github.com/sproutnotes/sprout/internal/ops"
	"github.com/sproutnotes/sprout/internal/settings"
)

// maxBodyBytes caps request bodies; backup imports are the largest
// legitimate payload.
const maxBodyBytes = 16 << 20

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	settings *settings.Manager
	advisor  *ops.Advisor
	logger   *zap.Logger
	version  string
}

// HandleHealth reports process liveness plus a store ping.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if err := h.db.PingContext(r.Context()); err != nil {
		h.writeError(w, errors.NewStoreUnavailable(err))
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": status, "version": h.version})
}

// HandleList handles GET /ideas.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := ops.List(h.db, ops.ListInput{
		Search: q.Get("search"),
		Status: q.Get("status"),
		Folder: q.Get("folder"),
		Sort:   idea.SortOption(q.Get("sort")),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// HandleCreate handles POST /ideas. If the body carries an id, the
// record is upserted as-is (the client's PUT-then-POST fallback and
// backup restore path); otherwise a fresh idea is created.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var body idea.Idea
	if err := h.readJSON(w, r, &body); err != nil {
		h.writeError(w, err)
		return
	}

	if body.ID != "" {
		if err := ops.Put(h.db, &body); err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusCreated, &body)
		return
	}

	result, err := ops.Create(h.db, ops.CreateInput{
		Title:    body.Title,
		Details:  body.Details,
		Status:   body.Status,
		FolderID: body.FolderID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, result)
}

// HandleFetch handles GET /ideas/{id}.
func (h *Handlers) HandleFetch(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Fetch(h.db, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// HandleReplace handles PUT /ideas/{id}: full replace of an existing
// record, 404 when absent so the client falls back to POST.
func (h *Handlers) HandleReplace(w http.ResponseWriter, r *http.Request) {
	var body idea.Idea
	if err := h.readJSON(w, r, &body); err != nil {
		h.writeError(w, err)
		return
	}
	body.ID = chi.URLParam(r, "id")

	result, err := ops.Replace(h.db, &body)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// HandleDelete handles DELETE /ideas/{id}.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := ops.Delete(h.db, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAnalysisHTML handles GET /ideas/{id}/analysis: the stored
// analysis rendered from Markdown to HTML.
func (h *Handlers) HandleAnalysisHTML(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Fetch(h.db, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	html, err := renderMarkdown(result.Analysis)
	if err != nil {
		h.writeError(w, errors.NewInternal(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, html)
}

// HandleMove handles PUT /ideas/{id}/folder.
func (h *Handlers) HandleMove(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FolderID string `json:"folderId"`
	}
	if err := h.readJSON(w, r, &body); err != nil {
		h.writeError(w, err)
		return
	}

	result, err := ops.AssignFolder(h.db, chi.URLParam(r, "id"), body.FolderID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// HandleChat handles POST /ideas/{id}/chat.
func (h *Handlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Message string `json:"message"`
	}
	if err := h.readJSON(w, r, &body); err != nil {
		h.writeError(w, err)
		return
	}

	result, err := ops.SendMessage(r.Context(), h.db, h.advisor, ops.SendMessageInput{
		ID:      chi.URLParam(r, "id"),
		Message: body.Message,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// HandleChatUndo handles POST /ideas/{id}/chat/undo.
func (h *Handlers) HandleChatUndo(w http.ResponseWriter, r *http.Request) {
	result, err := ops.UndoLastTurn(h.db, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// HandlePlan handles POST /ideas/{id}/plan.
func (h *Handlers) HandlePlan(w http.ResponseWriter, r *http.Request) {
	result, err := ops.GeneratePlan(r.Context(), h.db, h.advisor, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// HandleKeywords handles POST /ideas/{id}/keywords.
func (h *Handlers) HandleKeywords(w http.ResponseWriter, r *http.Request) {
	result, err := ops.ExtractKeywords(r.Context(), h.db, h.advisor, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// HandleViability handles POST /ideas/{id}/viability.
func (h *Handlers) HandleViability(w http.ResponseWriter, r *http.Request) {
	result, err := ops.ViabilityReport(r.Context(), h.db, h.advisor, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// HandleCompetitors handles POST /ideas/{id}/competitors.
func (h *Handlers) HandleCompetitors(w http.ResponseWriter, r *http.Request) {
	report, err := ops.CompetitorReport(r.Context(), h.db, h.advisor, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"report": report})
}

// HandleFolderList handles GET /folders.
func (h *Handlers) HandleFolderList(w http.ResponseWriter, r *http.Request) {
	result, err := ops.ListFolders(h.db)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"folders": result})
}

// HandleFolderCreate handles POST /folders.
func (h *Handlers) HandleFolderCreate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := h.readJSON(w, r, &body); err != nil {
		h.writeError(w, err)
		return
	}

	result, err := ops.CreateFolder(h.db, body.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, result)
}

// HandleFolderDelete handles DELETE /folders/{id}.
func (h *Handlers) HandleFolderDelete(w http.ResponseWriter, r *http.Request) {
	if err := ops.DeleteFolder(h.db, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleOrganizeSuggest handles POST /organize/suggestions.
func (h *Handlers) HandleOrganizeSuggest(w http.ResponseWriter, r *http.Request) {
	result, err := ops.SuggestFolders(r.Context(), h.db, h.advisor)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"suggestions": result})
}

// HandleOrganizeApply handles POST /organize/apply.
func (h *Handlers) HandleOrganizeApply(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Suggestions []ops.Suggestion `json:"suggestions"`
	}
	if err := h.readJSON(w, r, &body); err != nil {
		h.writeError(w, err)
		return
	}

	result, err := ops.ApplySuggestions(h.db, body.Suggestions)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"results": result})
}

// HandleGenerate handles POST /generate.
func (h *Handlers) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Topic string `json:"topic"`
	}
	if err := h.readJSON(w, r, &body); err != nil {
		h.writeError(w, err)
		return
	}

	result, err := ops.GenerateIdeas(r.Context(), h.advisor, body.Topic)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"candidates": result})
}

// HandleSelectMVP handles POST /generate/mvp.
func (h *Handlers) HandleSelectMVP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Candidates []ops.GeneratedIdea `json:"candidates"`
	}
	if err := h.readJSON(w, r, &body); err != nil {
		h.writeError(w, err)
		return
	}

	result, err := ops.SelectMVP(r.Context(), h.advisor, body.Candidates)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// HandleSummarize handles POST /summarize: distill a brainstorming
// transcript into a new stored idea.
func (h *Handlers) HandleSummarize(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Transcript string `json:"transcript"`
	}
	if err := h.readJSON(w, r, &body); err != nil {
		h.writeError(w, err)
		return
	}

	result, err := ops.SummarizeChat(r.Context(), h.db, h.advisor, body.Transcript)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, result)
}

// HandleSettingsGet handles GET /settings. The Gemini key is returned
// as stored; the API binds to localhost by default.
func (h *Handlers) HandleSettingsGet(w http.ResponseWriter, r *http.Request) {
	s := h.settings.Get()
	h.writeJSON(w, http.StatusOK, &s)
}

// HandleSettingsPut handles PUT /settings.
func (h *Handlers) HandleSettingsPut(w http.ResponseWriter, r *http.Request) {
	var body idea.Settings
	if err := h.readJSON(w, r, &body); err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.settings.Set(body); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, &body)
}

// HandleBackupExport handles GET /backup.
func (h *Handlers) HandleBackupExport(w http.ResponseWriter, r *http.Request) {
	data, err := ops.ExportJSON(h.db, h.settings)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="sprout-backup.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// HandleBackupImport handles POST /backup.
func (h *Handlers) HandleBackupImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, errors.NewInvalidRequest("failed to read request body"))
		return
	}

	backup, err := ops.ImportBackup(h.db, h.settings, data)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"importedIdeas":   len(backup.Ideas),
		"importedFolders": len(backup.Folders),
	})
}

// Request/response helpers

func (h *Handlers) readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errors.NewInvalidRequest("request body is not valid JSON: " + err.Error())
	}
	return nil
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("write response", zap.Error(err))
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	status := errors.StatusOf(err)

	payload := map[string]any{
		"error": map[string]any{
			"code":    "INTERNAL",
			"message": "an internal error occurred",
			"status":  status,
		},
	}
	if sErr, ok := err.(*errors.SproutError); ok {
		errorObj := map[string]any{
			"code":    sErr.Code,
			"message": sErr.Message,
			"status":  sErr.Status,
		}
		if sErr.Code != errors.ErrInternal && sErr.Details != nil {
			errorObj["details"] = sErr.Details
		}
		payload["error"] = errorObj
	}

	if status >= 500 {
		h.logger.Warn("request failed", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
