package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/sproutnotes/sprout/internal/config"
	"github.com/sproutnotes/sprout/internal/db"
	"github.com/sproutnotes/sprout/internal/idea"
	"github.com/sproutnotes/sprout/internal/settings"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	mgr, err := settings.NewManager(database)
	if err != nil {
		t.Fatalf("settings.NewManager failed: %v", err)
	}

	srv := NewServer(database, config.DefaultConfig(), mgr, zap.NewNop(), "test")
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestIdeaCRUD(t *testing.T) {
	ts := newTestServer(t)

	// Create
	resp := postJSON(t, ts.URL+"/ideas", map[string]string{"title": "Solar charger", "details": "portable"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var created idea.Idea
	decodeBody(t, resp, &created)
	if created.ID == "" {
		t.Fatal("created idea has no id")
	}

	// Fetch
	resp, err := http.Get(ts.URL + "/ideas/" + created.ID)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	var fetched idea.Idea
	decodeBody(t, resp, &fetched)
	if fetched.Title != "Solar charger" {
		t.Errorf("Title = %q", fetched.Title)
	}

	// Replace via PUT
	fetched.Title = "Renamed"
	data, _ := json.Marshal(fetched)
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/ideas/"+created.ID, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT failed: %v", err)
	}
	var replaced idea.Idea
	decodeBody(t, resp, &replaced)
	if replaced.Title != "Renamed" {
		t.Errorf("Title = %q after PUT", replaced.Title)
	}

	// Delete
	req, _ = http.NewRequest(http.MethodDelete, ts.URL+"/ideas/"+created.ID, nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", resp.StatusCode)
	}

	// Fetch after delete → structured 404
	resp, err = http.Get(ts.URL + "/ideas/" + created.ID)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	var errBody struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if errBody.Error.Code != "NOT_FOUND" {
		t.Errorf("code = %q, want NOT_FOUND", errBody.Error.Code)
	}
}

func TestPutAbsentIs404(t *testing.T) {
	ts := newTestServer(t)

	data, _ := json.Marshal(map[string]string{"title": "x"})
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/ideas/nope", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404 so the client can fall back to POST", resp.StatusCode)
	}
}

func TestPostWithIdUpserts(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/ideas", map[string]any{
		"id":        "client-generated",
		"title":     "From fallback",
		"timestamp": 1700000000000,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	got, err := http.Get(ts.URL + "/ideas/client-generated")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	var fetched idea.Idea
	decodeBody(t, got, &fetched)
	if fetched.Title != "From fallback" {
		t.Errorf("Title = %q", fetched.Title)
	}
}

func TestListWithFilters(t *testing.T) {
	ts := newTestServer(t)

	for _, title := range []string{"Solar charger", "Bike share"} {
		resp := postJSON(t, ts.URL+"/ideas", map[string]string{"title": title})
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/ideas?search=solar")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	var out struct {
		Items []idea.Idea `json:"items"`
		Total int         `json:"total"`
	}
	decodeBody(t, resp, &out)
	if out.Total != 1 || out.Items[0].Title != "Solar charger" {
		t.Errorf("out = %+v", out)
	}

	resp, err = http.Get(ts.URL + "/ideas?sort=sideways")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for bad sort", resp.StatusCode)
	}
}

func TestChat_ProviderDownReturnsSystemMessage(t *testing.T) {
	ts := newTestServer(t)

	// Default settings are gemini with no key, so the completion fails
	// fast; the endpoint must still return 200 with a system reply.
	resp := postJSON(t, ts.URL+"/ideas", map[string]string{"title": "T"})
	var created idea.Idea
	decodeBody(t, resp, &created)

	resp = postJSON(t, fmt.Sprintf("%s/ideas/%s/chat", ts.URL, created.ID), map[string]string{"message": "hello"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var out struct {
		Reply idea.ChatMessage `json:"reply"`
	}
	decodeBody(t, resp, &out)
	if out.Reply.Role != idea.RoleSystem {
		t.Errorf("Reply role = %q, want system", out.Reply.Role)
	}
}

func TestFoldersAndMove(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/folders", map[string]string{"name": "Energy"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var folder idea.Folder
	decodeBody(t, resp, &folder)

	resp = postJSON(t, ts.URL+"/ideas", map[string]string{"title": "T"})
	var created idea.Idea
	decodeBody(t, resp, &created)

	data, _ := json.Marshal(map[string]string{"folderId": folder.ID})
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/ideas/"+created.ID+"/folder", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT failed: %v", err)
	}
	var moved idea.Idea
	decodeBody(t, resp, &moved)
	if moved.FolderID != folder.ID {
		t.Errorf("FolderID = %q", moved.FolderID)
	}
}

func TestSettingsRoundtrip(t *testing.T) {
	ts := newTestServer(t)

	next := idea.Settings{Provider: idea.ProviderOllama, OllamaEndpoint: "http://localhost:11434", OllamaModel: "mistral"}
	data, _ := json.Marshal(next)
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/settings", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/settings")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	var got idea.Settings
	decodeBody(t, resp, &got)
	if got.Provider != idea.ProviderOllama || got.OllamaModel != "mistral" {
		t.Errorf("got = %+v", got)
	}
}

func TestBackupRoundtripOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/ideas", map[string]string{"title": "Keep me"})
	resp.Body.Close()

	resp, err := http.Get(ts.URL + "/backup")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	var backup idea.Backup
	decodeBody(t, resp, &backup)
	if backup.Version != idea.BackupVersion || len(backup.Ideas) != 1 {
		t.Fatalf("backup = %+v", backup)
	}

	// Import into a second server.
	ts2 := newTestServer(t)
	data, _ := json.Marshal(backup)
	resp, err = http.Post(ts2.URL+"/backup", "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("import status = %d", resp.StatusCode)
	}

	resp, err = http.Get(ts2.URL + "/ideas")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	var out struct {
		Total int `json:"total"`
	}
	decodeBody(t, resp, &out)
	if out.Total != 1 {
		t.Errorf("Total = %d, want 1 after import", out.Total)
	}
}

func TestAnalysisRenderedAsHTML(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/ideas", map[string]any{
		"id":        "with-analysis",
		"title":     "T",
		"analysis":  "# Heading\n\nSome *text*.",
		"timestamp": 1,
	})
	resp.Body.Close()

	resp, err := http.Get(ts.URL + "/ideas/with-analysis/analysis")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.Contains(buf.String(), "<h1>") {
		t.Errorf("body = %q, want rendered heading", buf.String())
	}
}
