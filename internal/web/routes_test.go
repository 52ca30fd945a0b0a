package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/roadmap/internal/repository"
	"github.com/alexanderramin/roadmap/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `# Demo

## 01 — Setup
| No | Özellik | PRD | Backend | Frontend | Test |
|---|---|---|---|---|---|
| 1 | Auth |  | ✅ | ✅ | ✅ |
| 1.1 | Login |  | ✅ | - | - |
| 2 | Billing |  | ❌ | - | - |

## 02 — Core
| No | Özellik | PRD | Backend | Frontend | Test |
| 1 | Search |  | ⚠️ | - | - |
`

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, service.RoadmapService) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ROADMAP.md")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o644))

	svc := service.NewRoadmapService(
		repository.NewMarkdownFileRepo(path),
		repository.NewMemorySettingsRepo(nil),
		service.WithSaveDebounce(time.Hour),
	)
	require.NoError(t, svc.Load(context.Background()))
	t.Cleanup(func() { _ = svc.Close() })
	return NewRouter(svc), svc
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var out map[string]any
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func phaseTitles(svc service.RoadmapService, phase string) []string {
	var out []string
	for _, it := range svc.Document().Phases[phase] {
		out = append(out, it.Title(svc.Schema()))
	}
	return out
}

func TestRoadmap_ReturnsPhasesInOrder(t *testing.T) {
	router, _ := newTestRouter(t)

	w, body := doJSON(t, router, http.MethodGet, "/api/roadmap", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Demo", body["title"])
	phases := body["phases"].([]any)
	require.Len(t, phases, 2)
	first := phases[0].(map[string]any)
	assert.Equal(t, "faz1", first["key"])
	assert.Equal(t, "Setup", first["name"])
	assert.EqualValues(t, 1, first["done"])
	assert.EqualValues(t, 2, first["total"])
	items := first["items"].([]any)
	auth := items[0].(map[string]any)
	assert.Equal(t, "Auth", auth["ozellik"])
	assert.Len(t, auth["children"], 1)
}

func TestMarkdown_ServesGeneratedDocument(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/roadmap.md", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, w.Body.String(), "## 01 — Setup")
	assert.Contains(t, w.Body.String(), "| 1.1 | Login |")
}

func TestStatus_ReportsTallies(t *testing.T) {
	router, _ := newTestRouter(t)

	w, body := doJSON(t, router, http.MethodGet, "/api/status", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["done"])
	assert.EqualValues(t, 3, body["total"])
	assert.Equal(t, false, body["pending"])
	assert.Len(t, body["columns"], 3)
}

func TestReorderItems_MovesWithinPhase(t *testing.T) {
	router, svc := newTestRouter(t)

	w, body := doJSON(t, router, http.MethodPost, "/api/items/reorder", map[string]any{"phase": "faz1", "from": 1, "to": 0})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []string{"Billing", "Auth"}, phaseTitles(svc, "faz1"))
}

func TestReorderItems_RejectsMissingFields(t *testing.T) {
	router, _ := newTestRouter(t)

	w, body := doJSON(t, router, http.MethodPost, "/api/items/reorder", map[string]any{"phase": "faz1"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
}

func TestReorderPhases_SwapsOrder(t *testing.T) {
	router, svc := newTestRouter(t)

	w, _ := doJSON(t, router, http.MethodPost, "/api/phases/reorder", map[string]any{"from": "faz2", "to": "faz1"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"faz1", "faz2"}, svc.Document().OrderedPhaseKeys())
	assert.Equal(t, []string{"Search"}, phaseTitles(svc, "faz1"))
	assert.Equal(t, []string{"Auth", "Billing"}, phaseTitles(svc, "faz2"))
}

func TestMoveItem_TransfersAcrossPhases(t *testing.T) {
	router, svc := newTestRouter(t)
	search := svc.Document().Phases["faz2"][0]

	w, _ := doJSON(t, router, http.MethodPost, "/api/items/"+search.ID+"/move", map[string]any{"phase": "faz1", "index": 1})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Auth", "Search", "Billing"}, phaseTitles(svc, "faz1"))
	assert.Empty(t, svc.Document().Phases["faz2"])
}

func TestMoveItem_ShiftsAmongSiblings(t *testing.T) {
	router, svc := newTestRouter(t)
	billing := svc.Document().Phases["faz1"][1]

	w, _ := doJSON(t, router, http.MethodPost, "/api/items/"+billing.ID+"/move", map[string]any{"delta": -1})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Billing", "Auth"}, phaseTitles(svc, "faz1"))
}

func TestMoveItem_Errors(t *testing.T) {
	router, svc := newTestRouter(t)
	auth := svc.Document().Phases["faz1"][0]

	w, _ := doJSON(t, router, http.MethodPost, "/api/items/nope/move", map[string]any{"delta": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/api/items/"+auth.ID+"/move", map[string]any{"delta": 1, "phase": "faz2"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/api/items/"+auth.ID+"/move", map[string]any{"delta": -1})
	assert.Equal(t, http.StatusConflict, w.Code, "first item cannot move up")
}

func TestFilter_LocksReordering(t *testing.T) {
	router, svc := newTestRouter(t)

	w, body := doJSON(t, router, http.MethodGet, "/api/filter?q=srch", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["count"])

	w, _ = doJSON(t, router, http.MethodPost, "/api/items/reorder", map[string]any{"phase": "faz1", "from": 1, "to": 0})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, []string{"Auth", "Billing"}, phaseTitles(svc, "faz1"))

	_, body = doJSON(t, router, http.MethodGet, "/api/filter", nil)
	assert.EqualValues(t, 0, body["count"])
	w, _ = doJSON(t, router, http.MethodPost, "/api/items/reorder", map[string]any{"phase": "faz1", "from": 1, "to": 0})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateItem_SetsFields(t *testing.T) {
	router, svc := newTestRouter(t)
	billing := svc.Document().Phases["faz1"][1]

	w, body := doJSON(t, router, http.MethodPatch, "/api/items/"+billing.ID, map[string]any{
		"fields": map[string]string{"backend": "done"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	item := body["item"].(map[string]any)
	assert.Equal(t, "✅", item["backend"])
}

func TestUpdateItem_Errors(t *testing.T) {
	router, svc := newTestRouter(t)
	billing := svc.Document().Phases["faz1"][1]

	w, _ := doJSON(t, router, http.MethodPatch, "/api/items/"+billing.ID, map[string]any{
		"fields": map[string]string{"backend": "?"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, router, http.MethodPatch, "/api/items/"+billing.ID, map[string]any{
		"fields": map[string]string{"nope": "x"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, router, http.MethodPatch, "/api/items/missing", map[string]any{
		"fields": map[string]string{"backend": "✅"},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSave_WritesFile(t *testing.T) {
	router, svc := newTestRouter(t)

	w, _ := doJSON(t, router, http.MethodPost, "/api/save", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data, err := os.ReadFile(svc.DocumentPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "> Son güncelleme:")
}

func TestStart_RequiresService(t *testing.T) {
	err := Start(context.Background(), StartOpts{})
	assert.Error(t, err)
}

func TestStart_ShutsDownOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ROADMAP.md")
	svc := service.NewRoadmapService(repository.NewMarkdownFileRepo(path), repository.NewMemorySettingsRepo(nil))
	require.NoError(t, svc.Load(context.Background()))
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- Start(ctx, StartOpts{Roadmap: svc, Addr: "127.0.0.1:0", Out: &out}) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.Contains(t, out.String(), "Serving")
}
