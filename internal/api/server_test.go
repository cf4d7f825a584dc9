package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docedit/internal/config"
	"github.com/dgallion1/docedit/internal/doctree"
	"github.com/dgallion1/docedit/internal/export"
	"github.com/dgallion1/docedit/internal/geometry"
	"github.com/dgallion1/docedit/internal/session"
	"github.com/google/go-cmp/cmp"
)

const (
	testAPIKey   = "test-key"
	testLicense  = "ABCD-EFGH-IJKL-MNOP"
	testMarkdown = "# Intro\n\nSome **bold** text\n"
)

func testConfig() config.Config {
	return config.Config{
		DoceditAPIKey:      testAPIKey,
		GeometryLicenseKey: testLicense,
		SessionTTL:         time.Hour,
		MaxUploadBytes:     1 << 20,
		ScreenWidth:        400,
		PDFPageSize:        "A4",
		StatsWindow:        time.Minute,
		MinLineWidth:       2,
		ScriptTimeout:      time.Second,
	}
}

func newTestServer(t *testing.T, spell SpellProvider) *Server {
	t.Helper()
	return NewServer(Deps{
		Sessions: session.NewStore(time.Hour, nil),
		Gateway:  geometry.NewGateway(geometry.NewPlanar(), nil),
		Stats:    export.NewStats(time.Minute),
		Spell:    spell,
	}, nil, testConfig())
}

func do(t *testing.T, s *Server, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, s, method, path, strings.NewReader(body), "application/json")
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func upload(t *testing.T, s *Server, filename, content string) string {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte(content))
	mw.Close()

	rec := do(t, s, http.MethodPost, "/api/documents", &buf, mw.FormDataContentType())
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	snap := decode[session.Snapshot](t, rec)
	if snap.ID == "" {
		t.Fatal("expected a session id")
	}
	return snap.ID
}

func TestHealthIsPublic(t *testing.T) {
	s := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t, nil)
	for _, auth := range []string{"", "Bearer wrong", "Basic " + testAPIKey} {
		req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("auth %q: expected 401, got %d", auth, rec.Code)
		}
	}
}

func TestImportAndOutline(t *testing.T) {
	s := newTestServer(t, nil)
	id := upload(t, s, "notes.md", testMarkdown)

	rec := do(t, s, http.MethodGet, "/api/documents/"+id, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decode[documentResponse](t, rec)
	if got.Title != "notes" {
		t.Errorf("expected title notes, got %q", got.Title)
	}
	if got.Blocks != 2 || len(got.Outline) != 2 {
		t.Fatalf("expected 2 blocks, got %d (outline %d)", got.Blocks, len(got.Outline))
	}
	if diff := cmp.Diff([]string{"heading1"}, got.Styles); diff != "" {
		t.Errorf("styles mismatch (-want +got):\n%s", diff)
	}

	list := decode[map[string][]session.Snapshot](t, do(t, s, http.MethodGet, "/api/documents", nil, ""))
	if len(list["documents"]) != 1 || list["documents"][0].ID != id {
		t.Errorf("expected one listed session %s, got %+v", id, list["documents"])
	}
}

func TestImportRejectsUnknownExtension(t *testing.T) {
	s := newTestServer(t, nil)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "tool.exe")
	fw.Write([]byte("MZ"))
	mw.Close()

	rec := do(t, s, http.MethodPost, "/api/documents", &buf, mw.FormDataContentType())
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestUnknownSession(t *testing.T) {
	s := newTestServer(t, nil)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/documents/nope"},
		{http.MethodDelete, "/api/documents/nope"},
		{http.MethodPost, "/api/documents/nope/search"},
		{http.MethodGet, "/api/documents/nope/export/pdf"},
	} {
		rec := doJSON(t, s, tc.method, tc.path, `{}`)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestDeleteDocument(t *testing.T) {
	s := newTestServer(t, nil)
	id := upload(t, s, "a.txt", "hello")

	if rec := do(t, s, http.MethodDelete, "/api/documents/"+id, nil, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/documents/"+id, nil, ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

type searchResult struct {
	Count   int           `json:"count"`
	Matches []searchMatch `json:"matches"`
}

type searchMatch struct {
	Block int    `json:"block"`
	Run   int    `json:"run"`
	Text  string `json:"text"`
	Style string `json:"style"`
}

func TestSearch(t *testing.T) {
	s := newTestServer(t, nil)
	id := upload(t, s, "notes.md", testMarkdown)
	path := "/api/documents/" + id + "/search"

	got := decode[searchResult](t, doJSON(t, s, http.MethodPost, path, `{"text":"bold"}`))
	if got.Count != 1 || got.Matches[0].Block != 1 || got.Matches[0].Run != 1 {
		t.Errorf("expected the bold run at 1/1, got %+v", got)
	}

	// Plain runs never match, even when their text does.
	got = decode[searchResult](t, doJSON(t, s, http.MethodPost, path, `{"text":"Some"}`))
	if got.Count != 0 || got.Matches == nil {
		t.Errorf("expected an empty match list, got %+v", got)
	}

	got = decode[searchResult](t, doJSON(t, s, http.MethodPost, path, `{"style":{"bold":true}}`))
	if got.Count != 2 {
		t.Errorf("expected heading and bold run, got %+v", got)
	}

	got = decode[searchResult](t, doJSON(t, s, http.MethodPost, path, `{"script":"style.size >= 20"}`))
	if got.Count != 1 || got.Matches[0].Text != "Intro" {
		t.Errorf("expected the heading, got %+v", got)
	}

	got = decode[searchResult](t, doJSON(t, s, http.MethodPost, path, `{"text":"INTRO","mode":"fold"}`))
	if got.Count != 1 {
		t.Errorf("expected case-folded match, got %+v", got)
	}

	for _, body := range []string{`{"text":"(","mode":"regexp"}`, `{"mode":"soundex"}`, `{"script":"style.bold &&"}`} {
		if rec := doJSON(t, s, http.MethodPost, path, body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestReplaceStyleRestylesInheritingRuns(t *testing.T) {
	s := newTestServer(t, nil)
	id := upload(t, s, "notes.md", testMarkdown)

	rec := doJSON(t, s, http.MethodPut, "/api/documents/"+id+"/styles/heading1", `{"font_size":30,"foreground":"#00ff00"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	got := decode[searchResult](t, doJSON(t, s, http.MethodPost, "/api/documents/"+id+"/search",
		`{"style":{"min_font_size":30,"foreground":"00FF00"}}`))
	if got.Count != 1 || got.Matches[0].Text != "Intro" {
		t.Errorf("expected the restyled heading to match, got %+v", got)
	}

	rec = doJSON(t, s, http.MethodPut, "/api/documents/"+id+"/styles/quote", `{"italic":true}`)
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201 for a new style, got %d", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodPut, "/api/documents/"+id+"/styles/quote", `{"background":"nope"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad color, got %d", rec.Code)
	}
}

func TestAddParagraph(t *testing.T) {
	s := newTestServer(t, nil)
	id := upload(t, s, "notes.md", testMarkdown)
	path := "/api/documents/" + id + "/paragraphs"

	body := `{"after":0,"runs":[{"text":"plain "},{"text":"red","style":{"foreground":"#f00"}},{"text":"Sub","inherit":"heading1"}]}`
	rec := doJSON(t, s, http.MethodPost, path, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := decode[map[string]int](t, rec)["index"]; got != 1 {
		t.Errorf("expected index 1, got %d", got)
	}

	doc := decode[documentResponse](t, do(t, s, http.MethodGet, "/api/documents/"+id, nil, ""))
	if doc.Blocks != 3 {
		t.Fatalf("expected 3 blocks, got %d", doc.Blocks)
	}
	runs := doc.Outline[1].Runs
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %+v", runs)
	}
	if runs[0].Kind != doctree.KindTextRun.String() {
		t.Errorf("expected a plain first run, got %s", runs[0].Kind)
	}
	if !strings.HasPrefix(runs[2].Style, "heading1(") {
		t.Errorf("expected the inherited heading style, got %s", runs[2].Style)
	}

	for _, bad := range []string{
		`{"runs":[]}`,
		`{"runs":[{"text":"x","inherit":"missing"}]}`,
		`{"runs":[{"text":"x","style":{"foreground":"blue"}}]}`,
		`{"after":9,"runs":[{"text":"x"}]}`,
		`{"runs":[{"text":"x"}],"extra":1}`,
	} {
		if rec := doJSON(t, s, http.MethodPost, path, bad); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", bad, rec.Code)
		}
	}
}

func TestFiguresAndLineWidth(t *testing.T) {
	s := newTestServer(t, nil)
	id := upload(t, s, "a.txt", "hello")
	base := "/api/documents/" + id

	rec := doJSON(t, s, http.MethodPost, base+"/figures",
		`{"primitives":[{"type":"rect","points":[[10,10],[0,0]]},{"type":"line","points":[[0,0],[20,5]]}],"gabarit":{"width":40,"height":20}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	fig := decode[addFigureResponse](t, rec)
	want := addFigureResponse{Index: 1, Gabarit: doctree.Gabarit{Width: 40, Height: 20}, Engine: true}
	if diff := cmp.Diff(want, fig); diff != "" {
		t.Errorf("figure mismatch (-want +got):\n%s", diff)
	}

	rec = doJSON(t, s, http.MethodPost, base+"/figures", `{"primitives":[{"type":"spline"}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown primitive, got %d", rec.Code)
	}

	// An empty body uses the configured minimum.
	rec = do(t, s, http.MethodPost, base+"/line-width", nil, "")
	if got := decode[map[string]int](t, rec); got["raised"] != 1 || got["minimum"] != 2 {
		t.Errorf("expected one figure raised to 2, got %v", got)
	}
	rec = doJSON(t, s, http.MethodPost, base+"/line-width", `{"minimum":2}`)
	if got := decode[map[string]int](t, rec); got["raised"] != 0 {
		t.Errorf("expected nothing left to raise, got %v", got)
	}

	if rec := do(t, s, http.MethodDelete, base+"/blocks/1", nil, ""); rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, base+"/blocks/1", nil, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for removed block, got %d", rec.Code)
	}
}

func TestFigureWithBadLicenseStillInserts(t *testing.T) {
	s := newTestServer(t, nil)
	s.cfg.GeometryLicenseKey = "bogus"
	id := upload(t, s, "a.txt", "hello")

	rec := doJSON(t, s, http.MethodPost, "/api/documents/"+id+"/figures",
		`{"primitives":[{"type":"ellipse","points":[[5,5]],"rx":5,"ry":2}]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if fig := decode[addFigureResponse](t, rec); fig.Engine {
		t.Error("expected inactive engine")
	}
}

func TestSpelling(t *testing.T) {
	s := newTestServer(t, nil)
	id := upload(t, s, "notes.md", testMarkdown)
	if rec := do(t, s, http.MethodPost, "/api/documents/"+id+"/spelling", nil, ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without a checker, got %d", rec.Code)
	}

	s.spell = func(context.Context) doctree.SpellChecker {
		return doctree.SpellCheckerFunc(func(text string) bool { return text != "bold" })
	}
	rec := do(t, s, http.MethodPost, "/api/documents/"+id+"/spelling", nil, "")
	got := decode[map[string]any](t, rec)
	if got["count"] != float64(1) {
		t.Errorf("expected one misspelling, got %v", got)
	}
}

func TestExportFormats(t *testing.T) {
	s := newTestServer(t, nil)
	id := upload(t, s, "notes.md", testMarkdown)
	doJSON(t, s, http.MethodPost, "/api/documents/"+id+"/figures", `{"primitives":[{"type":"rect","points":[[0,0],[30,20]]}]}`)

	for _, tc := range []struct {
		format, contentType, magic string
	}{
		{"png", "image/png", "\x89PNG"},
		{"pdf", "application/pdf", "%PDF"},
		{"docx", exportContentTypes["docx"], "PK"},
	} {
		rec := do(t, s, http.MethodGet, "/api/documents/"+id+"/export/"+tc.format, nil, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d: %s", tc.format, rec.Code, rec.Body.String())
			continue
		}
		if got := rec.Header().Get("Content-Type"); got != tc.contentType {
			t.Errorf("%s: expected content type %s, got %s", tc.format, tc.contentType, got)
		}
		if !bytes.HasPrefix(rec.Body.Bytes(), []byte(tc.magic)) {
			t.Errorf("%s: unexpected body prefix %q", tc.format, rec.Body.Bytes()[:min(8, rec.Body.Len())])
		}
		if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "notes."+tc.format) {
			t.Errorf("%s: unexpected disposition %q", tc.format, got)
		}
	}

	if rec := do(t, s, http.MethodGet, "/api/documents/"+id+"/export/odt", nil, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for odt, got %d", rec.Code)
	}

	stats := decode[map[string]export.SinkStats](t, do(t, s, http.MethodGet, "/api/stats/export", nil, ""))
	for _, sink := range []string{export.SinkWindow, export.SinkPDF, export.SinkDocument} {
		if stats[sink].Count != 1 {
			t.Errorf("expected one %s sample, got %+v", sink, stats[sink])
		}
	}
}

func TestPDFExportReportsRefusedBlocks(t *testing.T) {
	s := newTestServer(t, nil)
	id := upload(t, s, "a.txt", "hello")
	doJSON(t, s, http.MethodPost, "/api/documents/"+id+"/paragraphs", `{"runs":[{"text":"日本語","style":{"bold":true}}]}`)

	rec := do(t, s, http.MethodGet, "/api/documents/"+id+"/export/pdf", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Docedit-Failed-Blocks"); got != "1" {
		t.Errorf("expected block 1 refused, got %q", got)
	}
}

func TestAddParagraphDecorations(t *testing.T) {
	s := newTestServer(t, nil)
	id := upload(t, s, "a.txt", "hello")
	path := "/api/documents/" + id + "/paragraphs"

	rec := doJSON(t, s, http.MethodPost, path,
		`{"runs":[{"text":"loud","style":{"foreground":"#f00"},"decorate":["bold","underline"]}]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	got := decode[searchResult](t, doJSON(t, s, http.MethodPost, "/api/documents/"+id+"/search",
		`{"style":{"bold":true,"underline":true,"italic":false,"foreground":"ff0000"}}`))
	if got.Count != 1 || got.Matches[0].Text != "loud" {
		t.Errorf("expected the decorated run, got %+v", got)
	}

	if rec := doJSON(t, s, http.MethodPost, path, `{"runs":[{"text":"x","decorate":["blink"]}]}`); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for an unknown decoration, got %d", rec.Code)
	}
}
