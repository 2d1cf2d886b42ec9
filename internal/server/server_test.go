package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/timsueberkrueb/lsp-graph-poc/pkg/graph"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/pipeline"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	return New(Config{
		Addr:   ":0",
		Store:  store.NewMemoryStore(),
		Runner: pipeline.NewRunner(nil, nil, log.New(io.Discard)),
		Logger: log.New(io.Discard),
	})
}

func testGraph(t *testing.T) graph.Graph {
	t.Helper()
	s := graph.NewStore()
	root := s.AddNode(graph.Folder{Name: "demo", Path: "/demo"})
	file := s.AddNode(graph.File{Name: "main.rs", Path: "/demo/main.rs"})
	item := s.AddNode(graph.Item{Name: "main", Moniker: "demo::main"})
	for _, to := range []graph.NodeID{file, item} {
		from := root
		if to == item {
			from = file
		}
		if _, err := s.AddEdge(graph.EdgeData{From: from, To: to, Relation: graph.RelationIsParentOf}); err != nil {
			t.Fatal(err)
		}
	}
	return graph.FromStore(s)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createTestGraph(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/graphs", createGraphRequest{
		Name:  "demo",
		Graph: testGraph(t),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/graphs = %d, body %s", rec.Code, rec.Body)
	}
	var summary graphSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatal(err)
	}
	if summary.ID == "" {
		t.Fatal("created graph has empty id")
	}
	return summary.ID
}

func TestHealthEndpoint(t *testing.T) {
	h := testServer(t).Handler()
	rec := doJSON(t, h, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /healthz = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestCreateAndGetGraph(t *testing.T) {
	h := testServer(t).Handler()
	id := createTestGraph(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/graphs/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET graph = %d, body %s", rec.Code, rec.Body)
	}
	var doc store.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Name != "demo" || len(doc.Graph.Nodes) != 3 || len(doc.Graph.Edges) != 2 {
		t.Errorf("doc = %q with %d nodes, %d edges, want demo/3/2",
			doc.Name, len(doc.Graph.Nodes), len(doc.Graph.Edges))
	}
	if doc.Layout != nil {
		t.Error("fresh graph already has a layout")
	}
}

func TestCreateGraphValidation(t *testing.T) {
	h := testServer(t).Handler()

	t.Run("missing name", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/api/graphs", createGraphRequest{Graph: testGraph(t)})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("dangling edge", func(t *testing.T) {
		g := testGraph(t)
		g.Edges = append(g.Edges, graph.Edge{ID: len(g.Edges), From: 0, To: 99, Relation: "is_parent_of"})
		rec := doJSON(t, h, http.MethodPost, "/api/graphs", createGraphRequest{Name: "bad", Graph: g})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "INVALID_GRAPH") {
			t.Errorf("body %s does not carry INVALID_GRAPH", rec.Body)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/graphs", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestListGraphs(t *testing.T) {
	h := testServer(t).Handler()
	createTestGraph(t, h)
	createTestGraph(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/graphs", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/graphs = %d", rec.Code)
	}
	var summaries []graphSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summaries); err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 2 {
		t.Fatalf("len = %d, want 2", len(summaries))
	}
	for _, s := range summaries {
		if s.NodeCount != 3 || s.EdgeCount != 2 || s.HasLayout {
			t.Errorf("summary = %+v, want 3 nodes, 2 edges, no layout", s)
		}
	}
}

func TestDeleteGraph(t *testing.T) {
	h := testServer(t).Handler()
	id := createTestGraph(t, h)

	if rec := doJSON(t, h, http.MethodDelete, "/api/graphs/"+id, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE = %d", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodGet, "/api/graphs/"+id, nil); rec.Code != http.StatusNotFound {
		t.Errorf("GET after delete = %d, want 404", rec.Code)
	}
	if rec := doJSON(t, h, http.MethodDelete, "/api/graphs/"+id, nil); rec.Code != http.StatusNotFound {
		t.Errorf("second DELETE = %d, want 404", rec.Code)
	}
}

func TestUnknownGraphReturnsCode(t *testing.T) {
	h := testServer(t).Handler()
	rec := doJSON(t, h, http.MethodGet, "/api/graphs/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error.Code != "GRAPH_NOT_FOUND" {
		t.Errorf("code = %q, want GRAPH_NOT_FOUND", resp.Error.Code)
	}
}

func TestComputeAndGetLayout(t *testing.T) {
	h := testServer(t).Handler()
	id := createTestGraph(t, h)

	if rec := doJSON(t, h, http.MethodGet, "/api/graphs/"+id+"/layout", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("GET layout before compute = %d, want 404", rec.Code)
	}

	rec := doJSON(t, h, http.MethodPost, "/api/graphs/"+id+"/layout", layoutRequest{MaxIterations: 200})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST layout = %d, body %s", rec.Code, rec.Body)
	}
	var l graph.Layout
	if err := json.Unmarshal(rec.Body.Bytes(), &l); err != nil {
		t.Fatal(err)
	}
	if len(l.Rects) != 3 || len(l.Lines) != 2 {
		t.Fatalf("layout = %d rects, %d lines, want 3 and 2", len(l.Rects), len(l.Lines))
	}

	rec = doJSON(t, h, http.MethodGet, "/api/graphs/"+id+"/layout", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET layout = %d", rec.Code)
	}
	var stored graph.Layout
	if err := json.Unmarshal(rec.Body.Bytes(), &stored); err != nil {
		t.Fatal(err)
	}
	if len(stored.Rects) != len(l.Rects) {
		t.Errorf("stored layout has %d rects, want %d", len(stored.Rects), len(l.Rects))
	}
}

func TestGetSVGComputesLayoutOnDemand(t *testing.T) {
	h := testServer(t).Handler()
	id := createTestGraph(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/graphs/"+id+"/svg", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET svg = %d, body %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<svg") || !strings.Contains(body, "main.rs") {
		t.Errorf("svg body missing expected content: %.100s", body)
	}

	// The on-demand layout is persisted for later requests.
	if rec := doJSON(t, h, http.MethodGet, "/api/graphs/"+id+"/layout", nil); rec.Code != http.StatusOK {
		t.Errorf("GET layout after svg = %d, want 200", rec.Code)
	}
}
