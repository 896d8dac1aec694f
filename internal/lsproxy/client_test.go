package lsproxy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sprite-ai/blastr/internal/model"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
		Retry: RetryPolicy{
			MaxAttempts: 3,
			BaseDelay:   time.Millisecond,
			MaxDelay:    5 * time.Millisecond,
		},
	}
}

func TestListFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/workspace/list-files" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]string{"a.py", "b.py"})
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL+"/v1"), nil)
	files, err := c.ListFiles(context.Background())
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 2 || files[0] != "a.py" {
		t.Errorf("unexpected files: %v", files)
	}
}

func TestDefinitionsInFileQueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("file_path") != "src/app.py" {
			t.Errorf("file_path = %q", q.Get("file_path"))
		}
		if q.Get("include_source_code") != "true" {
			t.Errorf("include_source_code = %q", q.Get("include_source_code"))
		}
		json.NewEncoder(w).Encode(SymbolResponse{
			Symbols: []model.Symbol{{
				Kind: "function",
				Name: "handler",
				StartPosition: model.FilePosition{
					Path: "src/app.py",
					Pos:  model.Position{Line: 3, Character: 4},
				},
			}},
			SourceCodeContext: []model.CodeContext{{
				Range: model.FileRange{
					Path:  "src/app.py",
					Start: model.Position{Line: 3},
					End:   model.Position{Line: 7},
				},
				SourceCode: "def handler():\n    pass",
			}},
		})
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), nil)
	resp, err := c.DefinitionsInFile(context.Background(), FileSymbolsRequest{
		FilePath:          "src/app.py",
		IncludeSourceCode: true,
	})
	if err != nil {
		t.Fatalf("DefinitionsInFile: %v", err)
	}
	if len(resp.Symbols) != 1 || resp.Symbols[0].Name != "handler" {
		t.Errorf("unexpected symbols: %+v", resp.Symbols)
	}
	if len(resp.SourceCodeContext) != 1 {
		t.Errorf("expected 1 context, got %d", len(resp.SourceCodeContext))
	}
}

func TestFindReferencesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		var req ReferencesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.IncludeDeclaration {
			t.Error("include_declaration should be false")
		}
		if req.StartPosition.Path != "src/app.py" {
			t.Errorf("start path = %q", req.StartPosition.Path)
		}
		json.NewEncoder(w).Encode(ReferencesResponse{
			References: []model.FilePosition{
				{Path: "src/caller.py", Pos: model.Position{Line: 10, Character: 8}},
			},
		})
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), nil)
	resp, err := c.FindReferences(context.Background(), ReferencesRequest{
		StartPosition: model.FilePosition{Path: "src/app.py", Pos: model.Position{Line: 3, Character: 4}},
	})
	if err != nil {
		t.Fatalf("FindReferences: %v", err)
	}
	if len(resp.References) != 1 || resp.References[0].Path != "src/caller.py" {
		t.Errorf("unexpected references: %+v", resp.References)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "temporary", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode([]string{"a.py"})
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), nil)
	files, err := c.ListFiles(context.Background())
	if err != nil {
		t.Fatalf("expected retries to recover, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if len(files) != 1 {
		t.Errorf("unexpected files: %v", files)
	}
}

func TestRetryBudgetExhausted(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), nil)
	_, err := c.ListFiles(context.Background())
	if err == nil {
		t.Fatal("expected error after retry budget exhausted")
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Status != http.StatusServiceUnavailable {
		t.Errorf("expected StatusError(503), got %v", err)
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), nil)
	_, err := c.ListFiles(context.Background())
	if err == nil {
		t.Fatal("expected error on 400")
	}
	if calls != 1 {
		t.Errorf("4xx must not be retried; got %d calls", calls)
	}
}
