package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	mdwlog "github.com/msto63/fnlang/foundation/core/log"
	"github.com/msto63/fnlang/foundation/lang"
	"github.com/msto63/fnlang/foundation/lang/lexer"
	"github.com/msto63/fnlang/pkg/core/health"
)

func newTestServer(t *testing.T, opts lang.Options) *Server {
	t.Helper()
	opts.Logger = mdwlog.NewNop()
	engine, err := lang.New(opts)
	if err != nil {
		t.Fatalf("lang.New() error = %v", err)
	}
	return New(engine, DefaultConfig(), mdwlog.NewNop())
}

// decode round-trips a response through JSON like a client would see it
func decode(t *testing.T, resp Response) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	return m
}

func TestServer_Dispatch(t *testing.T) {
	s := newTestServer(t, lang.Options{})

	tests := []struct {
		name     string
		request  string
		respType string
		check    func(t *testing.T, payload map[string]interface{})
	}{
		{
			name:     "Ping",
			request:  `{"type":"ping","id":"1"}`,
			respType: TypePong,
			check: func(t *testing.T, payload map[string]interface{}) {
				if payload["protocol"] != float64(1) {
					t.Errorf("Expected protocol 1, got %v", payload["protocol"])
				}
			},
		},
		{
			name:     "Tokenize",
			request:  `{"type":"tokenize","payload":{"source":"let x = 5;"}}`,
			respType: TypeTokens,
			check: func(t *testing.T, payload map[string]interface{}) {
				tokens := payload["tokens"].([]interface{})
				if len(tokens) != 5 {
					t.Fatalf("Expected 5 tokens, got %d", len(tokens))
				}
				first := tokens[0].(map[string]interface{})
				if first["type"] != "LET" || first["line"] != float64(1) {
					t.Errorf("Unexpected first token %v", first)
				}
			},
		},
		{
			name:     "Parse",
			request:  `{"type":"parse","payload":{"source":"fn main() { let test = 5; if test > 5 { } }"}}`,
			respType: TypeAST,
			check: func(t *testing.T, payload map[string]interface{}) {
				if payload["sexpr"] != "(fn main ((let test 5) (if (> test 5) ())))" {
					t.Errorf("Unexpected sexpr %v", payload["sexpr"])
				}
				if payload["run_id"] == "" {
					t.Error("Expected run_id")
				}
				stmts := payload["statements"].([]interface{})
				if stmts[0].(map[string]interface{})["type"] != "Function" {
					t.Errorf("Unexpected statements %v", stmts)
				}
			},
		},
		{
			name:     "Lexical error",
			request:  `{"type":"tokenize","payload":{"source":"let x = #;"}}`,
			respType: TypeError,
			check: func(t *testing.T, payload map[string]interface{}) {
				if payload["code"] != "LEXICAL" || payload["column"] != float64(9) {
					t.Errorf("Unexpected error payload %v", payload)
				}
			},
		},
		{
			name:     "Syntax error",
			request:  `{"type":"parse","payload":{"source":"fn main() {\n  let x = y;\n}"}}`,
			respType: TypeError,
			check: func(t *testing.T, payload map[string]interface{}) {
				if payload["code"] != "SYNTAX" || payload["production"] != "assignment" {
					t.Errorf("Unexpected error payload %v", payload)
				}
				if payload["line"] != float64(2) || payload["column"] != float64(11) {
					t.Errorf("Unexpected location %v:%v", payload["line"], payload["column"])
				}
			},
		},
		{
			name:     "Malformed JSON",
			request:  `{"type":`,
			respType: TypeError,
			check: func(t *testing.T, payload map[string]interface{}) {
				if payload["code"] != "INVALID_MESSAGE" {
					t.Errorf("Unexpected code %v", payload["code"])
				}
			},
		},
		{
			name:     "Unknown type",
			request:  `{"type":"compile","payload":{"source":""}}`,
			respType: TypeError,
			check: func(t *testing.T, payload map[string]interface{}) {
				if !strings.Contains(payload["message"].(string), "compile") {
					t.Errorf("Unexpected message %v", payload["message"])
				}
			},
		},
		{
			name:     "Missing payload",
			request:  `{"type":"parse"}`,
			respType: TypeError,
			check: func(t *testing.T, payload map[string]interface{}) {
				if payload["code"] != "INVALID_MESSAGE" {
					t.Errorf("Unexpected code %v", payload["code"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := decode(t, s.dispatch(context.Background(), []byte(tt.request)))
			if resp["type"] != tt.respType {
				t.Fatalf("Expected type %s, got %v (%v)", tt.respType, resp["type"], resp)
			}
			payload, _ := resp["payload"].(map[string]interface{})
			if tt.check != nil {
				tt.check(t, payload)
			}
		})
	}
}

func TestServer_DispatchEchoesID(t *testing.T) {
	s := newTestServer(t, lang.Options{})
	resp := s.dispatch(context.Background(), []byte(`{"type":"parse","id":"req-7","payload":{"source":"use io;"}}`))
	if resp.ID != "req-7" {
		t.Errorf("Expected id req-7, got %q", resp.ID)
	}
}

func TestServer_ResponseCache(t *testing.T) {
	request := func(id string) []byte {
		return []byte(`{"type":"parse","id":"` + id + `","payload":{"source":"let x = 1;"}}`)
	}
	runID := func(resp Response) string {
		return resp.Payload.(ASTPayload).RunID
	}

	s := newTestServer(t, lang.Options{})
	first := s.dispatch(context.Background(), request("a"))
	second := s.dispatch(context.Background(), request("b"))

	if first.ID != "a" || second.ID != "b" {
		t.Errorf("IDs = %q, %q", first.ID, second.ID)
	}
	if runID(first) != runID(second) {
		t.Error("Expected the second response to come from the cache")
	}
	if hits, _, _ := s.responses.Stats(); hits != 1 {
		t.Errorf("Expected 1 cache hit, got %d", hits)
	}

	// Tokenize shares the source but not the cache entry
	tokens := s.dispatch(context.Background(), []byte(`{"type":"tokenize","payload":{"source":"let x = 1;"}}`))
	if tokens.Type != TypeTokens {
		t.Errorf("Expected tokens response, got %s", tokens.Type)
	}

	engine, err := lang.New(lang.Options{Logger: mdwlog.NewNop()})
	if err != nil {
		t.Fatalf("lang.New() error = %v", err)
	}
	cfg := DefaultConfig()
	cfg.CacheEntries = 0
	uncached := New(engine, cfg, mdwlog.NewNop())
	if uncached.responses != nil {
		t.Fatal("Expected caching to be disabled")
	}
	if runID(uncached.dispatch(context.Background(), request("a"))) == runID(uncached.dispatch(context.Background(), request("b"))) {
		t.Error("Expected distinct run IDs without a cache")
	}
}

func TestServer_CanceledNotCached(t *testing.T) {
	s := newTestServer(t, lang.Options{})
	data := []byte(`{"type":"parse","payload":{"source":"use io;"}}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if resp := s.dispatch(ctx, data); resp.Type != TypeError {
		t.Fatalf("Expected error response for canceled context, got %s", resp.Type)
	}
	if s.responses.Size() != 0 {
		t.Errorf("Canceled runs must not be cached, size %d", s.responses.Size())
	}
	if resp := s.dispatch(context.Background(), data); resp.Type != TypeAST {
		t.Errorf("Expected ast response, got %s", resp.Type)
	}
}

func TestServer_InputLimit(t *testing.T) {
	s := newTestServer(t, lang.Options{Lexer: lexer.Options{MaxInputLength: 8}})
	resp := decode(t, s.dispatch(context.Background(), []byte(`{"type":"parse","payload":{"source":"let value = 12345;"}}`)))
	payload := resp["payload"].(map[string]interface{})
	if payload["code"] != "INPUT_TOO_LARGE" {
		t.Errorf("Unexpected payload %v", payload)
	}
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, lang.Options{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
	var report health.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if report.Status != health.StatusHealthy || report.Service != "fnlang-server" {
		t.Errorf("Unexpected report %+v", report)
	}
	if len(report.Checks) != 1 || report.Checks[0].Name != "engine" {
		t.Errorf("Unexpected checks %+v", report.Checks)
	}

	post, err := http.Post(ts.URL+"/health", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /health error = %v", err)
	}
	post.Body.Close()
	if post.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", post.StatusCode)
	}
}

func TestServer_WebSocket(t *testing.T) {
	s := newTestServer(t, lang.Options{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	requests := []struct {
		msg      Request
		respType string
	}{
		{Request{Type: TypePing, ID: "a"}, TypePong},
		{Request{Type: TypeTokenize, ID: "b", Payload: json.RawMessage(`{"source":"use io;"}`)}, TypeTokens},
		{Request{Type: TypeParse, ID: "c", Payload: json.RawMessage(`{"source":"let = 5;"}`)}, TypeError},
		{Request{Type: TypeParse, ID: "d", Payload: json.RawMessage(`{"source":"const s = \"hi\";"}`)}, TypeAST},
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for _, tt := range requests {
		if err := conn.WriteJSON(tt.msg); err != nil {
			t.Fatalf("WriteJSON() error = %v", err)
		}
		var resp struct {
			Type    string          `json:"type"`
			ID      string          `json:"id"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatalf("ReadJSON() error = %v", err)
		}
		if resp.Type != tt.respType || resp.ID != tt.msg.ID {
			t.Errorf("Request %s: got %s/%s, want %s", tt.msg.ID, resp.Type, resp.ID, tt.respType)
		}
	}
}

func TestServer_CheckOrigin(t *testing.T) {
	engine, err := lang.New(lang.Options{Logger: mdwlog.NewNop()})
	if err != nil {
		t.Fatalf("lang.New() error = %v", err)
	}
	cfg := DefaultConfig()
	cfg.AllowedOrigins = []string{"https://editor.example.com"}
	s := New(engine, cfg, mdwlog.NewNop())

	tests := []struct {
		name    string
		origin  string
		allowed bool
	}{
		{"No origin header", "", true},
		{"Localhost", "http://localhost:3000", true},
		{"Loopback IPv4", "http://127.0.0.1:8080", true},
		{"Loopback IPv6", "http://[::1]:8080", true},
		{"Allow list", "https://editor.example.com", true},
		{"Foreign site", "https://evil.example.net", false},
		{"Lookalike host", "http://localhost.evil.example.net", false},
		{"Malformed", "://bad", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if got := s.checkOrigin(req); got != tt.allowed {
				t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.allowed)
			}
		})
	}

	cfg.AllowedOrigins = []string{"*"}
	open := New(engine, cfg, mdwlog.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "https://evil.example.net")
	if !open.checkOrigin(req) {
		t.Error("Wildcard should accept any origin")
	}
}

func TestServer_RejectsForeignOrigin(t *testing.T) {
	s := newTestServer(t, lang.Options{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	header := http.Header{"Origin": []string{"https://evil.example.net"}}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		conn.Close()
		t.Fatal("Expected handshake to fail for a foreign origin")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403, got %v", resp)
	}
}

func TestServer_Timeouts(t *testing.T) {
	engine, err := lang.New(lang.Options{Logger: mdwlog.NewNop()})
	if err != nil {
		t.Fatalf("lang.New() error = %v", err)
	}
	cfg := DefaultConfig()
	cfg.ReadTimeout = 7 * time.Second
	cfg.WriteTimeout = 3 * time.Second
	s := New(engine, cfg, mdwlog.NewNop())

	if s.httpServer.ReadHeaderTimeout != 7*time.Second {
		t.Errorf("ReadHeaderTimeout = %v, want 7s", s.httpServer.ReadHeaderTimeout)
	}
}
