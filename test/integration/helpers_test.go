package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/msto63/fnlang/internal/server"
)

// TestConfig holds the addresses of externally started services
type TestConfig struct {
	ServerAddr string
}

func getTestConfig() TestConfig {
	return TestConfig{
		ServerAddr: getEnv("TEST_FNLANG_ADDR", "localhost:7420"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// skipIfServiceUnavailable skips the test if the service is not reachable
func skipIfServiceUnavailable(t *testing.T, addr string, serviceName string) {
	t.Helper()
	if !isServiceAvailable(addr) {
		t.Skipf("Skipping: %s service not available at %s", serviceName, addr)
	}
}

// isServiceAvailable checks if a TCP connection can be established
func isServiceAvailable(addr string) bool {
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// dialWebSocket opens a websocket connection that is closed on cleanup
func dialWebSocket(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	ctx, cancel := testContext(t, 5*time.Second)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		t.Fatalf("Failed to connect to %s: %v", url, err)
	}

	t.Cleanup(func() {
		conn.Close()
	})

	return conn
}

// roundTrip sends one request and decodes the response payload into a map
func roundTrip(t *testing.T, conn *websocket.Conn, req map[string]interface{}) server.Response {
	t.Helper()

	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}

	var raw struct {
		Type    string          `json:"type"`
		ID      string          `json:"id"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	payload := map[string]interface{}{}
	if len(raw.Payload) > 0 {
		if err := json.Unmarshal(raw.Payload, &payload); err != nil {
			t.Fatalf("Unmarshal(payload) error = %v", err)
		}
	}
	return server.Response{Type: raw.Type, ID: raw.ID, Payload: payload}
}

// testContext returns a context with timeout for tests
func testContext(t *testing.T, timeout time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), timeout)
}

func parseRequest(id, src string) map[string]interface{} {
	return map[string]interface{}{
		"type":    server.TypeParse,
		"id":      id,
		"payload": map[string]string{"source": src},
	}
}

// syncBuffer is a bytes.Buffer safe for concurrent writers
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
