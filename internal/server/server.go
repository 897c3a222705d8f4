// ============================================================================
// fnlang - fnlang toolchain
// ============================================================================
//
// Package:     server
// Description: Websocket endpoint that tokenizes and parses on request
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	mdwerror "github.com/msto63/fnlang/foundation/core/error"
	mdwlog "github.com/msto63/fnlang/foundation/core/log"
	"github.com/msto63/fnlang/foundation/lang"
	"github.com/msto63/fnlang/foundation/lang/ast"
	"github.com/msto63/fnlang/foundation/lang/lexer"
	"github.com/msto63/fnlang/pkg/core/cache"
	"github.com/msto63/fnlang/pkg/core/health"
	"github.com/msto63/fnlang/pkg/core/version"
)

// healthSource is parsed by the engine health check
const healthSource = "use io;"

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxMessageSize int64

	// CacheEntries bounds the response cache, zero or less disables it
	CacheEntries int
	CacheTTL     time.Duration

	// AllowedOrigins lists browser origins accepted besides loopback ones,
	// "*" accepts any origin
	AllowedOrigins []string
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Host:           "127.0.0.1",
		Port:           7420,
		ReadTimeout:    60 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxMessageSize: 1 << 20,
		CacheEntries:   256,
		CacheTTL:       5 * time.Minute,
	}
}

// Server serves the websocket endpoint and the health check
type Server struct {
	httpServer *http.Server
	engine     *lang.Engine
	health     *health.Registry
	logger     *mdwlog.Logger
	upgrader   websocket.Upgrader
	config     Config

	// responses is nil when caching is disabled
	responses *cache.Cache[Response]
}

// New creates a new server
func New(engine *lang.Engine, cfg Config, logger *mdwlog.Logger) *Server {
	if logger == nil {
		logger = mdwlog.GetDefault()
	}
	defaults := DefaultConfig()
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = defaults.ReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = defaults.WriteTimeout
	}
	if cfg.MaxMessageSize == 0 {
		cfg.MaxMessageSize = defaults.MaxMessageSize
	}

	s := &Server{
		engine: engine,
		logger: logger.WithField("component", "server"),
		config: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	s.upgrader.CheckOrigin = s.checkOrigin

	if cfg.CacheEntries > 0 {
		s.responses = cache.New[Response](cache.Config{
			MaxItems: cfg.CacheEntries,
			TTL:      cfg.CacheTTL,
		})
	}

	s.health = health.NewRegistry("fnlang-server", version.Server)
	s.health.Register(health.FuncCheck("engine", func(ctx context.Context) error {
		return engine.Check(ctx, healthSource)
	}))

	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           s.Handler(),
		ReadHeaderTimeout: cfg.ReadTimeout,
	}
	return s
}

// Handler returns the HTTP handler with all routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return loggingMiddleware(s.logger, mux)
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start listens until ctx is done, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting fnlang server", mdwlog.Fields{"addr": s.httpServer.Addr})

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return mdwerror.Wrap(err, "server failed").
				WithCode(mdwerror.CodeInternal).
				WithOperation("server.start")
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	fields := mdwlog.Fields{}
	if s.responses != nil {
		hits, misses, hitRate := s.responses.Stats()
		fields["cache_entries"] = s.responses.Size()
		fields["cache_hits"] = hits
		fields["cache_misses"] = misses
		fields["cache_hit_rate"] = hitRate
	}
	s.logger.Info("Stopping fnlang server", fields)
	return s.httpServer.Shutdown(shutdownCtx)
}

// checkOrigin accepts clients without an Origin header, loopback origins and
// the configured allow list
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.config.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	if ip == nil || !ip.IsLoopback() {
		s.logger.Warn("Rejected websocket origin", mdwlog.Fields{"origin": origin})
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
			"error": "Use GET",
			"code":  "method_not_allowed",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	report := s.health.Check(ctx)
	writeJSON(w, report.HTTPStatus(), report)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WarnWithErr("WebSocket upgrade failed", err)
		return
	}
	s.handleConnection(r.Context(), conn)
}

// handleConnection serves requests on one connection in order
func (s *Server) handleConnection(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	logger := s.logger.WithField("remote", conn.RemoteAddr().String())
	logger.Info("WebSocket connection established")

	conn.SetReadLimit(s.config.MaxMessageSize)
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	})

	for {
		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WarnWithErr("WebSocket read error", err)
			} else {
				logger.Info("WebSocket connection closed")
			}
			return
		}

		resp := s.dispatch(ctx, data)
		conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
		if err := conn.WriteJSON(resp); err != nil {
			logger.WarnWithErr("WebSocket send error", err)
			return
		}
	}
}

// dispatch handles a single raw request and always produces a response
func (s *Server) dispatch(ctx context.Context, data []byte) Response {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return errorResponse("", invalidMessage("malformed message: "+err.Error()))
	}

	switch req.Type {
	case TypePing:
		return Response{
			Type:    TypePong,
			ID:      req.ID,
			Payload: PongPayload{Version: version.Toolchain, Protocol: version.ProtocolVersion},
		}

	case TypeTokenize, TypeParse:
		var payload SourcePayload
		if len(req.Payload) == 0 {
			return errorResponse(req.ID, invalidMessage("missing payload"))
		}
		if err := json.Unmarshal(req.Payload, &payload); err != nil {
			return errorResponse(req.ID, invalidMessage("invalid payload: "+err.Error()))
		}
		resp := s.run(ctx, req.Type, payload.Source)
		resp.ID = req.ID
		return resp

	default:
		return errorResponse(req.ID, invalidMessage("unknown message type: "+req.Type))
	}
}

// run answers a tokenize or parse request, consulting the response cache.
// Cached parse responses keep the run ID of the run that produced them.
func (s *Server) run(ctx context.Context, reqType, src string) Response {
	if s.responses == nil {
		resp, _ := s.compute(ctx, reqType, src)
		return resp
	}

	key := cache.Key(reqType, src)
	if resp, ok := s.responses.Get(key); ok {
		s.logger.Debug("Cache hit", mdwlog.Fields{"type": reqType})
		return resp
	}

	resp, cacheable := s.compute(ctx, reqType, src)
	if cacheable {
		s.responses.Set(key, resp)
	}
	return resp
}

// compute runs the engine. Results are deterministic for a given source
// except when the run was canceled.
func (s *Server) compute(ctx context.Context, reqType, src string) (Response, bool) {
	if reqType == TypeTokenize {
		return s.tokenize(ctx, src)
	}
	return s.parse(ctx, src)
}

func (s *Server) tokenize(ctx context.Context, src string) (Response, bool) {
	tokens, err := s.engine.Tokenize(ctx, src)
	if err != nil {
		return errorResponse("", lang.DiagnosticFrom(err)), !mdwerror.HasCode(err, mdwerror.CodeCanceled)
	}
	return Response{Type: TypeTokens, Payload: TokensPayload{Tokens: lexer.Dump(tokens)}}, true
}

func (s *Server) parse(ctx context.Context, src string) (Response, bool) {
	result, err := s.engine.Parse(ctx, src)
	if err != nil {
		return errorResponse("", lang.DiagnosticFrom(err)), !mdwerror.HasCode(err, mdwerror.CodeCanceled)
	}
	return Response{
		Type: TypeAST,
		Payload: ASTPayload{
			RunID:      result.RunID,
			Statements: ast.Dump(result.Statements),
			SExpr:      ast.SExpr(result.Statements),
		},
	}, true
}

func invalidMessage(message string) lang.Diagnostic {
	return lang.Diagnostic{
		Code:    string(mdwerror.CodeInvalidMessage),
		Message: message,
	}
}

func errorResponse(id string, d lang.Diagnostic) Response {
	return Response{Type: TypeError, ID: id, Payload: d}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *mdwlog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		logger.Debug("HTTP request", mdwlog.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      wrapper.statusCode,
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000,
		})
	})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrader take over the connection
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.statusCode = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}
