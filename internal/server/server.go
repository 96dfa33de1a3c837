// Package server exposes the vector operations over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/example/go-vops/internal/array"
	"github.com/example/go-vops/internal/config"
	"github.com/example/go-vops/internal/vops"
	"github.com/example/go-vops/internal/workspace"
)

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	maxBodyBytes   int64
	workers        int
	requestTimeout time.Duration
	logger         *slog.Logger
}

func defaultOptions() options {
	return options{
		maxBodyBytes:   1 << 20,
		workers:        4,
		requestTimeout: 30 * time.Second,
		logger:         slog.Default(),
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithMaxBodyBytes limits the size of a POST /eval body.
func WithMaxBodyBytes(n int64) Option {
	return func(o *options) { o.maxBodyBytes = n }
}

// WithWorkers sets the maximum number of concurrent evaluations.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithRequestTimeout sets the per-request evaluation deadline.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

type handler struct {
	opts options
	sem  chan struct{} // bounds concurrent evaluations
	log  *slog.Logger
}

// NewHandler returns an http.Handler that serves /health, /ops and
// POST /eval.
func NewHandler(optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{opts: opts, log: opts.logger}
	if opts.workers > 0 {
		h.sem = make(chan struct{}, opts.workers)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/ops", h.handleOps)
	mux.HandleFunc("/eval", h.handleEval)

	return mux
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}

	return "dev"
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildVersion(),
	})
}

func (h *handler) handleOps(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, vops.Ops())
}

// EvalRequest is the body of POST /eval.
type EvalRequest struct {
	Vars map[string]ArrayJSON `json:"vars"`
	Op   string               `json:"op"`
	Args []json.RawMessage    `json:"args"`
}

// EvalResponse is the reply to POST /eval. Vars holds every request
// variable after the operation, including rebound ones.
type EvalResponse struct {
	Scalar *Number               `json:"scalar,omitempty"`
	Array  *ArrayJSON            `json:"array,omitempty"`
	Vars   map[string]ArrayJSON `json:"vars"`
}

func (h *handler) handleEval(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req EvalRequest

	body := http.MaxBytesReader(w, r.Body, h.opts.maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds maximum size of %d bytes", h.opts.maxBodyBytes))

			return
		}

		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())

		return
	}

	if req.Op == "" {
		writeError(w, http.StatusBadRequest, "op field is required")
		return
	}

	ws, args, err := prepare(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.opts.requestTimeout)
	defer cancel()

	// Acquire a worker slot; the request deadline covers the wait.
	if h.sem != nil {
		select {
		case h.sem <- struct{}{}:
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				writeError(w, http.StatusGatewayTimeout, "timed out waiting for a worker")
				return
			}

			writeError(w, http.StatusServiceUnavailable, "request cancelled while waiting for worker")

			return
		}
	}

	type outcome struct {
		res vops.Result
		err error
	}

	// Kernels cannot be interrupted: the slot stays taken until Call returns,
	// even when the request has already timed out.
	done := make(chan outcome, 1)
	start := time.Now()

	go func() {
		res, err := vops.Call(req.Op, args...)
		if h.sem != nil {
			<-h.sem
		}

		done <- outcome{res, err}
	}()

	var out outcome

	select {
	case out = <-done:
	case <-ctx.Done():
		h.log.WarnContext(r.Context(), "evaluation timed out",
			slog.String("op", req.Op),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		writeError(w, http.StatusGatewayTimeout, "evaluation timed out")

		return
	}

	durationMS := time.Since(start).Milliseconds()

	if out.err != nil {
		h.log.InfoContext(r.Context(), "evaluation rejected",
			slog.String("op", req.Op),
			slog.Int64("duration_ms", durationMS),
			slog.String("error", out.err.Error()),
		)
		writeError(w, statusFor(out.err), out.err.Error())

		return
	}

	resp, err := buildResponse(out.res, ws)
	if err != nil {
		h.log.ErrorContext(r.Context(), "encoding result failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, err.Error())

		return
	}

	h.log.InfoContext(r.Context(), "evaluation complete",
		slog.String("op", req.Op),
		slog.Int("args", len(args)),
		slog.Int64("duration_ms", durationMS),
	)

	writeJSON(w, http.StatusOK, resp)
}

// prepare binds the request variables in a fresh workspace and decodes the
// arguments against it.
func prepare(req EvalRequest) (*workspace.Workspace, []any, error) {
	ws := workspace.New()

	for name, j := range req.Vars {
		a, err := DecodeArray(j)
		if err != nil {
			return nil, nil, fmt.Errorf("var %q: %w", name, err)
		}

		if _, err := ws.Set(name, a); err != nil {
			return nil, nil, err
		}
	}

	lookup := func(name string) (array.Operand, error) {
		return ws.Var(name)
	}

	args := make([]any, len(req.Args))
	for i, raw := range req.Args {
		arg, err := decodeArg(raw, lookup)
		if err != nil {
			return nil, nil, fmt.Errorf("argument %d: %w", i+1, err)
		}

		args[i] = arg
	}

	return ws, args, nil
}

func buildResponse(res vops.Result, ws *workspace.Workspace) (EvalResponse, error) {
	resp := EvalResponse{Vars: make(map[string]ArrayJSON, ws.Len())}

	if res.HasScalar {
		n := Number(res.Scalar)
		resp.Scalar = &n
	}

	if res.Array != nil {
		j, err := EncodeArray(res.Array)
		if err != nil {
			return EvalResponse{}, err
		}

		resp.Array = &j
	}

	for _, name := range ws.Names() {
		v, _ := ws.Lookup(name)

		j, err := EncodeArray(v.Value())
		if err != nil {
			return EvalResponse{}, fmt.Errorf("var %q: %w", name, err)
		}

		resp.Vars[name] = j
	}

	return resp, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, vops.ErrArity),
		errors.Is(err, vops.ErrNotRealValued),
		errors.Is(err, vops.ErrShapeMismatch),
		errors.Is(err, vops.ErrIncompatibleTypes),
		errors.Is(err, vops.ErrNotAssignable),
		errors.Is(err, vops.ErrUnknownOperation),
		errors.Is(err, workspace.ErrNotFound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Server
// ---------------------------------------------------------------------------

// Server wires the HTTP handler into a net/http.Server with graceful shutdown.
type Server struct {
	cfg             config.Config
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

func New(cfg config.Config) *Server {
	return &Server{
		cfg:             cfg,
		logger:          slog.Default(),
		shutdownTimeout: time.Duration(cfg.Server.ShutdownTimeout) * time.Second,
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

// Handler builds the request handler from the server configuration.
func (s *Server) Handler() http.Handler {
	return NewHandler(
		WithWorkers(s.cfg.Server.Workers),
		WithMaxBodyBytes(s.cfg.Server.MaxBodyBytes),
		WithRequestTimeout(time.Duration(s.cfg.Server.RequestTimeout)*time.Second),
		WithLogger(s.logger),
	)
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Server.ListenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	s.logger.Info("listening", slog.String("addr", s.cfg.Server.ListenAddr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}

		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("http listen: %w", err)
	}
}

// ProbeHTTP checks that a server answers GET /health at addr.
func ProbeHTTP(ctx context.Context, addr string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status: %s", resp.Status)
	}

	return nil
}
