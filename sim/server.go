package sim

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/pwalczak/stride"
)

// Paths match the client's defaults so a simulator needs nothing beyond
// -base-url to stand in for the real service.
const (
	adaptPath  = "/v1/adaptations/stream"
	acceptPath = "/v1/plans/accept"
)

// Server is the simulated coaching service. It implements [http.Handler].
type Server struct {
	gen     Generator
	log     *zap.Logger
	threads atomic.Int64
	mux     *http.ServeMux
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the request logger. Default is a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Server) { s.log = log }
}

// NewServer creates a simulator that sources narrative from gen.
func NewServer(gen Generator, opts ...Option) *Server {
	s := &Server{
		gen: gen,
		log: zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	mux := http.NewServeMux()
	mux.HandleFunc(adaptPath, s.handleAdapt)
	mux.HandleFunc(acceptPath, s.handleAccept)
	s.mux = mux
	return s
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// event is the JSON payload of one frame, the shape the client's session
// controller decodes.
type event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
	Done bool   `json:"done,omitempty"`
}

func (s *Server) handleAdapt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req stride.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("decoding request: %v", err))
		return
	}
	if err := req.Validate(); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	threadID := s.threads.Add(1)
	s.log.Info("adaptation exchange",
		zap.Int64("thread_id", threadID),
		zap.Int("note_len", len(req.Note)),
		zap.Bool("has_metrics", req.Metrics != nil),
		zap.String("remote", r.RemoteAddr),
	)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx proxy compatibility
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sw := &streamWriter{w: w, flusher: flusher}

	if err := sw.writeEvent(event{Type: "recovery_score", Data: deriveScore(req.Metrics)}); err != nil {
		return
	}
	if err := sw.writeEvent(event{Type: "thread_id", Data: threadID}); err != nil {
		return
	}

	// One fragment of lookahead so the last one can carry the done flag.
	// Empty fragments carry nothing and are dropped.
	var pending string
	var have bool
	genErr := s.gen.Generate(r.Context(), req, func(fragment string) error {
		if fragment == "" {
			return nil
		}
		if have {
			if err := sw.writeEvent(event{Type: "content", Data: pending}); err != nil {
				return err
			}
		}
		pending, have = fragment, true
		return nil
	})
	if genErr != nil {
		s.log.Warn("generation failed", zap.Int64("thread_id", threadID), zap.Error(genErr))
		if have {
			_ = sw.writeEvent(event{Type: "content", Data: pending})
		}
		_ = sw.writeEvent(event{Type: "error", Data: genErr.Error()})
		_ = sw.writeFrame(doneSentinel)
		return
	}

	if have {
		if err := sw.writeEvent(event{Type: "content", Data: pending, Done: true}); err != nil {
			return
		}
	}
	// Redundant with the final content's done flag, as the real service
	// sends both; completion is idempotent on the client.
	if err := sw.writeEvent(event{Type: "done"}); err != nil {
		return
	}
	_ = sw.writeFrame(doneSentinel)
}

func (s *Server) handleAccept(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ThreadID int64 `json:"thread_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("decoding request: %v", err))
		return
	}
	if req.ThreadID <= 0 {
		writeAPIError(w, http.StatusBadRequest, "invalid_request", "thread_id is required")
		return
	}
	if req.ThreadID > s.threads.Load() {
		writeAPIError(w, http.StatusNotFound, "not_found", fmt.Sprintf("unknown thread %d", req.ThreadID))
		return
	}

	s.log.Info("plan accepted", zap.Int64("thread_id", req.ThreadID))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"accepted": true, "thread_id": req.ThreadID})
}

// doneSentinel ends every stream, matching what the client treats as a
// clean end.
const doneSentinel = "[DONE]"

// streamWriter writes payload frames, flushing after each so they reach
// the client immediately.
type streamWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func (sw *streamWriter) writeEvent(evt event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return sw.writeFrame(string(payload))
}

func (sw *streamWriter) writeFrame(payload string) error {
	if _, err := fmt.Fprintf(sw.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	sw.flusher.Flush()
	return nil
}

// writeAPIError writes the service's JSON error envelope.
func writeAPIError(w http.ResponseWriter, status int, typ, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"type": typ, "message": msg},
	})
}

// deriveScore maps request biometrics onto a 0-100 readiness score. The
// formula is arbitrary but stable so tests can pin exact values; without
// metrics the score is a neutral 65.
func deriveScore(m *stride.Metrics) float64 {
	if m == nil {
		return 65
	}
	score := 50.0
	if m.SleepHours > 0 {
		score += (m.SleepHours - 6) * 5
	}
	if m.HRV > 0 {
		score += (m.HRV - 50) / 2
	}
	if m.RestingHeartRate > 0 {
		score -= float64(m.RestingHeartRate-60) / 2
	}
	return math.Round(math.Max(0, math.Min(100, score)))
}
