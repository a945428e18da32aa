package coachapi

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pwalczak/stride"
)

// frameStream implements [stride.FrameStream] by re-framing an HTTP
// response body into payload frames. The body arrives in arbitrary chunks;
// the scanner re-assembles lines regardless of where chunk boundaries
// fall, including mid-rune.
type frameStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	ctx     context.Context
	done    bool  // sentinel seen or clean EOF reached
	closed  bool
	err     error // terminal error, if any
}

// Interface compliance check.
var _ stride.FrameStream = (*frameStream)(nil)

func newFrameStream(ctx context.Context, body io.ReadCloser) *frameStream {
	scanner := bufio.NewScanner(body)
	// A whole plan document can arrive as a single frame, so the default
	// 64KB scanner limit gets a 1MB ceiling.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &frameStream{
		body:    body,
		scanner: scanner,
		ctx:     ctx,
	}
}

// Next returns the next payload frame with the framing prefix stripped.
// It returns io.EOF on clean end of stream: either the end sentinel or the
// server closing the connection without one.
func (s *frameStream) Next() (string, error) {
	switch {
	case s.done:
		return "", io.EOF
	case s.err != nil:
		return "", s.err
	case s.closed:
		return "", fmt.Errorf("coachapi: %w", stride.ErrStreamClosed)
	}

	for s.scanner.Scan() {
		line := s.scanner.Text()
		if !strings.HasPrefix(line, framePrefix) {
			// Blank keep-alives, comments and unknown fields.
			continue
		}
		payload := strings.TrimPrefix(line, framePrefix)
		if payload == doneSentinel {
			s.done = true
			return "", io.EOF
		}
		return payload, nil
	}

	if err := s.scanner.Err(); err != nil {
		// Reads fail with a wrapped transport error when the context is
		// cancelled; report the cancellation itself so callers can tell
		// an abort from a genuine failure.
		if ctxErr := s.ctx.Err(); ctxErr != nil {
			s.err = ctxErr
		} else {
			s.err = fmt.Errorf("coachapi: %w", err)
		}
		return "", s.err
	}

	// Scanner exhausted without error: the server ended the stream without
	// a sentinel. Treated as a clean end.
	s.done = true
	return "", io.EOF
}

// Close releases the underlying response body. Safe to call more than once.
func (s *frameStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}
