package mock

import (
	"io"

	"github.com/pwalczak/stride"
)

// Interface compliance check.
var _ stride.FrameStream = (*FrameStream)(nil)

// FrameStream is a test double for stride.FrameStream.
// Set the function fields for the methods you need. NextFn panics when nil
// to catch missing setup. CloseFn is nil-safe (no-op) because test code
// commonly calls defer stream.Close() without needing custom behavior.
type FrameStream struct {
	NextFn  func() (string, error)
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *FrameStream) Next() (string, error) {
	return s.NextFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *FrameStream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Frames returns a FrameStream that yields the given frames in order and
// then io.EOF, mirroring a clean stream end.
func Frames(frames ...string) *FrameStream {
	i := 0
	return &FrameStream{
		NextFn: func() (string, error) {
			if i >= len(frames) {
				return "", io.EOF
			}
			f := frames[i]
			i++
			return f, nil
		},
	}
}
