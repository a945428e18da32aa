// Package mock provides test doubles for stride interfaces using function fields.
package mock

import (
	"context"

	"github.com/pwalczak/stride"
)

// Interface compliance check.
var _ stride.Streamer = (*Streamer)(nil)

// Streamer is a test double for stride.Streamer.
// Set StreamFn before calling Stream.
type Streamer struct {
	StreamFn func(ctx context.Context, endpoint string, req stride.Request) (stride.FrameStream, error)
}

// Stream delegates to StreamFn.
func (s *Streamer) Stream(ctx context.Context, endpoint string, req stride.Request) (stride.FrameStream, error) {
	return s.StreamFn(ctx, endpoint, req)
}
