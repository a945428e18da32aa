// Package coachapi implements [stride.Streamer] for the Stride coaching API.
//
// It POSTs an adaptation request to a streaming endpoint and re-frames the
// response body into payload frames through the pull-based
// [stride.FrameStream] interface. Interpreting the frames as coaching
// events is the session controller's job; this package only handles
// transport and framing.
package coachapi

const (
	defaultBaseURL = "https://api.stride.fit"
	acceptPath     = "/v1/plans/accept"

	// framePrefix marks lines that carry a payload frame. Everything else
	// on the wire (keep-alives, comments, unknown fields) is skipped.
	framePrefix = "data: "

	// doneSentinel is the distinguished payload that ends the stream.
	doneSentinel = "[DONE]"
)

// errorDetail is the inner error object of an API error response.
type errorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// apiErrorResponse is the JSON body returned on non-200 HTTP responses.
type apiErrorResponse struct {
	Error errorDetail `json:"error"`
}

// acceptRequest is the JSON body for the plan-accept endpoint.
type acceptRequest struct {
	ThreadID int64 `json:"thread_id"`
}
