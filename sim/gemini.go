package sim

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/pwalczak/stride"
)

const defaultGeminiModel = "gemini-2.5-flash"

// coachSystemPrompt steers the model toward short replies that render well
// in the terminal client.
const coachSystemPrompt = `You are an endurance training coach reviewing an athlete's check-in.
Reply in concise markdown: one or two sentences on what the check-in implies
about recovery, then concrete adjustments to the next few days of training.
Stay under 150 words.`

// GeminiGenerator produces coaching replies with the Gemini API, so the
// simulator can serve real narrative while the rest of the protocol stays
// simulated.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// Interface compliance check.
var _ Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a generator backed by the Gemini API. An
// empty model selects the default.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("sim: gemini client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiGenerator{client: gc, model: model}, nil
}

// Generate implements [Generator] by streaming a model reply to the
// check-in, emitting each text chunk as a fragment.
func (g *GeminiGenerator) Generate(ctx context.Context, req stride.Request, emit func(string) error) error {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: coachSystemPrompt}},
		},
	}
	contents := []*genai.Content{
		genai.NewContentFromText(buildPrompt(req), genai.RoleUser),
	}

	for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, contents, config) {
		if err != nil {
			return fmt.Errorf("sim: gemini: %w", err)
		}
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if part.Text == "" || part.Thought {
					continue
				}
				if err := emit(part.Text); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// buildPrompt flattens the request into the user turn of the model call.
func buildPrompt(req stride.Request) string {
	var b strings.Builder
	b.WriteString("Check-in note: ")
	b.WriteString(req.Note)
	if m := req.Metrics; m != nil {
		if m.RestingHeartRate > 0 {
			fmt.Fprintf(&b, "\nResting heart rate: %d bpm", m.RestingHeartRate)
		}
		if m.HRV > 0 {
			fmt.Fprintf(&b, "\nHRV: %g ms", m.HRV)
		}
		if m.SleepHours > 0 {
			fmt.Fprintf(&b, "\nSleep last night: %g hours", m.SleepHours)
		}
	}
	if len(req.Goals) > 0 {
		fmt.Fprintf(&b, "\nGoals: %s", strings.Join(req.Goals, ", "))
	}
	return b.String()
}
