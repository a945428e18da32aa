package stride

import "fmt"

// Request carries the user's check-in note and optional biometrics for an
// adaptation exchange. The service uses its own defaults when fields are
// zero/nil.
type Request struct {
	Note    string   `json:"note"`              // free-text check-in; required
	PlanID  string   `json:"plan_id,omitempty"` // plan to adapt; empty = current plan
	Metrics *Metrics `json:"metrics,omitempty"`
	Goals   []string `json:"goals,omitempty"`
}

// Metrics holds optional biometric readings attached to a request.
type Metrics struct {
	RestingHeartRate int     `json:"resting_heart_rate,omitempty"` // beats per minute
	HRV              float64 `json:"hrv,omitempty"`                // milliseconds
	SleepHours       float64 `json:"sleep_hours,omitempty"`
}

// Validate checks universal constraints on Request.
// The transport may apply additional endpoint-specific validation.
func (r Request) Validate() error {
	if r.Note == "" {
		return fmt.Errorf("note must not be empty: %w", ErrValidation)
	}
	if m := r.Metrics; m != nil {
		if m.RestingHeartRate < 0 {
			return fmt.Errorf("resting_heart_rate must be non-negative, got %d: %w", m.RestingHeartRate, ErrValidation)
		}
		if m.HRV < 0 {
			return fmt.Errorf("hrv must be non-negative, got %g: %w", m.HRV, ErrValidation)
		}
		if m.SleepHours < 0 || m.SleepHours > 24 {
			return fmt.Errorf("sleep_hours must be in [0, 24], got %g: %w", m.SleepHours, ErrValidation)
		}
	}
	return nil
}
