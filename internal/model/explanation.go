package model

// DefaultDisclaimer is substituted when the collaborator omits its own.
const DefaultDisclaimer = "This information is for educational purposes only and is not a medical diagnosis. Please consult your healthcare provider for interpretation."

// Explanation is scoped to exactly one (document, role) pair and is never
// reused across role switches.
type Explanation struct {
	Text              string   `json:"explanation"`
	SafetyWarnings    []string `json:"safety_warnings"`
	ContextualMessage string   `json:"contextual_message,omitempty"`
	Disclaimer        string   `json:"disclaimer"`
	Citations         []string `json:"citations"`
}
