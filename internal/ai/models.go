package ai

// Suggestion captures the structured output from the model.
type Suggestion struct {
	// ServiceType is one of the catalog service identifiers, e.g. "TOWING".
	ServiceType string `json:"service_type"`

	// Confidence in [0,1] as reported by the model. Informational only; the
	// customer always confirms the choice before a request is created.
	Confidence float64 `json:"confidence"`

	// Reply is a short user-facing explanation of the suggestion.
	Reply string `json:"reply"`
}
