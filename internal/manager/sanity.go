package manager

import "strings"

// SanityReport describes configuration checks for external dependencies.
type SanityReport struct {
	ClassifierConfigured bool     `json:"classifier_configured"`
	ExtractorConfigured  bool     `json:"extractor_configured"`
	DialogueConfigured   bool     `json:"dialogue_configured"`
	MissingBackends      []string `json:"missing_backends,omitempty"`
	Error                string   `json:"error,omitempty"`
}

// SanityCheck validates that all collaborators are wired and every backend has
// an endpoint. It does not mutate state and is safe to call at any time.
func (m *Manager) SanityCheck() SanityReport {
	r := SanityReport{
		ClassifierConfigured: m.classifier != nil,
		ExtractorConfigured:  m.extractor != nil,
		DialogueConfigured:   m.dialogue != nil,
	}
	for _, b := range m.backends {
		if strings.TrimSpace(b.URL) == "" {
			r.MissingBackends = append(r.MissingBackends, b.Name)
		}
	}
	var problems []string
	if !r.ClassifierConfigured {
		problems = append(problems, "classifier not configured")
	}
	if !r.ExtractorConfigured {
		problems = append(problems, "entity extractor not configured")
	}
	if !r.DialogueConfigured {
		problems = append(problems, "dialogue manager not configured")
	}
	if len(r.MissingBackends) > 0 {
		problems = append(problems, "no endpoint for: "+strings.Join(r.MissingBackends, ","))
	}
	r.Error = strings.Join(problems, "; ")
	return r
}
