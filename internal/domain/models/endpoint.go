package models

import "time"

// Endpoint is a configured notification sink (webhook). The id is the only
// uniqueness invariant; names and URLs may repeat.
type Endpoint struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	URL           string    `json:"url"`
	Enabled       bool      `json:"enabled"`
	Types         []Action  `json:"types"`
	MinConfidence int       `json:"minConfidence"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Accepts reports whether the endpoint is eligible for the given signal:
// enabled, action accepted, and confidence at or above the threshold.
func (e Endpoint) Accepts(s Signal) bool {
	if !e.Enabled {
		return false
	}
	if s.Confidence < e.MinConfidence {
		return false
	}
	for _, t := range e.Types {
		if t == s.Action {
			return true
		}
	}
	return false
}

// EndpointPatch carries partial updates for an endpoint. Nil fields are
// left unchanged, so an empty patch is a no-op.
type EndpointPatch struct {
	Name          *string  `json:"name,omitempty"`
	URL           *string  `json:"url,omitempty"`
	Enabled       *bool    `json:"enabled,omitempty"`
	Types         []Action `json:"types,omitempty"`
	MinConfidence *int     `json:"minConfidence,omitempty"`
}

// DispatchOutcome records one delivery attempt for one endpoint. Transient;
// returned to the caller for logging and admin UI, never persisted.
type DispatchOutcome struct {
	EndpointName string `json:"endpoint"`
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
}
