package models

// Request models for the API layer. Validation tags are enforced by
// pkg/http.ReadAndValidateRequest; defaults are applied via creasty/defaults.

type CreateWebhookRequest struct {
	Name          string   `json:"name" validate:"required,min=1,max=100"`
	URL           string   `json:"url" validate:"required,url"`
	Types         []string `json:"types" default:"[\"buy\",\"sell\",\"hold\"]" validate:"dive,oneof=buy sell hold"`
	MinConfidence int      `json:"minConfidence" default:"70" validate:"gte=0,lte=100"`
}

type UpdateWebhookRequest struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	URL           *string  `json:"url,omitempty" validate:"omitempty,url"`
	Enabled       *bool    `json:"enabled,omitempty"`
	Types         []string `json:"types,omitempty" validate:"omitempty,dive,oneof=buy sell hold"`
	MinConfidence *int     `json:"minConfidence,omitempty" validate:"omitempty,gte=0,lte=100"`
}

type HistoryRequest struct {
	Action string `query:"action" validate:"omitempty,oneof=buy sell hold"`
	Limit  int    `query:"limit" default:"100" validate:"gte=0,lte=1000"`
}

type AdminControlsRequest struct {
	AutoUpdates *bool `json:"autoUpdates,omitempty"`
	Maintenance *bool `json:"maintenance,omitempty"`
	Lockdown    *bool `json:"lockdown,omitempty"`
}
