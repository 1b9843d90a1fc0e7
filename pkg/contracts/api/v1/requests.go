// Package api contains the v1 request contracts of the EcoTrack HTTP API.
package api

import (
	"ecotrack/pkg/contracts/domain"
)

// DashboardEventRequest is a UI interaction posted to /api/dashboard/events
// or sent as the data of a dashboard:event WebSocket message.
// Value is ignored for tab_selected, which always uses the tab's default option.
type DashboardEventRequest struct {
	Type  domain.EventType `json:"type" validate:"required,oneof=tab_selected dropdown_changed"`
	Tab   domain.TabID     `json:"tab" validate:"required,oneof=overview esg resources industry"`
	Value string           `json:"value,omitempty" validate:"required_if=Type dropdown_changed,max=256"`
}

// ChartsQuery selects the value a tab's charts are built for
type ChartsQuery struct {
	Value string `json:"value" query:"value" validate:"required,max=256"`
}

// ExportRequest selects the format of the summary statistics download
type ExportRequest struct {
	Format string `json:"format" query:"format" validate:"omitempty,oneof=csv json xlsx"`
}
