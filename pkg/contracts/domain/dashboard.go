package domain

// TabID identifies a dashboard tab
type TabID string

const (
	TabOverview  TabID = "overview"
	TabESG       TabID = "esg"
	TabResources TabID = "resources"
	TabIndustry  TabID = "industry"
)

// Tabs lists the dashboard tabs in display order
var Tabs = []TabID{TabOverview, TabESG, TabResources, TabIndustry}

// DropdownKind names the entity a tab's dropdown selects
type DropdownKind string

const (
	DropdownCompanies  DropdownKind = "companies"
	DropdownIndustries DropdownKind = "industries"
)

// EventType identifies a UI interaction
type EventType string

const (
	EventTabSelected     EventType = "tab_selected"
	EventDropdownChanged EventType = "dropdown_changed"
)

// EventTypes lists every event the dashboard handles
var EventTypes = []EventType{EventTabSelected, EventDropdownChanged}

// Valid reports whether t is a known tab
func (t TabID) Valid() bool {
	for _, id := range Tabs {
		if id == t {
			return true
		}
	}
	return false
}

// Valid reports whether e is a known event type
func (e EventType) Valid() bool {
	for _, et := range EventTypes {
		if et == e {
			return true
		}
	}
	return false
}
