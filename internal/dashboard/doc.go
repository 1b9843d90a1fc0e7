// Package dashboard maps UI events to chart panels.
//
// Each tab is a TabView that knows its dropdown and how to project the
// dataset filtered by one selected value into two chart figures. The
// Dispatcher routes an Event to the handler registered for its type; the
// table is always passed in explicitly and never mutated.
//
//	d := dashboard.NewDispatcher(logger, metrics)
//	resp, err := d.Dispatch(ctx, table, dashboard.Event{
//		Type: domain.EventDropdownChanged,
//		Tab:  domain.TabESG,
//		Value: "AlphaCorp",
//	})
package dashboard
