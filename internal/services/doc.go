// Package services holds the EcoTrack business logic between the HTTP and
// WebSocket handlers and the dataset, dashboard and EDA packages.
//
// Services own the loaded dataset table and pass it explicitly into the
// dashboard dispatcher and the EDA functions; no package keeps the table in
// a global. Handlers depend on the small interfaces defined next to them in
// the transport packages, which these services satisfy.
//
//	table, err := dataset.Load(ctx, paths.CleanedFile)
//	dash := services.NewDashboardService(table, dispatcher, logger)
//	panel, err := dash.Panel(ctx, domain.TabESG)
package services
