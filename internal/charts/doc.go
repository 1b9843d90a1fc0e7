// Package charts builds plotly.js figure documents from dataset tables.
//
// A Figure marshals to {"data": [...], "layout": {...}} and is rendered
// unchanged by Plotly.newPlot on the dashboard page. NaN values marshal as
// null, which plotly treats as a gap.
package charts
