package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ecotrack/internal/charts"
	"ecotrack/internal/dataset"
	apierrors "ecotrack/internal/errors"
	"ecotrack/internal/infrastructure"
	"ecotrack/pkg/contracts/domain"
)

// Event is one UI interaction
type Event struct {
	Type  domain.EventType `json:"type"`
	Tab   domain.TabID     `json:"tab"`
	Value string           `json:"value,omitempty"`
}

// Panel is the dropdown state and charts shown under a tab
type Panel struct {
	Tab      domain.TabID        `json:"tab"`
	Label    string              `json:"label"`
	Dropdown domain.DropdownKind `json:"dropdown"`
	Options  []string            `json:"options"`
	Value    string              `json:"value"`
	Charts   [2]charts.Figure    `json:"charts"`
}

// ChartSet is the pair of charts for one selected value
type ChartSet struct {
	Tab    domain.TabID     `json:"tab"`
	Value  string           `json:"value"`
	Charts [2]charts.Figure `json:"charts"`
}

// Response carries the result of a dispatched event. Exactly one of Panel
// and Charts is set.
type Response struct {
	Event  domain.EventType `json:"event"`
	Panel  *Panel           `json:"panel,omitempty"`
	Charts *ChartSet        `json:"charts,omitempty"`
}

// EventHandler handles one event type for the resolved tab view
type EventHandler func(ctx context.Context, t *dataset.Table, view TabView, ev Event) (*Response, error)

// TabInfo describes a tab without its charts
type TabInfo struct {
	ID       domain.TabID        `json:"id"`
	Label    string              `json:"label"`
	Dropdown domain.DropdownKind `json:"dropdown"`
}

// Dispatcher routes events to handlers by type and to views by tab
type Dispatcher struct {
	handlers map[domain.EventType]EventHandler
	views    map[domain.TabID]TabView
	order    []domain.TabID
	logger   *slog.Logger
	metrics  *infrastructure.PipelineMetrics
	tracer   trace.Tracer
}

// NewDispatcher creates a dispatcher with the default tabs and event
// handlers. metrics may be nil.
func NewDispatcher(logger *slog.Logger, metrics *infrastructure.PipelineMetrics) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}

	d := &Dispatcher{
		handlers: make(map[domain.EventType]EventHandler),
		views:    make(map[domain.TabID]TabView),
		logger:   infrastructure.WithComponent(logger, "dashboard"),
		metrics:  metrics,
		tracer:   otel.Tracer("ecotrack.dashboard"),
	}
	for _, view := range DefaultViews() {
		d.RegisterView(view)
	}
	d.Handle(domain.EventTabSelected, HandleTabSelected)
	d.Handle(domain.EventDropdownChanged, HandleDropdownChanged)
	return d
}

// Handle registers h for events of type et, replacing any previous handler
func (d *Dispatcher) Handle(et domain.EventType, h EventHandler) {
	d.handlers[et] = h
}

// RegisterView adds or replaces the view for its tab id
func (d *Dispatcher) RegisterView(view TabView) {
	if _, exists := d.views[view.ID()]; !exists {
		d.order = append(d.order, view.ID())
	}
	d.views[view.ID()] = view
}

// Tabs lists the registered tabs in registration order
func (d *Dispatcher) Tabs() []TabInfo {
	out := make([]TabInfo, 0, len(d.order))
	for _, id := range d.order {
		v := d.views[id]
		out = append(out, TabInfo{ID: id, Label: v.Label(), Dropdown: v.Dropdown()})
	}
	return out
}

// View returns the view for a tab id
func (d *Dispatcher) View(tab domain.TabID) (TabView, error) {
	view, ok := d.views[tab]
	if !ok {
		return nil, apierrors.NewAppValidationError(fmt.Sprintf("unknown tab %q", tab)).
			WithContext("tab", string(tab))
	}
	return view, nil
}

// Dispatch resolves the event's handler and view and runs the handler
func (d *Dispatcher) Dispatch(ctx context.Context, t *dataset.Table, ev Event) (*Response, error) {
	ctx, span := d.tracer.Start(ctx, "dashboard.dispatch",
		trace.WithAttributes(
			attribute.String("event.type", string(ev.Type)),
			attribute.String("tab", string(ev.Tab)),
		),
	)
	defer span.End()

	start := time.Now()
	resp, err := d.dispatch(ctx, t, ev)
	elapsed := time.Since(start)
	infrastructure.RecordDashboardEvent(ctx, d.metrics, string(ev.Type), string(ev.Tab), elapsed, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.logger.WarnContext(ctx, "dashboard event rejected",
			slog.String("event", string(ev.Type)),
			slog.String("tab", string(ev.Tab)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	d.logger.DebugContext(ctx, "dashboard event dispatched",
		slog.String("event", string(ev.Type)),
		slog.String("tab", string(ev.Tab)),
		slog.String("value", ev.Value),
		slog.Duration("duration", elapsed),
	)
	return resp, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, t *dataset.Table, ev Event) (*Response, error) {
	if t == nil {
		return nil, apierrors.NewAppValidationError("no dataset loaded")
	}
	handler, ok := d.handlers[ev.Type]
	if !ok {
		return nil, apierrors.NewAppValidationError(fmt.Sprintf("unknown event type %q", ev.Type)).
			WithContext("event", string(ev.Type))
	}
	view, err := d.View(ev.Tab)
	if err != nil {
		return nil, err
	}
	return handler(ctx, t, view, ev)
}

// BuildPanel returns the panel of a view with its first option selected.
// An empty dataset gives no options and charts for the empty value.
func BuildPanel(t *dataset.Table, view TabView) (*Panel, error) {
	opts, err := Options(t, view)
	if err != nil {
		return nil, err
	}
	value := ""
	if len(opts) > 0 {
		value = opts[0]
	}
	figs, err := view.Charts(t, value)
	if err != nil {
		return nil, err
	}
	return &Panel{
		Tab:      view.ID(),
		Label:    view.Label(),
		Dropdown: view.Dropdown(),
		Options:  opts,
		Value:    value,
		Charts:   figs,
	}, nil
}

// HandleTabSelected returns the panel for the selected tab
func HandleTabSelected(ctx context.Context, t *dataset.Table, view TabView, ev Event) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	panel, err := BuildPanel(t, view)
	if err != nil {
		return nil, err
	}
	return &Response{Event: ev.Type, Panel: panel}, nil
}

// HandleDropdownChanged recomputes the two charts for the selected value.
// A value absent from the dataset gives empty charts.
func HandleDropdownChanged(ctx context.Context, t *dataset.Table, view TabView, ev Event) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	figs, err := view.Charts(t, ev.Value)
	if err != nil {
		return nil, err
	}
	return &Response{
		Event:  ev.Type,
		Charts: &ChartSet{Tab: view.ID(), Value: ev.Value, Charts: figs},
	}, nil
}
