package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// User facing texts.
const (
	ButtonIdleLabel = "Update Now"
	ButtonBusyLabel = "Updating..."

	MessageLoadFailed    = "Failed to load opportunities data. Please try again later."
	MessageUpdateSuccess = "Data updated successfully"
	MessageUpdateFailed  = "Failed to update data: "
	MessageUnknownError  = "Unknown error"

	StatusTextInitializing = "Initializing..."
	StatusTextPleaseWait   = "Please wait"
	StatusTextNever        = "Never"
	StatusTextUnknown      = "Unknown"
	StatusTextError        = "Error"
)

// ManualUpdateButtonID is the DOM id of the manual update control.
const ManualUpdateButtonID = "manual-update-btn"

const (
	defaultTemplateName   = "dashboard"
	defaultTopCurrencies  = 5
	defaultTrendDays      = 7
	minTrendCurrencyCount = 2
)

var (
	// ErrUpdateInProgress is returned when a manual update is requested while one is running.
	ErrUpdateInProgress = errors.New("dashboard: manual update already in progress")
	// ErrUpdateRejected is returned when the backend answers a manual update with a non success status.
	ErrUpdateRejected = errors.New("dashboard: backend rejected update")
	// ErrUnknownGrid is returned for grid ids that are not on the page.
	ErrUnknownGrid = errors.New("dashboard: unknown grid")

	errMissingClient   = errors.New("dashboard: market client is required")
	errMissingRenderer = errors.New("dashboard: template renderer not configured")
	errStarted         = errors.New("dashboard: controller already started")
	errStopped         = errors.New("dashboard: controller stopped")
)

// ControllerOptions wires the controller dependencies. Zero values fall back to defaults.
type ControllerOptions struct {
	Client        MarketClient
	Scheduler     Scheduler
	Telemetry     Telemetry
	Logger        *zap.Logger
	Hook          RefreshHook
	Renderer      Renderer
	Template      string
	Charts        *ChartRenderer
	Intervals     Intervals
	ChaosIcon     string
	TopCurrencies int
	TrendDays     int
	Clock         func() time.Time
	Location      *time.Location
}

// ButtonState is the manual update control.
type ButtonState struct {
	Disabled bool   `json:"disabled"`
	Label    string `json:"label"`
}

// StatusView holds the status text fields.
type StatusView struct {
	Status         string `json:"status,omitempty"`
	LastUpdate     string `json:"last_update"`
	NextUpdate     string `json:"next_update"`
	UpdateInterval int    `json:"update_interval,omitempty"`
}

// View is a consistent copy of everything the page shows.
type View struct {
	Grids         []GridState  `json:"grids"`
	Charts        []ChartState `json:"charts"`
	Status        StatusView   `json:"status"`
	DataTimestamp string       `json:"data_timestamp,omitempty"`
	DataAge       string       `json:"data_age,omitempty"`
	Alert         *Alert       `json:"alert,omitempty"`
	Loading       bool         `json:"loading"`
	Button        ButtonState  `json:"button"`
	GeneratedAt   time.Time    `json:"generated_at"`
}

// Controller polls the backend and owns the dashboard state.
type Controller struct {
	client    MarketClient
	sched     Scheduler
	telemetry Telemetry
	logger    *zap.Logger
	hook      RefreshHook
	renderer  Renderer
	template  string
	charts    *ChartRenderer
	intervals Intervals
	rows      rowBuilder
	topN      int
	trendDays int
	now       func() time.Time
	loc       *time.Location

	grids     map[string]*Grid
	gridOrder []string
	chartSet  map[string]*ChartWidget
	alerts    AlertBox

	mu        sync.Mutex
	snapshot  *OpportunitySnapshot
	dataTime  time.Time
	status    StatusView
	loading   bool
	button    ButtonState
	started   bool
	stopped   bool
	baseCtx   context.Context
	cancel    context.CancelFunc
	timers    map[int]Timer
	nextTimer int
	wg        sync.WaitGroup
}

// NewController builds the grids and charts empty and the button idle.
func NewController(opts ControllerOptions) (*Controller, error) {
	if opts.Client == nil {
		return nil, errMissingClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = RealScheduler{}
	}
	charts := opts.Charts
	if charts == nil {
		charts = NewChartRenderer()
	}
	tmpl := opts.Template
	if tmpl == "" {
		tmpl = defaultTemplateName
	}
	topN := opts.TopCurrencies
	if topN <= 0 {
		topN = defaultTopCurrencies
	}
	trendDays := opts.TrendDays
	if trendDays <= 0 {
		trendDays = defaultTrendDays
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		client:    opts.Client,
		sched:     sched,
		telemetry: normalizeTelemetry(opts.Telemetry),
		logger:    logger.Named("dashboard"),
		hook:      opts.Hook,
		renderer:  opts.Renderer,
		template:  tmpl,
		charts:    charts,
		intervals: opts.Intervals.withDefaults(),
		rows:      rowBuilder{chaosIcon: opts.ChaosIcon},
		topN:      topN,
		trendDays: trendDays,
		now:       clock,
		loc:       loc,
		grids:     make(map[string]*Grid),
		chartSet:  make(map[string]*ChartWidget),
		button:    ButtonState{Label: ButtonIdleLabel},
		baseCtx:   ctx,
		cancel:    cancel,
		timers:    make(map[int]Timer),
	}
	for _, def := range DefaultGridDefinitions() {
		c.grids[def.ID] = NewGrid(def)
		c.gridOrder = append(c.gridOrder, def.ID)
	}
	for _, def := range DefaultChartDefinitions() {
		c.chartSet[def.ID] = NewChartWidget(def)
	}
	return c, nil
}

// Start launches the opportunities ticker and the status cycle, then fetches
// both sources once right away.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.stopped:
		c.mu.Unlock()
		return errStopped
	case c.started:
		c.mu.Unlock()
		return errStarted
	}
	c.started = true
	prev := c.cancel
	base, cancel := context.WithCancel(ctx)
	c.baseCtx = base
	c.cancel = func() {
		cancel()
		prev()
	}
	c.timers[c.nextTimer] = c.sched.Every(c.intervals.Opportunities, func() {
		c.spawn(c.pollOpportunitiesInBackground)
	})
	c.nextTimer++
	c.mu.Unlock()

	c.logger.Info("dashboard controller started",
		zap.Duration("status_interval", c.intervals.Status),
		zap.Duration("opportunities_interval", c.intervals.Opportunities),
	)
	c.spawn(c.pollOpportunitiesInBackground)
	c.spawn(c.statusCycle)
	return nil
}

// Stop cancels timers and waits for in-flight polls to finish.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	for id, timer := range c.timers {
		timer.Stop()
		delete(c.timers, id)
	}
	cancel := c.cancel
	c.mu.Unlock()

	cancel()
	c.wg.Wait()
	c.logger.Info("dashboard controller stopped")
}

// PollOpportunities fetches the snapshot and repopulates grids and charts.
// A failure leaves the grids untouched, shows an error banner and schedules
// one retry.
func (c *Controller) PollOpportunities(ctx context.Context) error {
	requestID := uuid.NewString()
	log := c.logger.With(zap.String("request_id", requestID))

	c.setLoading(ctx, true)
	snapshot, err := c.client.FetchOpportunities(ctx)
	if err != nil {
		log.Warn("opportunities poll failed", zap.Error(err))
		c.telemetry.Record(ctx, "dashboard.opportunities.failed", map[string]any{
			"request_id": requestID,
			"error":      err.Error(),
		})
		c.showAlert(ctx, AlertDanger, MessageLoadFailed)
		c.after(c.intervals.LoadingHide, func(ctx context.Context) {
			c.setLoading(ctx, false)
		})
		c.after(c.intervals.Retry, c.pollOpportunitiesInBackground)
		return fmt.Errorf("dashboard: fetch opportunities: %w", err)
	}

	c.applySnapshot(snapshot)
	log.Debug("opportunities applied",
		zap.Int("flipping", len(snapshot.Flipping)),
		zap.Int("farming", len(snapshot.Farming)),
		zap.Int("crafting", len(snapshot.Crafting)),
		zap.Int("investment", len(snapshot.Investment)),
	)
	c.telemetry.Record(ctx, "dashboard.opportunities.polled", map[string]any{
		"request_id": requestID,
		"rows":       len(snapshot.Flipping) + len(snapshot.Farming) + len(snapshot.Crafting) + len(snapshot.Investment),
	})
	c.notify(ctx, ReasonOpportunities, "")
	c.refreshCharts(ctx, log)
	return nil
}

func (c *Controller) pollOpportunitiesInBackground(ctx context.Context) {
	_ = c.PollOpportunities(ctx)
}

func (c *Controller) applySnapshot(snapshot OpportunitySnapshot) {
	flipping := make([]Row, 0, len(snapshot.Flipping))
	for _, o := range snapshot.Flipping {
		flipping = append(flipping, c.rows.flipping(o))
	}
	farming := make([]Row, 0, len(snapshot.Farming))
	for _, o := range snapshot.Farming {
		farming = append(farming, c.rows.farming(o))
	}
	crafting := make([]Row, 0, len(snapshot.Crafting))
	for _, o := range snapshot.Crafting {
		crafting = append(crafting, c.rows.crafting(o))
	}
	investment := make([]Row, 0, len(snapshot.Investment))
	for _, o := range snapshot.Investment {
		investment = append(investment, c.rows.investment(o))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = &snapshot
	for id, rows := range map[string][]Row{
		GridFlipping:   flipping,
		GridFarming:    farming,
		GridCrafting:   crafting,
		GridInvestment: investment,
	} {
		grid := c.grids[id]
		grid.Clear()
		grid.Add(rows...)
		grid.Draw()
	}
	if !snapshot.Timestamp.IsZero() {
		c.dataTime = snapshot.Timestamp
	}
	c.loading = false
}

func (c *Controller) refreshCharts(ctx context.Context, log *zap.Logger) {
	currency, err := c.client.FetchCurrencyData(ctx)
	if err != nil {
		log.Warn("currency data fetch failed", zap.Error(err))
		return
	}
	if currency.Status != ResponseSuccess || len(currency.Currencies) == 0 {
		log.Warn("currency data unavailable", zap.String("message", currency.Message))
		return
	}
	chart := c.chartSet[ChartCurrency]
	labels, series := CurrencySeries(chart.Definition().SeriesLabel, currency.Currencies, c.topN)
	chart.Update(labels, series)
	c.charts.Forget(ChartCurrency)
	c.notify(ctx, ReasonCharts, ChartCurrency)

	if len(currency.Currencies) < minTrendCurrencyCount {
		return
	}
	history, err := c.client.FetchHistoricalData(ctx)
	if err != nil {
		log.Warn("historical data fetch failed", zap.Error(err))
		return
	}
	if history.Status != ResponseSuccess || history.Series == nil {
		log.Debug("historical data unavailable", zap.String("message", history.Message))
		return
	}
	c.chartSet[ChartTrend].Update(c.trendLabels(), history.Series)
	c.charts.Forget(ChartTrend)
	c.notify(ctx, ReasonCharts, ChartTrend)
}

func (c *Controller) trendLabels() []string {
	now := c.now()
	labels := make([]string, 0, c.trendDays)
	for i := c.trendDays - 1; i >= 0; i-- {
		labels = append(labels, FormatDate(now.AddDate(0, 0, -i), c.loc))
	}
	return labels
}

// PollStatus fetches the backend status and updates the status text fields.
// On failure the fields switch to error placeholders.
func (c *Controller) PollStatus(ctx context.Context) (StatusInfo, error) {
	info, err := c.client.FetchStatus(ctx)
	view := c.statusView(info, err)

	c.mu.Lock()
	c.status = view
	c.mu.Unlock()
	c.notify(ctx, ReasonStatus, "")

	if err != nil {
		c.logger.Warn("status poll failed", zap.Error(err))
		return StatusInfo{}, fmt.Errorf("dashboard: fetch status: %w", err)
	}
	c.telemetry.Record(ctx, "dashboard.status.polled", map[string]any{"status": info.Status})
	return info, nil
}

func (c *Controller) statusView(info StatusInfo, err error) StatusView {
	switch {
	case err != nil:
		return StatusView{LastUpdate: StatusTextError, NextUpdate: StatusTextUnknown}
	case info.Initializing():
		return StatusView{Status: info.Status, LastUpdate: StatusTextInitializing, NextUpdate: StatusTextPleaseWait}
	}
	view := StatusView{
		Status:         info.Status,
		LastUpdate:     StatusTextNever,
		NextUpdate:     StatusTextUnknown,
		UpdateInterval: info.UpdateInterval,
	}
	if info.LastUpdate != nil {
		view.LastUpdate = FormatDateTime(*info.LastUpdate, c.loc)
	}
	if info.NextUpdate != nil {
		view.NextUpdate = FormatTimeRemaining(*info.NextUpdate)
	}
	return view
}

// statusCycle polls once and schedules the next poll, using the short
// interval while the backend is initializing.
func (c *Controller) statusCycle(ctx context.Context) {
	info, err := c.PollStatus(ctx)
	delay := c.intervals.Status
	if err == nil && info.Initializing() {
		delay = c.intervals.Initializing
	}
	c.after(delay, c.statusCycle)
}

// TriggerManualUpdate asks the backend to refresh and then re-polls both
// sources. The button is disabled for the duration of the backend call.
func (c *Controller) TriggerManualUpdate(ctx context.Context) error {
	c.mu.Lock()
	if c.button.Disabled {
		c.mu.Unlock()
		return ErrUpdateInProgress
	}
	c.button = ButtonState{Disabled: true, Label: ButtonBusyLabel}
	c.mu.Unlock()
	c.notify(ctx, ReasonManualUpdate, ManualUpdateButtonID)

	defer func() {
		c.mu.Lock()
		c.button = ButtonState{Label: ButtonIdleLabel}
		c.mu.Unlock()
		c.notify(ctx, ReasonManualUpdate, ManualUpdateButtonID)
	}()

	result, err := c.client.TriggerUpdate(ctx)
	if err != nil {
		c.logger.Warn("manual update failed", zap.Error(err))
		c.showAlert(ctx, AlertDanger, MessageUpdateFailed+err.Error())
		return fmt.Errorf("dashboard: manual update: %w", err)
	}
	if !result.Succeeded() {
		message := result.Message
		if message == "" {
			message = MessageUnknownError
		}
		c.logger.Warn("manual update rejected", zap.String("message", message))
		c.showAlert(ctx, AlertDanger, MessageUpdateFailed+message)
		return fmt.Errorf("%w: %s", ErrUpdateRejected, message)
	}

	c.telemetry.Record(ctx, "dashboard.manual_update", map[string]any{"status": result.Status})
	c.showAlert(ctx, AlertSuccess, MessageUpdateSuccess)
	c.spawn(c.pollOpportunitiesInBackground)
	c.spawn(func(ctx context.Context) {
		_, _ = c.PollStatus(ctx)
	})
	return nil
}

// DismissAlert removes the banner if it is still the current one.
func (c *Controller) DismissAlert(ctx context.Context, id string) bool {
	if !c.alerts.Dismiss(id) {
		return false
	}
	c.notify(ctx, ReasonAlert, "")
	return true
}

// View returns a copy of the page state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	view := View{
		Grids:       make([]GridState, 0, len(c.gridOrder)),
		Charts:      make([]ChartState, 0, len(defaultChartDefinitions)),
		Status:      c.status,
		Alert:       c.alerts.Current(),
		Loading:     c.loading,
		Button:      c.button,
		GeneratedAt: now,
	}
	for _, id := range c.gridOrder {
		view.Grids = append(view.Grids, c.grids[id].State())
	}
	for _, def := range defaultChartDefinitions {
		view.Charts = append(view.Charts, c.chartSet[def.ID].State())
	}
	if !c.dataTime.IsZero() {
		view.DataTimestamp = FormatDateTime(c.dataTime, c.loc)
		view.DataAge = FormatDataAge(c.dataTime, now)
	}
	return view
}

// Snapshot returns the last successfully received snapshot.
func (c *Controller) Snapshot() (OpportunitySnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil {
		return OpportunitySnapshot{}, false
	}
	return *c.snapshot, true
}

// GridPage returns a filtered page of a grid.
func (c *Controller) GridPage(id, filter string, page int) (GridPage, error) {
	grid, ok := c.grids[id]
	if !ok {
		return GridPage{}, fmt.Errorf("%w: %s", ErrUnknownGrid, id)
	}
	return grid.Page(filter, page), nil
}

// RenderTemplate renders the dashboard page into out.
func (c *Controller) RenderTemplate(ctx context.Context, out io.Writer) error {
	if c.renderer == nil {
		return errMissingRenderer
	}
	view := c.View()
	payload := c.pagePayload(view)
	if _, err := c.renderer.Render(c.template, payload, out); err != nil {
		return fmt.Errorf("dashboard: render template: %w", err)
	}
	c.telemetry.Record(ctx, "dashboard.page.rendered", map[string]any{"loading": view.Loading})
	return nil
}

func (c *Controller) pagePayload(view View) map[string]any {
	grids := make([]map[string]any, 0, len(view.Grids))
	for _, grid := range view.Grids {
		page := grid.Page("", 1)
		rows := make([][]string, 0, len(page.Rows))
		for _, row := range page.Rows {
			cells := make([]string, len(row))
			for i, cell := range row {
				cells[i] = cell.HTML()
			}
			rows = append(rows, cells)
		}
		grids = append(grids, map[string]any{
			"id":      grid.Definition.ID,
			"title":   grid.Definition.Title,
			"columns": grid.Definition.Columns,
			"rows":    rows,
			"info":    page.Info,
			"empty":   page.Empty,
		})
	}

	charts := make([]map[string]any, 0, len(view.Charts))
	for _, chart := range view.Charts {
		html := ""
		if !chart.Empty() {
			rendered, err := c.charts.Render(chart)
			if err != nil {
				c.logger.Warn("chart render failed", zap.String("chart", chart.Definition.ID), zap.Error(err))
			} else {
				html = rendered
			}
		}
		charts = append(charts, map[string]any{
			"id":    chart.Definition.ID,
			"title": chart.Definition.Title,
			"html":  html,
		})
	}

	payload := map[string]any{
		"grids":          grids,
		"charts":         charts,
		"last_update":    view.Status.LastUpdate,
		"next_update":    view.Status.NextUpdate,
		"data_timestamp": view.DataTimestamp,
		"data_age":       view.DataAge,
		"loading":        view.Loading,
		"button_label":   view.Button.Label,
		"button_busy":    view.Button.Disabled,
		"button_id":      ManualUpdateButtonID,
	}
	if view.Alert != nil {
		payload["alert"] = map[string]any{
			"id":      view.Alert.ID,
			"kind":    view.Alert.Kind,
			"message": view.Alert.Message,
		}
	}
	return payload
}

func (c *Controller) setLoading(ctx context.Context, loading bool) {
	c.mu.Lock()
	changed := c.loading != loading
	c.loading = loading
	c.mu.Unlock()
	if changed {
		c.notify(ctx, ReasonLoading, "")
	}
}

func (c *Controller) showAlert(ctx context.Context, kind, message string) {
	alert := c.alerts.Show(kind, message, c.now())
	c.notify(ctx, ReasonAlert, "")
	c.after(c.intervals.AlertTTL, func(ctx context.Context) {
		c.DismissAlert(ctx, alert.ID)
	})
}

func (c *Controller) notify(ctx context.Context, reason, widget string) {
	if c.hook == nil {
		return
	}
	event := ViewEvent{Reason: reason, Widget: widget, Timestamp: c.now()}
	if err := c.hook.ViewUpdated(ctx, event); err != nil {
		c.logger.Debug("refresh hook failed", zap.String("reason", reason), zap.Error(err))
	}
}

// after schedules fn on its own goroutine once d has elapsed.
func (c *Controller) after(d time.Duration, fn func(context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	id := c.nextTimer
	c.nextTimer++
	c.timers[id] = c.sched.AfterFunc(d, func() {
		c.mu.Lock()
		delete(c.timers, id)
		c.mu.Unlock()
		c.spawn(fn)
	})
}

// spawn runs fn with the controller context unless the controller is stopped.
func (c *Controller) spawn(fn func(context.Context)) bool {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return false
	}
	c.wg.Add(1)
	ctx := c.baseCtx
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		fn(ctx)
	}()
	return true
}
