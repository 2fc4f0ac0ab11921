package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/dukex/operion-analyzer/pkg/analyzer"
	"github.com/dukex/operion-analyzer/pkg/cache"
	"github.com/dukex/operion-analyzer/pkg/compat"
	"github.com/dukex/operion-analyzer/pkg/eventbus"
	"github.com/dukex/operion-analyzer/pkg/events"
	"github.com/dukex/operion-analyzer/pkg/graph"
	"github.com/dukex/operion-analyzer/pkg/models"
	"github.com/dukex/operion-analyzer/pkg/otelhelper"
	"github.com/dukex/operion-analyzer/pkg/pathvalidator"
	"github.com/dukex/operion-analyzer/pkg/registry"
	"github.com/dukex/operion-analyzer/pkg/report"
	"github.com/dukex/operion-analyzer/pkg/rules"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultMaxPaths = 1000
	DefaultCacheTTL = 10 * time.Minute
)

// Analysis runs the full analysis pipeline over workflow documents.
// It is safe for concurrent use once the registry is populated.
type Analysis struct {
	registry     *registry.Registry
	cache        cache.Cache
	publisher    eventbus.EventPublisher
	tracer       trace.Tracer
	logger       *slog.Logger
	rules        []rules.Rule
	maxPaths     int
	cacheTTL     time.Duration
	depthWarning int
}

type Option func(*Analysis)

func WithCache(c cache.Cache) Option {
	return func(a *Analysis) { a.cache = c }
}

func WithPublisher(p eventbus.EventPublisher) Option {
	return func(a *Analysis) { a.publisher = p }
}

func WithTracer(t trace.Tracer) Option {
	return func(a *Analysis) { a.tracer = t }
}

func WithLogger(l *slog.Logger) Option {
	return func(a *Analysis) { a.logger = l }
}

// WithRules replaces the rule set; no arguments disables rules.
func WithRules(r ...rules.Rule) Option {
	return func(a *Analysis) { a.rules = r }
}

// WithMaxPaths caps path enumeration; 0 means unlimited.
func WithMaxPaths(n int) Option {
	return func(a *Analysis) { a.maxPaths = n }
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(a *Analysis) { a.cacheTTL = ttl }
}

func WithDepthWarning(depth int) Option {
	return func(a *Analysis) { a.depthWarning = depth }
}

// NewAnalysis creates the analysis service.
func NewAnalysis(reg *registry.Registry, opts ...Option) *Analysis {
	a := &Analysis{
		registry:     reg,
		tracer:       otelhelper.NoopTracer(),
		logger:       slog.Default(),
		rules:        rules.Defaults(),
		maxPaths:     DefaultMaxPaths,
		cacheTTL:     DefaultCacheTTL,
		depthWarning: report.DefaultDepthWarning,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.registry == nil {
		a.registry = registry.NewRegistry(a.logger)
	}

	a.logger = a.logger.With("module", "analysis")

	return a
}

// with returns a copy of the service with per-call options applied.
func (a *Analysis) with(opts ...Option) *Analysis {
	if len(opts) == 0 {
		return a
	}

	clone := *a
	for _, opt := range opts {
		opt(&clone)
	}

	return &clone
}

// HealthCheck reports on the node data spec registry.
func (a *Analysis) HealthCheck(_ context.Context) (string, bool) {
	return a.registry.HealthCheck()
}

// Registry returns the node data spec registry the service analyzes against.
func (a *Analysis) Registry() *registry.Registry {
	return a.registry
}

// AnalyzeJSON decodes a workflow document and analyzes it. Documents that are
// not workflows are reported as validation errors.
func (a *Analysis) AnalyzeJSON(ctx context.Context, data []byte, opts ...Option) (*models.AnalysisReport, error) {
	workflow, err := models.ParseWorkflow(data)
	if err != nil {
		svc := a.with(opts...)
		svc.logger.DebugContext(ctx, "Rejected workflow document", "error", err)
		svc.publishFailure(ctx, err)

		return nil, parseError("AnalyzeJSON", err)
	}

	return a.Analyze(ctx, workflow, opts...)
}

// Analyze analyzes a decoded workflow. Workflow defects are reported as
// findings; only a nil workflow or an unhashable document returns an error.
func (a *Analysis) Analyze(ctx context.Context, workflow *models.Workflow, opts ...Option) (*models.AnalysisReport, error) {
	if workflow == nil {
		return nil, NewValidationError("Analyze", CodeWorkflowNil, "", ErrWorkflowNil)
	}

	svc := a.with(opts...)
	if svc.maxPaths < 0 {
		return nil, NewValidationError("Analyze", CodeInvalidOptions, "", ErrInvalidMaxPaths)
	}

	start := time.Now()

	ctx, span := otelhelper.StartSpan(ctx, svc.tracer, "analysis.analyze",
		attribute.String(otelhelper.WorkflowIDKey, workflow.ID),
		attribute.String(otelhelper.WorkflowNameKey, workflow.Name),
		attribute.Int(otelhelper.NodeCountKey, len(workflow.Nodes)),
	)
	defer span.End()

	key, err := svc.fingerprint(workflow)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, &AnalysisError{Op: "Analyze", Code: CodeFingerprint, Err: err}
	}

	span.SetAttributes(attribute.String(otelhelper.FingerprintKey, key))

	if cached, ok := svc.lookup(ctx, key); ok {
		span.SetAttributes(attribute.Bool(otelhelper.CacheHitKey, true))
		svc.publishCompleted(ctx, workflow, key, cached, true, time.Since(start))

		return cached, nil
	}

	analysisReport := svc.run(ctx, workflow)

	span.SetAttributes(
		attribute.Bool(otelhelper.CacheHitKey, false),
		attribute.Bool(otelhelper.ValidKey, analysisReport.Valid),
		attribute.Int(otelhelper.FindingsKey, len(analysisReport.Findings)),
		attribute.Int(otelhelper.PathCountKey, len(analysisReport.ConnectionPaths)),
	)

	svc.store(ctx, key, analysisReport)
	svc.publishCompleted(ctx, workflow, key, analysisReport, false, time.Since(start))

	return analysisReport, nil
}

func (a *Analysis) run(ctx context.Context, workflow *models.Workflow) *models.AnalysisReport {
	g := graph.New(workflow)
	result := analyzer.New(g, analyzer.Options{MaxPaths: a.maxPaths}).Result()

	checker := compat.NewChecker(a.registry)
	edgeFindings, edgeResults := checker.CheckGraph(g)
	paths := pathvalidator.New(g, checker).WithEdgeResults(edgeResults).Validate(result.Paths())

	ruleFindings := rules.Run(a.logger, a.rules, rules.Input{
		Workflow: workflow,
		Graph:    g,
		Specs:    a.registry,
		Analysis: result,
	})

	analysisReport := report.Aggregate(report.Input{
		Graph:        g,
		Analysis:     result,
		EdgeFindings: edgeFindings,
		Paths:        paths,
		RuleFindings: ruleFindings,
		Options:      report.Options{DepthWarning: a.depthWarning},
	})

	a.logger.DebugContext(ctx, "Workflow analyzed",
		"workflow_id", workflow.ID,
		"nodes", g.Len(),
		"edges", len(g.Edges()),
		"paths", len(analysisReport.ConnectionPaths),
		"findings", len(analysisReport.Findings),
		"valid", analysisReport.Valid,
	)

	return analysisReport
}

// fingerprint keys a workflow together with everything else that shapes its
// report. Connections are flattened so output indexes take part in the key.
func (a *Analysis) fingerprint(workflow *models.Workflow) (string, error) {
	ruleNames := make([]string, 0, len(a.rules))
	for _, rule := range a.rules {
		ruleNames = append(ruleNames, rule.Name())
	}

	return cache.Fingerprint(struct {
		Nodes        []*models.Node      `json:"nodes"`
		Connections  []models.Connection `json:"connections"`
		Specs        string              `json:"specs"`
		Rules        []string            `json:"rules"`
		MaxPaths     int                 `json:"max_paths"`
		DepthWarning int                 `json:"depth_warning"`
	}{
		Nodes:        workflow.Nodes,
		Connections:  workflow.Connections.Flatten(nil, nil),
		Specs:        a.registry.Fingerprint(),
		Rules:        ruleNames,
		MaxPaths:     a.maxPaths,
		DepthWarning: a.depthWarning,
	})
}

func (a *Analysis) lookup(ctx context.Context, key string) (*models.AnalysisReport, bool) {
	if a.cache == nil {
		return nil, false
	}

	data, ok, err := a.cache.Get(ctx, key)
	if err != nil {
		a.logger.WarnContext(ctx, "Failed to read cached analysis", "fingerprint", key, "error", err)

		return nil, false
	}

	if !ok {
		return nil, false
	}

	var cached models.AnalysisReport
	if err := json.Unmarshal(data, &cached); err != nil {
		a.logger.WarnContext(ctx, "Discarding undecodable cached analysis", "fingerprint", key, "error", err)

		return nil, false
	}

	a.logger.DebugContext(ctx, "Analysis served from cache", "fingerprint", key)

	return &cached, true
}

func (a *Analysis) store(ctx context.Context, key string, analysisReport *models.AnalysisReport) {
	if a.cache == nil {
		return
	}

	data, err := json.Marshal(analysisReport)
	if err != nil {
		a.logger.WarnContext(ctx, "Failed to encode analysis for cache", "fingerprint", key, "error", err)

		return
	}

	if err := a.cache.Set(ctx, key, data, a.cacheTTL); err != nil {
		a.logger.WarnContext(ctx, "Failed to cache analysis", "fingerprint", key, "error", err)
	}
}

func (a *Analysis) publishCompleted(
	ctx context.Context,
	workflow *models.Workflow,
	key string,
	analysisReport *models.AnalysisReport,
	cached bool,
	duration time.Duration,
) {
	if a.publisher == nil {
		return
	}

	event := events.NewAnalysisCompleted(workflow.ID, key, len(workflow.Nodes), analysisReport)
	event.Cached = cached
	event.Duration = duration

	if err := a.publisher.Publish(ctx, key, event); err != nil {
		a.logger.WarnContext(ctx, "Failed to publish analysis event", "fingerprint", key, "error", err)
	}
}

func (a *Analysis) publishFailure(ctx context.Context, cause error) {
	if a.publisher == nil {
		return
	}

	event := events.AnalysisFailed{
		BaseEvent: events.NewBaseEvent(events.AnalysisFailedEvent, ""),
		Error:     cause.Error(),
	}

	if err := a.publisher.Publish(ctx, event.ID, event); err != nil {
		a.logger.WarnContext(ctx, "Failed to publish analysis event", "error", err)
	}
}
