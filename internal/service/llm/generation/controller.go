package generation

import (
	"context"
	"errors"
	"html"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/domain/models/generation"
	"quill/internal/domain/services"
	domainllm "quill/internal/domain/services/llm"
	"quill/internal/service/docsystem/converter"
	"quill/internal/service/docsystem/converter/sanitizer"
	"quill/internal/service/llm/tools"
)

// Options tunes the optional hardening around backend calls
type Options struct {
	RPS     float64       // Requests per second across all tools, 0 = unlimited
	Burst   int           // Limiter burst, defaults to 1
	Timeout time.Duration // Per request, 0 = none
}

// Controller implements domainllm.GenerationController
type Controller struct {
	builder   *tools.PayloadBuilder
	backend   domainllm.Backend
	gate      services.UsageGate
	sanitizer *sanitizer.HTMLSanitizer
	stripper  *sanitizer.HTMLSanitizer // Strict policy for text outputs
	limiter   *rate.Limiter            // nil = unlimited
	timeout   time.Duration
	logger    *slog.Logger

	mu        sync.Mutex
	instances map[string]*instance
}

// instance is the request state of one tool instance
type instance struct {
	mu    sync.Mutex // guards state transitions against slot changes
	slot  RequestSlot
	state domainllm.State
}

// NewController creates a generation controller
func NewController(
	builder *tools.PayloadBuilder,
	backend domainllm.Backend,
	gate services.UsageGate,
	htmlSanitizer *sanitizer.HTMLSanitizer,
	opts Options,
	logger *slog.Logger,
) *Controller {
	c := &Controller{
		builder:   builder,
		backend:   backend,
		gate:      gate,
		sanitizer: htmlSanitizer,
		stripper:  sanitizer.NewStrictHTMLSanitizer(),
		timeout:   opts.Timeout,
		logger:    logger,
		instances: make(map[string]*instance),
	}
	if opts.RPS > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RPS), burst)
	}
	return c
}

var _ domainllm.GenerationController = (*Controller)(nil)

func (c *Controller) instance(toolID string) *instance {
	c.mu.Lock()
	defer c.mu.Unlock()

	inst, ok := c.instances[toolID]
	if !ok {
		inst = &instance{state: domainllm.State{ToolID: toolID, Status: domainllm.StatusIdle}}
		c.instances[toolID] = inst
	}
	return inst
}

// begin cancels whatever the tool instance had in flight and registers a
// new request. The returned release func must be called when it ends.
func (c *Controller) begin(ctx context.Context, toolID string) (*instance, context.Context, string, context.CancelFunc) {
	inst := c.instance(toolID)

	reqCtx, cancel := context.WithCancel(ctx)
	release := cancel
	if c.timeout > 0 {
		var cancelTimeout context.CancelFunc
		reqCtx, cancelTimeout = context.WithTimeout(reqCtx, c.timeout)
		release = func() {
			cancelTimeout()
			cancel()
		}
	}

	inst.mu.Lock()
	token := inst.slot.Replace(release)
	inst.state.Status = domainllm.StatusRequesting
	inst.state.Outcome = domainllm.OutcomeNone
	inst.state.RequestID = token
	inst.mu.Unlock()

	return inst, reqCtx, token, release
}

// transition moves a still-current request to status
func (inst *instance) transition(token string, status domainllm.Status) bool {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	if !inst.slot.IsCurrent(token) {
		return false
	}
	inst.state.Status = status
	return true
}

// finish records the outcome of a still-current request
func (inst *instance) finish(token string, err error) {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	if !inst.slot.IsCurrent(token) || inst.state.Status == domainllm.StatusIdle {
		return
	}
	inst.state.Status = domainllm.StatusIdle
	inst.state.Outcome = domainllm.OutcomeOf(err)
}

func (inst *instance) isCurrent(token string) bool {
	return inst.slot.IsCurrent(token)
}

// prepare runs the local checks that must pass before a request is sent
func (c *Controller) prepare(ctx context.Context, toolID string, inputs *generation.Inputs, voiceHint string) (*generation.Tool, *generation.Payload, error) {
	if err := c.checkGate(ctx, models.ActionGenerate); err != nil {
		return nil, nil, err
	}

	tool, payload, err := c.builder.Build(ctx, toolID, inputs, voiceHint)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, &domain.GenerationError{Kind: domain.KindValidation, Message: err.Error(), Err: err}
		}
		return nil, nil, err
	}

	if tool.Premium {
		if err := c.checkGate(ctx, models.ActionPremiumTemplate); err != nil {
			return nil, nil, err
		}
	}
	return tool, payload, nil
}

func (c *Controller) checkGate(ctx context.Context, action models.GatedAction) error {
	if c.gate == nil {
		return nil
	}
	decision := c.gate.Check(ctx, action)
	if decision.Allowed {
		return nil
	}
	return domain.NewGenerationError(domain.KindQuota, errors.New(decision.Reason))
}

func (c *Controller) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return c.normalize(ctx, err)
	}
	return nil
}

// normalize maps err onto the taxonomy, treating anything that happened
// after our own context ended as a cancellation or timeout.
func (c *Controller) normalize(ctx context.Context, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		return domain.NewGenerationError(domain.KindCancelled, err)
	case context.DeadlineExceeded:
		return domain.NewGenerationError(domain.KindNetwork, err)
	}

	var genErr *domain.GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}
	return domain.NewGenerationError(domain.Classify(err), err)
}

func (c *Controller) postProcess(tool *generation.Tool, content string) string {
	content = converter.StripCodeFences(content)
	switch tool.Output {
	case generation.OutputHTML:
		if c.sanitizer != nil {
			content = c.sanitizer.Sanitize(content)
		}
	case generation.OutputText:
		// Models sometimes wrap text answers in markup
		content = html.UnescapeString(c.stripper.Sanitize(content))
	}
	return content
}

func (c *Controller) logOutcome(toolID, token string, err error, started time.Time) {
	elapsed := time.Since(started)
	switch {
	case err == nil:
		c.logger.Info("generation completed", "tool_id", toolID, "request_id", token, "elapsed", elapsed)
	case domain.IsCancelled(err):
		c.logger.Debug("generation cancelled", "tool_id", toolID, "request_id", token)
	default:
		c.logger.Warn("generation failed",
			"tool_id", toolID,
			"request_id", token,
			"kind", domain.Classify(err),
			"error", err,
		)
	}
}

// Generate runs an atomic request
func (c *Controller) Generate(ctx context.Context, toolID string, inputs *generation.Inputs, voiceHint string) (*generation.Result, error) {
	inst, reqCtx, token, release := c.begin(ctx, toolID)
	defer release()

	started := time.Now()
	c.logger.Info("generation started", "tool_id", toolID, "request_id", token, "streaming", false)

	result, err := c.generate(reqCtx, inst, token, toolID, inputs, voiceHint)
	inst.finish(token, err)
	c.logOutcome(toolID, token, err, started)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Controller) generate(ctx context.Context, inst *instance, token, toolID string, inputs *generation.Inputs, voiceHint string) (*generation.Result, error) {
	tool, payload, err := c.prepare(ctx, toolID, inputs, voiceHint)
	if err != nil {
		return nil, err
	}
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	content, err := c.backend.Complete(ctx, payload)
	if err != nil {
		return nil, c.normalize(ctx, err)
	}
	if !inst.isCurrent(token) {
		// Superseded while the backend ignored cancellation
		return nil, domain.NewGenerationError(domain.KindCancelled, context.Canceled)
	}

	c.recordUsage()
	return &generation.Result{
		RequestID: token,
		ToolID:    toolID,
		Content:   c.postProcess(tool, content),
		Model:     payload.Model,
	}, nil
}

// GenerateStreaming runs a streaming request. Callers must drain the
// content channel or cancel ctx; the error channel is closed after it.
func (c *Controller) GenerateStreaming(ctx context.Context, toolID string, inputs *generation.Inputs, voiceHint string) (<-chan string, <-chan error) {
	out := make(chan string)
	errc := make(chan error, 1)

	inst, reqCtx, token, release := c.begin(ctx, toolID)
	c.logger.Info("generation started", "tool_id", toolID, "request_id", token, "streaming", true)

	go func() {
		defer close(errc)
		defer close(out)
		defer release()

		started := time.Now()
		err := c.stream(reqCtx, inst, token, toolID, inputs, voiceHint, func(content string) bool {
			select {
			case out <- content:
				return true
			case <-reqCtx.Done():
				return false
			}
		})
		inst.finish(token, err)
		c.logOutcome(toolID, token, err, started)

		if err != nil && !domain.IsCancelled(err) {
			errc <- err
		}
	}()

	return out, errc
}

// GenerateStreamingFunc is GenerateStreaming with a callback. It blocks
// until the request ends and returns nil on success or cancellation.
func (c *Controller) GenerateStreamingFunc(ctx context.Context, toolID string, inputs *generation.Inputs, onChunk func(content string), voiceHint string) error {
	out, errc := c.GenerateStreaming(ctx, toolID, inputs, voiceHint)
	for content := range out {
		onChunk(content)
	}
	return <-errc
}

func (c *Controller) stream(ctx context.Context, inst *instance, token, toolID string, inputs *generation.Inputs, voiceHint string, emit func(string) bool) error {
	tool, payload, err := c.prepare(ctx, toolID, inputs, voiceHint)
	if err != nil {
		return err
	}
	if err := c.wait(ctx); err != nil {
		return err
	}

	events, err := c.backend.Stream(ctx, payload)
	if err != nil {
		return c.normalize(ctx, err)
	}
	if !inst.transition(token, domainllm.StatusStreaming) {
		return domain.NewGenerationError(domain.KindCancelled, context.Canceled)
	}

	var raw strings.Builder
	var last string
	for {
		select {
		case <-ctx.Done():
			return c.normalize(ctx, ctx.Err())

		case ev, ok := <-events:
			switch {
			case !ok:
				if ctx.Err() != nil {
					return c.normalize(ctx, ctx.Err())
				}
				return domain.NewGenerationError(domain.KindNetwork, io.ErrUnexpectedEOF)
			case ev.Err != nil:
				return c.normalize(ctx, ev.Err)
			case ev.Done:
				c.recordUsage()
				return nil
			}

			raw.WriteString(ev.Delta)
			if !inst.isCurrent(token) {
				return domain.NewGenerationError(domain.KindCancelled, context.Canceled)
			}

			cleaned := c.postProcess(tool, raw.String())
			if cleaned == last {
				continue
			}
			last = cleaned
			if !emit(cleaned) {
				return c.normalize(ctx, context.Canceled)
			}
		}
	}
}

func (c *Controller) recordUsage() {
	if c.gate != nil {
		c.gate.RecordUsage(models.ActionGenerate)
	}
}

// Cancel aborts any in-flight request for toolID. Idempotent.
func (c *Controller) Cancel(toolID string) {
	c.mu.Lock()
	inst, ok := c.instances[toolID]
	c.mu.Unlock()
	if !ok {
		return
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()

	inst.slot.Cancel()
	if inst.state.Status != domainllm.StatusIdle {
		inst.state.Status = domainllm.StatusIdle
		inst.state.Outcome = domainllm.OutcomeCancelled
		c.logger.Debug("generation cancelled by caller", "tool_id", toolID, "request_id", inst.state.RequestID)
	}
}

// CancelAll aborts every in-flight request
func (c *Controller) CancelAll() {
	c.mu.Lock()
	toolIDs := make([]string, 0, len(c.instances))
	for toolID := range c.instances {
		toolIDs = append(toolIDs, toolID)
	}
	c.mu.Unlock()

	for _, toolID := range toolIDs {
		c.Cancel(toolID)
	}
}

// State reports the state machine position for toolID
func (c *Controller) State(toolID string) domainllm.State {
	c.mu.Lock()
	inst, ok := c.instances[toolID]
	c.mu.Unlock()
	if !ok {
		return domainllm.State{ToolID: toolID, Status: domainllm.StatusIdle}
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.state
}
