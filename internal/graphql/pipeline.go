package graphql

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Stages of the per-request state machine. The order is fixed: auth before
// rate limit before validation before execution, so unauthenticated and
// over-limit callers are rejected before any business-rule cost is paid.
type Stage string

const (
	StageReceived      Stage = "RECEIVED"
	StageAuthenticated Stage = "AUTHENTICATED"
	StageRateChecked   Stage = "RATE_CHECKED"
	StageValidated     Stage = "VALIDATED"
	StageExecuted      Stage = "EXECUTED"
	StageResponded     Stage = "RESPONDED"
	StageFailed        Stage = "FAILED"
)

// Operation is one registered query or mutation.
type Operation struct {
	Name string
	// AllowAnonymous puts the operation on the anonymous allow-list
	// (read queries, login, registration). Everything else requires a
	// resolved non-anonymous principal.
	AllowAnonymous bool
	// Privileged additionally requires a staff principal.
	Privileged bool
	// NewArgs returns a pointer to a fresh argument struct carrying
	// validate tags; nil means the operation takes no arguments.
	NewArgs func() any
	// Resolve runs the business logic. args is the value produced by
	// NewArgs after binding and validation, or nil.
	Resolve func(ctx context.Context, principal Principal, args any) (any, error)
}

// Pipeline orders guard, limiter, validator and resolver around every
// operation and translates any failure into the stable taxonomy.
type Pipeline struct {
	guard     *Guard
	limiter   *RateLimiter
	validator *Validator
	ops       map[string]*Operation
	timeout   time.Duration
	logger    *slog.Logger
}

func NewPipeline(guard *Guard, limiter *RateLimiter, validator *Validator, timeout time.Duration, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		guard:     guard,
		limiter:   limiter,
		validator: validator,
		ops:       make(map[string]*Operation),
		timeout:   timeout,
		logger:    logger,
	}
}

// Register adds operations to the dispatch table.
func (p *Pipeline) Register(ops ...*Operation) {
	for _, op := range ops {
		p.ops[op.Name] = op
	}
}

// Execute runs one request through the full stage machine and always
// returns a wire-shaped response; raw errors never escape.
func (p *Pipeline) Execute(ctx context.Context, req *Request, authHeader, origin string) *Response {
	start := time.Now()
	log := p.logger.With("request_id", uuid.NewString())

	opName, err := req.FieldName()
	if err != nil {
		return p.fail(log, "unknown", "anonymous", start, NewValidationError("query", "malformed query"))
	}
	op, ok := p.ops[opName]
	if !ok {
		return p.fail(log, opName, "anonymous", start, NewValidationError("query", "unknown operation"))
	}
	p.stage(log, StageReceived, opName, "anonymous", start)

	principal, err := p.guard.Resolve(ctx, authHeader, origin, op.AllowAnonymous)
	if err != nil {
		return p.fail(log, opName, "anonymous", start, err)
	}
	key := principal.Key
	p.stage(log, StageAuthenticated, opName, key, start)

	allowed, retryAfter := p.limiter.Allow(key)
	if !allowed {
		return p.fail(log, opName, key, start, NewRateLimited(retryAfter))
	}
	p.stage(log, StageRateChecked, opName, key, start)

	var args any
	if op.NewArgs != nil {
		args = op.NewArgs()
		if fes := p.validator.Bind(req.Variables, args); len(fes) > 0 {
			return p.failValidation(log, opName, key, start, fes)
		}
		if fes := p.validator.Validate(args); len(fes) > 0 {
			return p.failValidation(log, opName, key, start, fes)
		}
	}
	p.stage(log, StageValidated, opName, key, start)

	if op.Privileged && !principal.Staff {
		return p.fail(log, opName, key, start, NewPermissionDenied())
	}

	opCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	data, err := op.Resolve(opCtx, principal, args)
	if err != nil {
		// a deadline hit mid-transaction is rolled back by the store
		// layer and classified as a server failure
		if errors.Is(opCtx.Err(), context.DeadlineExceeded) {
			err = NewInternalError(opCtx.Err())
		}
		return p.fail(log, opName, key, start, err)
	}
	p.stage(log, StageExecuted, opName, key, start)

	resp := &Response{Data: map[string]any{opName: data}}
	p.stage(log, StageResponded, opName, key, start)
	return resp
}

func (p *Pipeline) stage(log *slog.Logger, stage Stage, opName, principal string, start time.Time) {
	log.Debug("pipeline stage",
		"stage", string(stage),
		"operation", opName,
		"principal", principal,
		"elapsed", time.Since(start),
	)
}

// fail translates, logs the translated error exactly once (warning for
// client-caused codes, error for server-caused) and shapes the response.
func (p *Pipeline) fail(log *slog.Logger, opName, principal string, start time.Time, err error) *Response {
	app := Translate(err)
	attrs := []any{
		"stage", string(StageFailed),
		"operation", opName,
		"principal", principal,
		"code", string(app.Code),
		"elapsed", time.Since(start),
	}
	if app.Code.ClientCaused() {
		log.Warn(app.Message, attrs...)
	} else {
		attrs = append(attrs, "internal", app.Internal)
		log.Error(app.Message, attrs...)
	}
	return &Response{Errors: []ErrorEntry{entryFromAppError(app)}}
}

// failValidation emits one errors entry per offending field.
func (p *Pipeline) failValidation(log *slog.Logger, opName, principal string, start time.Time, fes []FieldError) *Response {
	entries := make([]ErrorEntry, 0, len(fes))
	for _, fe := range fes {
		entries = append(entries, entryFromAppError(NewValidationError(fe.Field, fe.Message)))
	}
	log.Warn("validation failed",
		"stage", string(StageFailed),
		"operation", opName,
		"principal", principal,
		"code", string(CodeValidation),
		"fields", len(fes),
		"elapsed", time.Since(start),
	)
	return &Response{Errors: entries}
}
