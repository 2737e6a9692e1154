package tonic

import (
	"fmt"
	"time"
)

// EvalContext carries the inputs visible to a computed-override expression.
type EvalContext struct {
	// Now is the evaluation timestamp, defaulted on first use.
	Now *time.Time
	// Slot is the "namespace.param" being realized, used for error context.
	Slot string
	// Params holds the literal overrides visible to the slot's namespace,
	// exact entries shadowing wildcard ones.
	Params map[string]any
}

func (ctx EvalContext) withDefaultNow() EvalContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx EvalContext) withDefaultParams() EvalContext {
	if ctx.Params == nil {
		ctx.Params = map[string]any{}
	}
	return ctx
}

func (ctx EvalContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx EvalContext) slotLabel() string {
	if ctx.Slot == "" {
		return "unknown"
	}
	return ctx.Slot
}

// Evaluator executes computed-override expressions.
type Evaluator interface {
	Evaluate(ctx EvalContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx EvalContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// evaluateLocked realizes one computed entry. The caller holds the lock and
// handles memoization and logging.
func (c *Config) evaluateLocked(slot Key, expression string) (any, error) {
	if expression == "" {
		return nil, wrapEvaluationError("", expression, slot.String(), fmt.Errorf("expression must not be empty"))
	}
	evaluator := c.resolveEvaluator()
	ctx := EvalContext{
		Slot:   slot.String(),
		Params: c.paramsForLocked(slot.Namespace),
	}.withDefaultNow()
	value, err := evaluator.Evaluate(ctx, expression)
	if err != nil {
		return nil, wrapEvaluationError(evaluatorEngineName(evaluator), expression, ctx.slotLabel(), err)
	}
	return value, nil
}

// resolveEvaluator returns the configured evaluator, lazily constructing the
// default expr backend with the configured cache and function registry.
func (c *Config) resolveEvaluator() Evaluator {
	if c.cfg.evaluator != nil {
		return c.cfg.evaluator
	}
	var exprOpts []ExprEvaluatorOption
	if cache := c.cfg.programCache; cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cache))
	}
	if registry := c.cfg.functions; registry != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(registry))
	}
	c.cfg.evaluator = NewExprEvaluator(exprOpts...)
	return c.cfg.evaluator
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*tonic.exprEvaluator":
		return "expr"
	case "*tonic.celEvaluator":
		return "cel"
	case "*tonic.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
