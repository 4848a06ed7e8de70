package halstead

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Evaluation outcomes passed to a Recorder.
const (
	OutcomeOK           = "ok"
	OutcomeInvalidInput = "invalid_input"
	OutcomeCancelled    = "cancelled"
	OutcomeError        = "error"
)

// Recorder receives the outcome of every tree evaluation.
type Recorder interface {
	RecordEvaluation(ctx context.Context, scopes int, outcome string)
}

// treeWalk holds the shadow results of one EvaluateTree call.
type treeWalk struct {
	ev      *Evaluator
	seen    map[*Scope]bool
	results map[*Scope]Values
	order   []*Scope
}

// EvaluateTree evaluates root and all of its descendants in post-order.
// Every interior scope first receives the sum of its children's base metrics,
// overwriting whatever base values it carried, and then has its derived metrics
// computed from those sums. Nothing in the tree is modified unless every scope
// evaluates successfully. ctx is checked before each child is visited.
func (e *Evaluator) EvaluateTree(ctx context.Context, root *Scope) error {
	if root == nil {
		return ErrNilScope
	}

	ctx, span := e.tracer.Start(ctx, "halstead.evaluate_tree",
		trace.WithAttributes(attribute.String("halstead.root", root.ID)),
	)
	defer span.End()

	walk := &treeWalk{
		ev:      e,
		seen:    make(map[*Scope]bool),
		results: make(map[*Scope]Values),
	}

	err := walk.visit(ctx, root)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.record(ctx, len(walk.order), outcomeOf(err))
		e.logger.DebugContext(ctx, "tree evaluation aborted", "root", root.ID, "error", err)

		return err
	}

	for _, scope := range walk.order {
		commit(scope, walk.results[scope])
	}

	span.SetAttributes(attribute.Int("halstead.scopes", len(walk.order)))
	e.record(ctx, len(walk.order), OutcomeOK)

	return nil
}

func (w *treeWalk) visit(ctx context.Context, node *Scope) error {
	if w.seen[node] {
		return fmt.Errorf("%w: %q", ErrSharedScope, node.ID)
	}

	w.seen[node] = true

	for _, child := range node.Children {
		if child == nil {
			continue
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w before scope %q: %w", ErrCancelled, child.ID, ctxErr)
		}

		err := w.visit(ctx, child)
		if err != nil {
			return err
		}
	}

	input := node.Values
	if !node.IsLeaf() {
		input = w.sumChildren(node)
	}

	values, err := w.ev.compute(node.ID, input)
	if err != nil {
		return err
	}

	w.results[node] = values
	w.order = append(w.order, node)

	w.ev.logger.DebugContext(ctx, "scope evaluated",
		"scope", node.ID,
		"children", len(node.Children),
		"volume", values[Volume],
		"effort", values[Effort],
	)

	return nil
}

// sumChildren aggregates every summable metric of the already evaluated children.
func (w *treeWalk) sumChildren(node *Scope) Values {
	sums := make(Values, len(w.ev.schema.base))

	for _, id := range w.ev.schema.order {
		if w.ev.schema.defs[id].Aggregation != AggregationSumOfChildren {
			continue
		}

		total := 0.0

		for _, child := range node.Children {
			if child == nil {
				continue
			}

			total += w.results[child][id]
		}

		sums[id] = total
	}

	return sums
}

func (e *Evaluator) record(ctx context.Context, scopes int, outcome string) {
	if e.recorder == nil {
		return
	}

	e.recorder.RecordEvaluation(ctx, scopes, outcome)
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return OutcomeInvalidInput
	case errors.Is(err, ErrCancelled):
		return OutcomeCancelled
	default:
		return OutcomeError
	}
}
