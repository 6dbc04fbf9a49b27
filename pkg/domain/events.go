package domain

import "context"

// Hooks defines callbacks for run observability.
// OnOutcome is invoked once per expression, in input order.
type Hooks struct {
	OnExpression func(context.Context, Expression)
	OnOutcome    func(context.Context, Outcome)
}

// Merge combines hooks; each callback set on any of them is invoked in order.
func Merge(hooks ...Hooks) Hooks {
	var merged Hooks
	var onExpr []func(context.Context, Expression)
	var onOut []func(context.Context, Outcome)
	for _, h := range hooks {
		if h.OnExpression != nil {
			onExpr = append(onExpr, h.OnExpression)
		}
		if h.OnOutcome != nil {
			onOut = append(onOut, h.OnOutcome)
		}
	}
	if len(onExpr) > 0 {
		merged.OnExpression = func(ctx context.Context, e Expression) {
			for _, fn := range onExpr {
				fn(ctx, e)
			}
		}
	}
	if len(onOut) > 0 {
		merged.OnOutcome = func(ctx context.Context, o Outcome) {
			for _, fn := range onOut {
				fn(ctx, o)
			}
		}
	}
	return merged
}
