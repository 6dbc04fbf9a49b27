package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/druide"
	"github.com/aretw0/druide/pkg/domain"
)

// Eval evaluates one expression given as command arguments and prints its
// value. A single argument is split into tokens; several arguments are taken
// as tokens already.
func Eval(ctx context.Context, eng *druide.Engine, args []string, w io.Writer) error {
	var (
		o   domain.Outcome
		err error
	)
	if len(args) == 1 {
		o, err = eng.EvaluateLine(ctx, args[0])
	} else {
		o, err = eng.EvaluateTokens(ctx, args)
	}
	if err != nil {
		return err
	}
	if !o.OK() {
		return o.Failure
	}
	_, err = fmt.Fprintln(w, o.Value.String())
	return err
}
