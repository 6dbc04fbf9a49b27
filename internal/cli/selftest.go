package cli

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/aretw0/druide/pkg/domain"
	"github.com/aretw0/druide/pkg/rpn"
)

// ErrSelfTestFailed is returned by SelfTest when any case fails.
var ErrSelfTestFailed = errors.New("self-test failed")

type selfTestCase struct {
	expr    string
	want    float64
	wantErr error
}

var selfTestCases = []selfTestCase{
	{expr: "3 5 +", want: 8},
	{expr: "4 7 + 3 *", want: 33},
	{expr: "3 4 7 + *", want: 33},
	{expr: "10 4 + 2 -", want: 12},
	{expr: "2 10 4 + -", want: -12},
	{expr: "4 0 /", wantErr: rpn.ErrDivisionByZero},
	{expr: "3 +", wantErr: rpn.ErrInsufficientOperands},
	{expr: "", wantErr: rpn.ErrEmptyExpression},
}

// SelfTest evaluates the built-in cases and prints one TEST OK or TEST FAIL
// line per case.
func SelfTest(w io.Writer) error {
	return runSelfTest(w, selfTestCases)
}

func runSelfTest(w io.Writer, cases []selfTestCase) error {
	failures := 0
	for _, tc := range cases {
		v, err := rpn.Evaluate(domain.Tokenize(tc.expr))
		switch {
		case tc.wantErr != nil && err == nil:
			fmt.Fprintf(w, "TEST FAIL: '%s' expected %s, got result %s\n", tc.expr, kindName(tc.wantErr), domain.FormatValue(v))
			failures++
		case tc.wantErr != nil && errors.Is(err, tc.wantErr):
			fmt.Fprintf(w, "TEST OK: '%s' raised %s\n", tc.expr, errKind(err))
		case err != nil:
			fmt.Fprintf(w, "TEST FAIL: '%s' raised %s: %v\n", tc.expr, errKind(err), err)
			failures++
		case math.Abs(v-tc.want) > 1e-9:
			fmt.Fprintf(w, "TEST FAIL: '%s' expected %s, got %s\n", tc.expr, domain.FormatValue(tc.want), domain.FormatValue(v))
			failures++
		default:
			fmt.Fprintf(w, "TEST OK: '%s' => %s\n", tc.expr, domain.FormatValue(v))
		}
	}

	fmt.Fprintln(w)
	if failures > 0 {
		fmt.Fprintf(w, "%d tests failed.\n", failures)
		return fmt.Errorf("%w: %d of %d", ErrSelfTestFailed, failures, len(cases))
	}
	fmt.Fprintln(w, "All tests OK.")
	return nil
}

func kindName(sentinel error) string {
	for _, k := range rpn.Kinds {
		if errors.Is(&rpn.Error{Kind: k}, sentinel) {
			return k.String()
		}
	}
	return sentinel.Error()
}

func errKind(err error) string {
	if k, ok := rpn.KindOf(err); ok {
		return k.String()
	}
	return domain.KindInternal
}
