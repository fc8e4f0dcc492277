package explain

import (
	"fmt"

	"github.com/pipe01/regins/internal/parser/ast"
)

// describeQuantifier picks the most specific description for q: lazy
// shorthands, then any other lazy form, then greedy shorthands, then
// bounded forms.
func describeQuantifier(q ast.Quantifier) string {
	isMax := func(n int) bool {
		return q.Max != nil && *q.Max == n
	}

	switch {
	case q.Lazy && q.Min == 0 && q.Unbounded():
		return "*?  Zero or more times (as few times as possible)"
	case q.Lazy && q.Min == 1 && q.Unbounded():
		return "+?  One or more times (as few times as possible)"
	case q.Lazy && q.Min == 0 && isMax(1):
		return "??  Zero or one time (as few times as possible)"
	case q.Lazy:
		return fmt.Sprintf("{%s}?  Lazy quantifier", bounds(q))

	case q.Min == 0 && q.Unbounded():
		return "*  Zero or more times"
	case q.Min == 1 && q.Unbounded():
		return "+  One or more times"
	case q.Min == 0 && isMax(1):
		return "?  Zero or one time (optional)"

	case isMax(q.Min):
		return fmt.Sprintf("{%d}  Exactly %d time(s)", q.Min, q.Min)
	case q.Unbounded():
		return fmt.Sprintf("{%d,}  At least %d time(s)", q.Min, q.Min)
	}

	return fmt.Sprintf("{%d,%d}  Between %d and %d times", q.Min, *q.Max, q.Min, *q.Max)
}

func bounds(q ast.Quantifier) string {
	switch {
	case q.Unbounded():
		return fmt.Sprintf("%d,", q.Min)
	case *q.Max == q.Min:
		return fmt.Sprint(q.Min)
	}

	return fmt.Sprintf("%d,%d", q.Min, *q.Max)
}
