package message

import (
	"fmt"

	"github.com/freeeve/daide-client/daide/token"
	"github.com/freeeve/daide-client/internal/errs"
)

// ErrUnbalanced is returned by Fold when BRA/KET pairs in the message do
// not nest correctly. It is the shared internal/errs decode sentinel,
// re-exported under this package's own name.
var ErrUnbalanced = errs.ErrUnbalancedParens

// List is a folded parenthesised span: its elements are themselves
// token.Token, string (a fused run of TEXT tokens), int (a decoded
// INTEGER token), or a nested List.
type List []any

// Fold converts the flat token sequence into a nested tree: each matched
// BRA…KET pair becomes a List, consecutive TEXT tokens fuse into one
// string, and INTEGER tokens become plain ints. Named non-text tokens are
// kept as token.Token. Processing is left-to-right, repeatedly collapsing
// the innermost parenthesised span, which a single stack-based pass
// achieves directly: the current top of the stack IS that innermost span
// under construction.
func (m Message) Fold() (List, error) {
	stack := []List{{}}

	appendItem := func(v any) {
		top := len(stack) - 1
		if s, ok := v.(string); ok && len(stack[top]) > 0 {
			if prev, ok := stack[top][len(stack[top])-1].(string); ok {
				stack[top][len(stack[top])-1] = prev + s
				return
			}
		}
		stack[top] = append(stack[top], v)
	}

	for _, t := range m {
		switch {
		case t.Code() == token.BRA.Code():
			stack = append(stack, List{})
		case t.Code() == token.KET.Code():
			if len(stack) < 2 {
				return nil, fmt.Errorf("%w: unmatched KET", ErrUnbalanced)
			}
			top := len(stack) - 1
			child := stack[top]
			stack = stack[:top]
			appendItem(child)
		case t.Category() == token.CatText:
			c, _ := t.TextChar()
			appendItem(string(rune(c)))
		case t.Category() == token.CatInteger:
			v, _ := t.IntValue()
			appendItem(v)
		default:
			appendItem(t)
		}
	}

	if len(stack) != 1 {
		return nil, fmt.Errorf("%w: unmatched BRA", ErrUnbalanced)
	}
	return stack[0], nil
}
