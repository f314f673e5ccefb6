package cssprinter

import (
	"strings"

	"github.com/6over3/CSSKit-sub002/internal/cssast"
)

// PrintCalc serializes a Calc[T] tree into sb, given a way to print a leaf
// T. It is a free function rather than a printer method because Go does
// not support generic methods: the typed-value facade (C7) instantiates it
// for whatever leaf type its length/angle/etc. values use, and the core
// only ever needs it for Calc[cssast.Token] (PrintTokenCalc below).
func PrintCalc[T any](sb *strings.Builder, c cssast.Calc[T], printLeaf func(*strings.Builder, T)) {
	printCalcTopLevel(sb, c, printLeaf)
}

// PrintTokenCalc is the instantiation the core itself can use directly,
// printing a Calc[cssast.Token] tree (the shape ParseCalcTree/SimplifyCalc
// in cssparser produce) back into a calc(...) expression.
func PrintTokenCalc(sb *strings.Builder, c cssast.Calc[cssast.Token], toks func(*strings.Builder, cssast.Token)) {
	PrintCalc(sb, c, toks)
}

func printCalcTopLevel[T any](sb *strings.Builder, c cssast.Calc[T], leaf func(*strings.Builder, T)) {
	if c.Kind == cssast.CalcNumber || c.Kind == cssast.CalcValue || c.Kind == cssast.CalcFunc {
		printCalcNode(sb, c, leaf)
		return
	}
	sb.WriteString("calc(")
	printCalcNode(sb, c, leaf)
	sb.WriteByte(')')
}

// calcEmit is one entry in the explicit stack printCalcNode drives in place
// of recursing directly over the Calc[T] tree, so a calc() expression with
// a thousand-deep Sum chain (§4.3) serializes in bounded call-stack depth.
// lit is a plain literal to write verbatim; node is a subtree still to
// expand.
type calcEmit[T any] struct {
	lit  string
	node *cssast.Calc[T]
}

func printCalcNode[T any](sb *strings.Builder, c cssast.Calc[T], leaf func(*strings.Builder, T)) {
	stack := []calcEmit[T]{{node: &c}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.lit != "" {
			sb.WriteString(top.lit)
			continue
		}

		node := top.node
		switch node.Kind {
		case cssast.CalcNumber:
			sb.WriteString(formatNumber(node.Number))
		case cssast.CalcValue:
			leaf(sb, node.Value)
		case cssast.CalcSum:
			stack = append(stack, calcEmit[T]{node: node.Right})
			stack = append(stack, calcEmit[T]{lit: " + "})
			stack = append(stack, calcEmit[T]{node: node.Left})
		case cssast.CalcDiff:
			stack = append(stack, calcEmit[T]{node: node.Right})
			stack = append(stack, calcEmit[T]{lit: " - "})
			stack = append(stack, calcEmit[T]{node: node.Left})
		case cssast.CalcProduct:
			stack = append(stack, calcEmit[T]{node: node.Right})
			stack = append(stack, calcEmit[T]{lit: " * "})
			stack = append(stack, calcEmit[T]{node: node.Left})
		case cssast.CalcQuotient:
			stack = append(stack, calcEmit[T]{node: node.Right})
			stack = append(stack, calcEmit[T]{lit: " / "})
			stack = append(stack, calcEmit[T]{node: node.Left})
		case cssast.CalcNegate:
			stack = append(stack, calcEmit[T]{node: node.Left})
			stack = append(stack, calcEmit[T]{lit: "-1 * "})
		case cssast.CalcInvert:
			stack = append(stack, calcEmit[T]{node: node.Left})
			stack = append(stack, calcEmit[T]{lit: "1 / "})
		case cssast.CalcFunc:
			sb.WriteString(node.FuncName.String())
			sb.WriteByte('(')
			if node.FuncName == cssast.FnRound && node.Strategy != cssast.RoundNearest {
				sb.WriteString(node.Strategy.String())
				sb.WriteString(", ")
			}
			stack = append(stack, calcEmit[T]{lit: ")"})
			for i := len(node.Args) - 1; i >= 0; i-- {
				stack = append(stack, calcEmit[T]{node: &node.Args[i]})
				if i > 0 {
					stack = append(stack, calcEmit[T]{lit: ", "})
				}
			}
		case cssast.CalcUnknown:
			leaf(sb, node.Value)
		}
	}
}
