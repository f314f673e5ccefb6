package cssparser

import (
	"math"
	"strings"

	"github.com/6over3/CSSKit-sub002/internal/cssast"
	"github.com/6over3/CSSKit-sub002/internal/csslexer"
)

// ParseCalcTree builds a cssast.Calc[cssast.Token] out of a calc()-family
// function's already-converted argument tokens, following the structure
// of the teacher's calcSum/calcProduct recursive-descent reducer in
// css_reduce_calc.go, generalized from "fold into a single token" to
// "produce the full tree" since downstream consumers (the facade, a
// linter) want the structure, not just a minified literal.
func ParseCalcTree(toks cssast.Tokens) (cssast.Calc[cssast.Token], bool) {
	toks = stripOuterWhitespace(toks)
	return parseCalcSum(toks)
}

func stripOuterWhitespace(toks cssast.Tokens) cssast.Tokens {
	out := make(cssast.Tokens, 0, len(toks))
	for _, t := range toks {
		if t.Kind == csslexer.TWhitespace || t.Kind == csslexer.TComment {
			continue
		}
		out = append(out, t)
	}
	return out
}

// calcFrame is one entry in the explicit work-stack parseCalcSum drives in
// place of recursive descent through "calc-sum -> calc-product -> calc-value
// -> ( calc-sum )" (and through min()/max()/clamp()/round()/... argument
// lists): one frame per nested parenthesized group or function argument, so
// calc((((((1)))))) a thousand levels deep advances the token cursor in
// constant Go call-stack depth (§4.3 point 4), the same scheme rules.go's
// parseRuleList and condition.go's parseConditionImpl use for the same
// reason. ConvertTokens has already grouped every nested "(", "[", function
// call into a Token.Children tree and stripped whitespace/comments, so a
// frame's toks is always a flat, already-bounded sibling list.
type calcFrame struct {
	toks cssast.Tokens

	haveProd bool
	prod     cssast.Calc[cssast.Token]
	prodOp   byte // '*' or '/' pending combination with the next value; 0 none

	haveSum bool
	sum     cssast.Calc[cssast.Token]
	sumOp   byte // '+' or '-' pending combination with the next product; 0 none

	negate int // count of unconsumed leading unary "-" before the next value

	// deliver reports this frame's finished <calc-sum> value to whatever
	// caused it to be pushed (a enclosing paren or a function argument
	// slot); nil for the root frame, whose value is parseCalcSum's result.
	deliver func(value cssast.Calc[cssast.Token], ok bool)
}

func wrapNegate(value cssast.Calc[cssast.Token], n int) cssast.Calc[cssast.Token] {
	for i := 0; i < n; i++ {
		value = cssast.Calc[cssast.Token]{Kind: cssast.CalcNegate, Left: cloneCalc(value)}
	}
	return value
}

// advanceAfterValue folds a freshly parsed <calc-value> into top's running
// product, and once a run of "*"/"/" operators is exhausted, folds the
// finished product into top's running sum. It reports whether top's whole
// <calc-sum> is now complete (all of top.toks consumed), still needs another
// value (a "*"/"/"/"+"/"-" was consumed and the loop should keep going), or
// failed (trailing tokens that are neither an operator nor end of input).
func advanceAfterValue(top *calcFrame, value cssast.Calc[cssast.Token]) (done bool, result cssast.Calc[cssast.Token], bad bool) {
	if top.haveProd {
		kind := cssast.CalcProduct
		if top.prodOp == '/' {
			kind = cssast.CalcQuotient
		}
		value = cssast.Calc[cssast.Token]{Kind: kind, Left: cloneCalc(top.prod), Right: cloneCalc(value)}
	}
	top.prod, top.haveProd = value, true

	if len(top.toks) > 0 && top.toks[0].Kind == csslexer.TDelim && (top.toks[0].Text == "*" || top.toks[0].Text == "/") {
		top.prodOp = top.toks[0].Text[0]
		top.toks = top.toks[1:]
		return false, cssast.Calc[cssast.Token]{}, false
	}

	prodResult := top.prod
	top.haveProd, top.prodOp = false, 0
	if top.haveSum {
		kind := cssast.CalcSum
		if top.sumOp == '-' {
			kind = cssast.CalcDiff
		}
		prodResult = cssast.Calc[cssast.Token]{Kind: kind, Left: cloneCalc(top.sum), Right: cloneCalc(prodResult)}
	}
	top.sum, top.haveSum = prodResult, true

	if len(top.toks) > 0 && top.toks[0].Kind == csslexer.TDelim && (top.toks[0].Text == "+" || top.toks[0].Text == "-") {
		top.sumOp = top.toks[0].Text[0]
		top.toks = top.toks[1:]
		return false, cssast.Calc[cssast.Token]{}, false
	}

	if len(top.toks) != 0 {
		return false, cssast.Calc[cssast.Token]{}, true
	}
	return true, top.sum, false
}

func parseCalcSum(toks cssast.Tokens) (cssast.Calc[cssast.Token], bool) {
	root := &calcFrame{toks: toks}
	stack := []*calcFrame{root}
	var result cssast.Calc[cssast.Token]
	resolved, failed := false, false

	finish := func(value cssast.Calc[cssast.Token]) {
		n := len(stack) - 1
		top := stack[n]
		stack = stack[:n]
		if top.deliver != nil {
			top.deliver(value, true)
			return
		}
		result, resolved = value, true
	}
	fail := func() {
		failed = true
		stack = nil
	}

	// finishValueInto folds value into top's product/sum state and either
	// keeps top on the stack (more tokens to parse), finishes it (handing
	// its value to finish, which pops it), or fails the whole parse.
	finishValueInto := func(top *calcFrame, value cssast.Calc[cssast.Token]) {
		done, sumValue, bad := advanceAfterValue(top, value)
		switch {
		case bad:
			fail()
		case done:
			finish(sumValue)
		}
	}

	var pushArg func(segments []cssast.Tokens, idx int, collected []cssast.Calc[cssast.Token], onDone func([]cssast.Calc[cssast.Token], bool))
	pushArg = func(segments []cssast.Tokens, idx int, collected []cssast.Calc[cssast.Token], onDone func([]cssast.Calc[cssast.Token], bool)) {
		if idx >= len(segments) {
			onDone(collected, true)
			return
		}
		stack = append(stack, &calcFrame{
			toks: segments[idx],
			deliver: func(v cssast.Calc[cssast.Token], ok bool) {
				if !ok {
					onDone(nil, false)
					return
				}
				pushArg(segments, idx+1, append(append([]cssast.Calc[cssast.Token]{}, collected...), v), onDone)
			},
		})
	}

	for !resolved && !failed && len(stack) > 0 {
		top := stack[len(stack)-1]

		if len(top.toks) > 0 && top.toks[0].Kind == csslexer.TDelim && top.toks[0].Text == "-" {
			top.negate++
			top.toks = top.toks[1:]
			continue
		}
		if len(top.toks) == 0 {
			fail()
			continue
		}

		t := top.toks[0]

		switch t.Kind {
		case csslexer.TNumber:
			negate := top.negate
			top.negate, top.toks = 0, top.toks[1:]
			finishValueInto(top, wrapNegate(cssast.NumberCalc[cssast.Token](t.NumericValue), negate))

		case csslexer.TPercentage, csslexer.TDimension:
			negate := top.negate
			top.negate, top.toks = 0, top.toks[1:]
			finishValueInto(top, wrapNegate(cssast.ValueCalc(t), negate))

		case csslexer.TIdent:
			// Only round()'s rounding-strategy keywords are accepted as bare
			// words; buildCalcFunc peels them off the argument list.
			switch strings.ToLower(t.Text) {
			case "nearest", "up", "down", "to-zero":
				negate := top.negate
				top.negate, top.toks = 0, top.toks[1:]
				finishValueInto(top, wrapNegate(cssast.ValueCalc(t), negate))
			default:
				fail()
			}

		case csslexer.TOpenParen:
			negate := top.negate
			top.negate, top.toks = 0, top.toks[1:]
			parent := top
			stack = append(stack, &calcFrame{
				toks: t.Children,
				deliver: func(v cssast.Calc[cssast.Token], ok bool) {
					if !ok {
						fail()
						return
					}
					finishValueInto(parent, wrapNegate(v, negate))
				},
			})

		case csslexer.TFunction:
			name := strings.ToLower(t.Text)
			negate := top.negate
			top.negate, top.toks = 0, top.toks[1:]
			parent := top

			if fn, ok := cssast.LookupCalcFunc(name); ok {
				segments := splitCalcArgs(t.Children)
				pushArg(segments, 0, nil, func(args []cssast.Calc[cssast.Token], ok bool) {
					if !ok {
						fail()
						return
					}
					finishValueInto(parent, wrapNegate(buildCalcFunc(fn, args), negate))
				})
				continue
			}
			// Nested calc()/var()/env() etc.: keep the unrecognized function
			// call opaque so serialization can still round-trip it.
			value := cssast.Calc[cssast.Token]{Kind: cssast.CalcUnknown, Value: cssast.Token{Text: t.Text, Children: t.Children}}
			finishValueInto(top, wrapNegate(value, negate))

		default:
			fail()
		}
	}

	if failed || !resolved {
		return cssast.Calc[cssast.Token]{}, false
	}
	return result, true
}

// splitCalcArgs splits a function's argument tokens on top-level commas, one
// segment per eventual <calc-sum> parse. ConvertTokens has already grouped
// nested parens/functions into Children, so a depth counter here only
// guards a shape that should not occur in a well-formed tree.
func splitCalcArgs(toks cssast.Tokens) []cssast.Tokens {
	toks = stripOuterWhitespace(toks)
	if len(toks) == 0 {
		return nil
	}
	var segments []cssast.Tokens
	for {
		commaAt := -1
		depth := 0
		for i, t := range toks {
			switch t.Kind {
			case csslexer.TOpenParen, csslexer.TFunction:
				depth++
			case csslexer.TCloseParen:
				depth--
			case csslexer.TComma:
				if depth == 0 {
					commaAt = i
				}
			}
			if commaAt >= 0 {
				break
			}
		}
		var segment cssast.Tokens
		if commaAt >= 0 {
			segment, toks = toks[:commaAt], toks[commaAt+1:]
		} else {
			segment, toks = toks, nil
		}
		segments = append(segments, segment)
		if commaAt < 0 {
			break
		}
	}
	return segments
}

// buildCalcFunc assembles a min()/max()/clamp()/round()/... node from its
// already-parsed argument sub-trees, peeling round()'s optional leading
// rounding-strategy keyword off the argument list.
func buildCalcFunc(fn cssast.CalcFuncName, args []cssast.Calc[cssast.Token]) cssast.Calc[cssast.Token] {
	strategy := cssast.RoundNearest
	if fn == cssast.FnRound && len(args) >= 1 {
		if name2, isWord := soleWordOf(args[0]); isWord {
			switch name2 {
			case "up":
				strategy, args = cssast.RoundUp, args[1:]
			case "down":
				strategy, args = cssast.RoundDown, args[1:]
			case "to-zero":
				strategy, args = cssast.RoundToZero, args[1:]
			case "nearest":
				args = args[1:]
			}
		}
	}
	return cssast.Calc[cssast.Token]{Kind: cssast.CalcFunc, FuncName: fn, Args: args, Strategy: strategy}
}

func soleWordOf(c cssast.Calc[cssast.Token]) (string, bool) {
	if c.Kind != cssast.CalcValue {
		return "", false
	}
	if c.Value.Kind != csslexer.TIdent {
		return "", false
	}
	return strings.ToLower(c.Value.Text), true
}

func cloneCalc(c cssast.Calc[cssast.Token]) *cssast.Calc[cssast.Token] {
	v := c
	return &v
}

// SimplifyCalc folds constant-number arithmetic and resolves the math
// functions whose arguments are all bare numbers, following §4.3's
// simplification rules. Values with units (lengths, angles, ...) are left
// alone since resolving them requires a computed-value context this package
// does not have.
func SimplifyCalc(c cssast.Calc[cssast.Token]) cssast.Calc[cssast.Token] {
	root := cloneCalc(c)

	// simplifyFrame drives a post-order walk of the Calc tree with an
	// explicit stack instead of recursion, so simplifying a Sum tree a
	// thousand levels deep (§4.3 point 4) runs in constant Go call-stack
	// depth. node's children are simplified in place (through Left/Right/
	// Args, which alias directly into node's own storage) before node
	// itself is visited the second time and folded.
	type simplifyFrame struct {
		node    *cssast.Calc[cssast.Token]
		visited bool
	}
	stack := []simplifyFrame{{node: root}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if !top.visited {
			top.visited = true
			switch top.node.Kind {
			case cssast.CalcSum, cssast.CalcDiff, cssast.CalcProduct, cssast.CalcQuotient:
				stack = append(stack, simplifyFrame{node: top.node.Left}, simplifyFrame{node: top.node.Right})
				continue
			case cssast.CalcNegate, cssast.CalcInvert:
				stack = append(stack, simplifyFrame{node: top.node.Left})
				continue
			case cssast.CalcFunc:
				for i := range top.node.Args {
					stack = append(stack, simplifyFrame{node: &top.node.Args[i]})
				}
				continue
			}
		}

		switch top.node.Kind {
		case cssast.CalcSum, cssast.CalcDiff, cssast.CalcProduct, cssast.CalcQuotient:
			left, right := *top.node.Left, *top.node.Right
			if left.Kind == cssast.CalcNumber && right.Kind == cssast.CalcNumber {
				switch top.node.Kind {
				case cssast.CalcSum:
					*top.node = cssast.NumberCalc[cssast.Token](left.Number + right.Number)
				case cssast.CalcDiff:
					*top.node = cssast.NumberCalc[cssast.Token](left.Number - right.Number)
				case cssast.CalcProduct:
					*top.node = cssast.NumberCalc[cssast.Token](left.Number * right.Number)
				case cssast.CalcQuotient:
					if right.Number != 0 {
						*top.node = cssast.NumberCalc[cssast.Token](left.Number / right.Number)
					}
				}
			}

		case cssast.CalcNegate:
			inner := *top.node.Left
			if inner.Kind == cssast.CalcNumber {
				*top.node = cssast.NumberCalc[cssast.Token](-inner.Number)
			}

		case cssast.CalcInvert:
			inner := *top.node.Left
			if inner.Kind == cssast.CalcNumber && inner.Number != 0 {
				*top.node = cssast.NumberCalc[cssast.Token](1 / inner.Number)
			}

		case cssast.CalcFunc:
			allNumbers := true
			for _, a := range top.node.Args {
				if a.Kind != cssast.CalcNumber {
					allNumbers = false
					break
				}
			}
			if allNumbers {
				if v, ok := evalNumericFunc(top.node.FuncName, top.node.Strategy, top.node.Args); ok {
					*top.node = cssast.NumberCalc[cssast.Token](v)
				}
			}
		}

		stack = stack[:len(stack)-1]
	}

	return *root
}

func evalNumericFunc(fn cssast.CalcFuncName, strategy cssast.RoundStrategy, args []cssast.Calc[cssast.Token]) (float64, bool) {
	nums := make([]float64, len(args))
	for i, a := range args {
		nums[i] = a.Number
	}
	switch fn {
	case cssast.FnMin:
		if len(nums) == 0 {
			return 0, false
		}
		m := nums[0]
		for _, n := range nums[1:] {
			if n < m {
				m = n
			}
		}
		return m, true
	case cssast.FnMax:
		if len(nums) == 0 {
			return 0, false
		}
		m := nums[0]
		for _, n := range nums[1:] {
			if n > m {
				m = n
			}
		}
		return m, true
	case cssast.FnClamp:
		if len(nums) != 3 {
			return 0, false
		}
		min, val, max := nums[0], nums[1], nums[2]
		if val < min {
			val = min
		}
		if val > max {
			val = max
		}
		return val, true
	case cssast.FnAbs:
		if len(nums) != 1 {
			return 0, false
		}
		return math.Abs(nums[0]), true
	case cssast.FnSign:
		if len(nums) != 1 {
			return 0, false
		}
		switch {
		case nums[0] > 0:
			return 1, true
		case nums[0] < 0:
			return -1, true
		default:
			return 0, true
		}
	case cssast.FnRound:
		if len(nums) != 2 {
			return 0, false
		}
		return roundTo(nums[0], nums[1], strategy), true
	case cssast.FnMod:
		if len(nums) != 2 || nums[1] == 0 {
			return 0, false
		}
		m := math.Mod(nums[0], nums[1])
		if m != 0 && (m < 0) != (nums[1] < 0) {
			m += nums[1]
		}
		return m, true
	case cssast.FnRem:
		if len(nums) != 2 || nums[1] == 0 {
			return 0, false
		}
		return math.Mod(nums[0], nums[1]), true
	case cssast.FnSqrt:
		if len(nums) != 1 {
			return 0, false
		}
		return math.Sqrt(nums[0]), true
	case cssast.FnSin:
		if len(nums) != 1 {
			return 0, false
		}
		return math.Sin(nums[0]), true
	case cssast.FnCos:
		if len(nums) != 1 {
			return 0, false
		}
		return math.Cos(nums[0]), true
	case cssast.FnTan:
		if len(nums) != 1 {
			return 0, false
		}
		return math.Tan(nums[0]), true
	case cssast.FnAsin:
		if len(nums) != 1 {
			return 0, false
		}
		return math.Asin(nums[0]), true
	case cssast.FnAcos:
		if len(nums) != 1 {
			return 0, false
		}
		return math.Acos(nums[0]), true
	case cssast.FnAtan:
		if len(nums) != 1 {
			return 0, false
		}
		return math.Atan(nums[0]), true
	case cssast.FnAtan2:
		if len(nums) != 2 {
			return 0, false
		}
		return math.Atan2(nums[0], nums[1]), true
	case cssast.FnPow:
		if len(nums) != 2 {
			return 0, false
		}
		return math.Pow(nums[0], nums[1]), true
	case cssast.FnExp:
		if len(nums) != 1 {
			return 0, false
		}
		return math.Exp(nums[0]), true
	case cssast.FnLog:
		if len(nums) == 1 {
			return math.Log(nums[0]), true
		}
		if len(nums) == 2 {
			return math.Log(nums[0]) / math.Log(nums[1]), true
		}
		return 0, false
	case cssast.FnHypot:
		if len(nums) == 0 {
			return 0, false
		}
		sum := 0.0
		for _, n := range nums {
			sum += n * n
		}
		return math.Sqrt(sum), true
	}
	return 0, false
}

func roundTo(value, step float64, strategy cssast.RoundStrategy) float64 {
	if step == 0 {
		return math.NaN()
	}
	q := value / step
	switch strategy {
	case cssast.RoundUp:
		return math.Ceil(q) * step
	case cssast.RoundDown:
		return math.Floor(q) * step
	case cssast.RoundToZero:
		return math.Trunc(q) * step
	default:
		return math.Round(q) * step
	}
}
