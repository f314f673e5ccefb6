package cssprinter

import "github.com/6over3/CSSKit-sub002/internal/cssast"

// condEmit is one entry in the explicit stack printCondition/
// printConditionChild drive instead of recursing directly over the
// not/and/or tree, so a pathological "not (not (not (...)))" a million
// levels deep (§8) serializes in bounded call-stack depth. lit is a plain
// literal to write verbatim; node is a condition subtree still to expand,
// wrapped in parens first when isChild marks it as an and/or operand.
type condEmit struct {
	lit     string
	node    *cssast.Condition
	isChild bool
}

func (p *printer) printCondition(c cssast.Condition) {
	p.drainConditionStack([]condEmit{{node: &c}})
}

// printConditionChild parenthesizes and/or operands that are themselves
// compound (so "(a) and (b)" nested inside "not" or another and/or group
// does not lose its grouping on round-trip).
func (p *printer) printConditionChild(c cssast.Condition) {
	p.drainConditionStack([]condEmit{{node: &c, isChild: true}})
}

func (p *printer) drainConditionStack(stack []condEmit) {
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.lit != "" {
			p.sb.WriteString(top.lit)
			continue
		}

		node := *top.node
		if top.isChild {
			switch node.Kind {
			case cssast.CondAnd, cssast.CondOr:
				stack = append(stack, condEmit{lit: ")"})
				stack = append(stack, condEmit{node: top.node})
				stack = append(stack, condEmit{lit: "("})
				continue
			}
		}

		switch node.Kind {
		case cssast.CondNot:
			stack = append(stack, condEmit{node: node.Not, isChild: true})
			stack = append(stack, condEmit{lit: "not "})
		case cssast.CondAnd:
			pushJoinedConditions(&stack, node.Children, "and")
		case cssast.CondOr:
			pushJoinedConditions(&stack, node.Children, "or")
		case cssast.CondFeature:
			p.sb.WriteByte('(')
			p.printFeature(*node.Feature)
			p.sb.WriteByte(')')
		case cssast.CondDeclarationProbe:
			p.sb.WriteByte('(')
			p.printDeclaration(*node.DeclarationProbe)
			p.sb.WriteByte(')')
		case cssast.CondSelectorProbe:
			p.sb.WriteString("selector(")
			p.printComplexSelector(*node.SelectorProbe)
			p.sb.WriteByte(')')
		case cssast.CondStyleQuery:
			stack = append(stack, condEmit{lit: ")"})
			stack = append(stack, condEmit{node: node.StyleQuery})
			stack = append(stack, condEmit{lit: "style("})
		case cssast.CondUnknown:
			p.printTokens(node.Unknown)
		}
	}
}

// pushJoinedConditions pushes children (each parenthesized if it is itself
// an and/or group) in reverse order with op literals between them, so
// popping the stack emits "child0 op child1 op child2 ...".
func pushJoinedConditions(stack *[]condEmit, children []cssast.Condition, op string) {
	for i := len(children) - 1; i >= 0; i-- {
		*stack = append(*stack, condEmit{node: &children[i], isChild: true})
		if i > 0 {
			*stack = append(*stack, condEmit{lit: " " + op + " "})
		}
	}
}

func (p *printer) printFeature(f cssast.Feature) {
	if f.IsInterval {
		p.printTokens(f.Low)
		p.sb.WriteByte(' ')
		p.sb.WriteString(f.LowOp.String())
		p.sb.WriteByte(' ')
		p.sb.WriteString(f.Name)
		p.sb.WriteByte(' ')
		p.sb.WriteString(f.HighOp.String())
		p.sb.WriteByte(' ')
		p.printTokens(f.High)
		return
	}
	p.sb.WriteString(f.Name)
	if f.Op == cssast.FeatureOpEq && f.Colon {
		p.sb.WriteByte(':')
		p.space()
		p.printTokens(f.Value)
	} else if f.Op != cssast.FeatureOpNone {
		p.sb.WriteByte(' ')
		p.sb.WriteString(f.Op.String())
		p.sb.WriteByte(' ')
		p.printTokens(f.Value)
	}
}

func (p *printer) printMediaQueryList(queries []cssast.MediaQuery) {
	for i, q := range queries {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		p.printMediaQuery(q)
	}
}

func (p *printer) printMediaQuery(q cssast.MediaQuery) {
	if q.IsArbitrary {
		p.printTokens(q.ArbitraryTokens)
		return
	}
	if q.IsConditionOnly {
		p.printCondition(q.Condition)
		return
	}
	switch q.TypeOp {
	case cssast.MQTypeOpNot:
		p.sb.WriteString("not ")
	case cssast.MQTypeOpOnly:
		p.sb.WriteString("only ")
	}
	p.sb.WriteString(q.MediaType)
	if q.HasAnd {
		p.sb.WriteString(" and ")
		p.printConditionChild(q.Condition)
	}
}
