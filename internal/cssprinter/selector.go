package cssprinter

import (
	"strconv"
	"strings"

	"github.com/6over3/CSSKit-sub002/internal/cssast"
)

// selEmit is one entry in the explicit stack printSelectorList and
// printComplexSelector drive in place of recursing through
// list/complex-selector/compound-selector/pseudo-class-argument, so
// ":not(:not(:not(...)))" a million levels deep (§8) serializes in bounded
// call-stack depth. lit is a plain literal to write verbatim; action runs
// when popped and may write directly and/or push further steps.
type selEmit struct {
	lit    string
	action func(stack *[]selEmit)
}

func (p *printer) printSelectorList(list []cssast.ComplexSelector) {
	p.drainSelStack([]selEmit{{action: func(s *[]selEmit) { p.pushSelList(s, list) }}})
}

func (p *printer) printComplexSelector(sel cssast.ComplexSelector) {
	p.drainSelStack([]selEmit{{action: func(s *[]selEmit) { p.pushComplex(s, sel) }}})
}

func (p *printer) drainSelStack(stack []selEmit) {
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.lit != "" {
			p.sb.WriteString(top.lit)
			continue
		}
		top.action(&stack)
	}
}

func (p *printer) pushSelList(stack *[]selEmit, list []cssast.ComplexSelector) {
	for i := len(list) - 1; i >= 0; i-- {
		sel := list[i]
		*stack = append(*stack, selEmit{action: func(s *[]selEmit) { p.pushComplex(s, sel) }})
		if i > 0 {
			*stack = append(*stack, selEmit{lit: ", "})
		}
	}
}

func (p *printer) pushComplex(stack *[]selEmit, sel cssast.ComplexSelector) {
	for i := len(sel.Compounds) - 1; i >= 0; i-- {
		c := sel.Compounds[i]
		*stack = append(*stack, selEmit{action: func(s *[]selEmit) { p.pushCompound(s, c) }})
		if i > 0 {
			sep := " "
			if c.Combinator != cssast.CombinatorDescendant {
				sep = " " + c.Combinator.String() + " "
			}
			*stack = append(*stack, selEmit{lit: sep})
		}
	}
}

// pushCompound lays out one compound selector's pieces in order: nesting
// marker, type selector, subclass selectors, pseudo-element, trailing
// pseudo-classes. Everything but a functional pseudo-class's own argument
// is written synchronously here; a pseudo-class with a selector-list
// argument defers that argument through pushPseudoClass instead.
func (p *printer) pushCompound(stack *[]selEmit, c cssast.CompoundSelector) {
	var steps []selEmit
	if c.HasNestingSelector {
		steps = append(steps, selEmit{lit: "&"})
	}
	if c.TypeSelector != nil {
		ts := *c.TypeSelector
		steps = append(steps, selEmit{action: func(s *[]selEmit) { p.printNamespacedName(ts) }})
	}
	for _, comp := range c.Subclasses {
		if pc, ok := comp.(*cssast.CPseudoClass); ok {
			pcCopy := *pc
			steps = append(steps, selEmit{action: func(s *[]selEmit) { p.pushPseudoClass(s, pcCopy) }})
			continue
		}
		comp := comp
		steps = append(steps, selEmit{action: func(s *[]selEmit) { p.printComponent(comp) }})
	}
	if c.PseudoElement != nil {
		pe := *c.PseudoElement
		steps = append(steps, selEmit{action: func(s *[]selEmit) { p.printPseudoElement(pe) }})
	}
	for i := range c.TrailingPseudoClasses {
		pc := c.TrailingPseudoClasses[i]
		steps = append(steps, selEmit{action: func(s *[]selEmit) { p.pushPseudoClass(s, pc) }})
	}
	for i := len(steps) - 1; i >= 0; i-- {
		*stack = append(*stack, steps[i])
	}
}

func (p *printer) printNamespacedName(n cssast.NamespacedName) {
	if n.HasNamespace {
		p.sb.WriteString(n.Namespace)
		p.sb.WriteByte('|')
	}
	p.sb.WriteString(n.Name)
}

// printComponent handles the subclass-selector component kinds that never
// carry a nested selector list; CPseudoClass is intercepted in pushCompound
// before it would reach here, since its argument may need to be deferred.
func (p *printer) printComponent(comp cssast.Component) {
	switch c := comp.(type) {
	case *cssast.CID:
		p.sb.WriteByte('#')
		p.sb.WriteString(c.Name)
	case *cssast.CClass:
		p.sb.WriteByte('.')
		p.sb.WriteString(c.Name)
	case *cssast.CNesting:
		p.sb.WriteByte('&')
	case *cssast.CType:
		p.printNamespacedName(c.Name)
	case *cssast.CAttribute:
		p.printAttribute(*c)
	}
}

func (p *printer) printPseudoElement(pe cssast.PseudoElement) {
	p.sb.WriteString("::")
	p.sb.WriteString(pe.Name)
	if pe.Kind == cssast.PseudoElementFunctional {
		p.sb.WriteByte('(')
		p.printTokens(pe.Args)
		p.sb.WriteByte(')')
	}
}

func (p *printer) printAttribute(a cssast.CAttribute) {
	p.sb.WriteByte('[')
	p.printNamespacedName(a.Name)
	switch a.Match {
	case cssast.AttrMatchEqual:
		p.sb.WriteByte('=')
	case cssast.AttrMatchInclude:
		p.sb.WriteString("~=")
	case cssast.AttrMatchDash:
		p.sb.WriteString("|=")
	case cssast.AttrMatchPrefix:
		p.sb.WriteString("^=")
	case cssast.AttrMatchSuffix:
		p.sb.WriteString("$=")
	case cssast.AttrMatchSubstring:
		p.sb.WriteString("*=")
	}
	if a.Match != cssast.AttrMatchNone {
		p.printQuotedString(a.Value)
		switch a.Case {
		case cssast.AttrCaseInsensitive:
			p.sb.WriteString(" i")
		case cssast.AttrCaseSensitiveFlag:
			p.sb.WriteString(" s")
		}
	}
	p.sb.WriteByte(']')
}

// pushPseudoClass writes a pseudo-class's name synchronously, then either
// finishes its argument synchronously (AnPlusB, lang/dir idents, raw
// tokens) or defers a nested selector-list argument by pushing it onto
// stack, so is()/where()/not()/has()/nth(... of ...) nesting advances the
// explicit stack rather than the Go call stack.
func (p *printer) pushPseudoClass(stack *[]selEmit, pc cssast.CPseudoClass) {
	p.sb.WriteByte(':')
	p.sb.WriteString(pc.Name)
	switch pc.Kind {
	case cssast.PseudoIs, cssast.PseudoWhere, cssast.PseudoNot, cssast.PseudoHas, cssast.PseudoHostContext:
		p.sb.WriteByte('(')
		*stack = append(*stack, selEmit{lit: ")"})
		*stack = append(*stack, selEmit{action: func(s *[]selEmit) { p.pushSelList(s, pc.SelectorList) }})
	case cssast.PseudoHost:
		if len(pc.SelectorList) > 0 {
			p.sb.WriteByte('(')
			*stack = append(*stack, selEmit{lit: ")"})
			*stack = append(*stack, selEmit{action: func(s *[]selEmit) { p.pushSelList(s, pc.SelectorList) }})
		}
	case cssast.PseudoNthChild, cssast.PseudoNthLastChild, cssast.PseudoNthOfType, cssast.PseudoNthLastOfType:
		p.sb.WriteByte('(')
		p.printAnPlusB(pc.AnB)
		if len(pc.OfSel) > 0 {
			p.sb.WriteString(" of ")
			*stack = append(*stack, selEmit{lit: ")"})
			*stack = append(*stack, selEmit{action: func(s *[]selEmit) { p.pushSelList(s, pc.OfSel) }})
			return
		}
		p.sb.WriteByte(')')
	case cssast.PseudoLang, cssast.PseudoDir:
		p.sb.WriteByte('(')
		p.sb.WriteString(strings.Join(pc.Idents, ", "))
		p.sb.WriteByte(')')
	case cssast.PseudoElementFunctional:
		p.sb.WriteByte('(')
		p.printTokens(pc.RawArgs)
		p.sb.WriteByte(')')
	}
}

func (p *printer) printAnPlusB(ab cssast.AnPlusB) {
	switch {
	case ab.A == 0:
		p.sb.WriteString(strconv.Itoa(ab.B))
	case ab.A == 1 && ab.B == 0:
		p.sb.WriteByte('n')
	case ab.B == 0:
		p.sb.WriteString(strconv.Itoa(ab.A))
		p.sb.WriteByte('n')
	default:
		p.sb.WriteString(strconv.Itoa(ab.A))
		p.sb.WriteByte('n')
		if ab.B > 0 {
			p.sb.WriteByte('+')
			p.sb.WriteString(strconv.Itoa(ab.B))
		} else {
			p.sb.WriteString(strconv.Itoa(ab.B))
		}
	}
}
