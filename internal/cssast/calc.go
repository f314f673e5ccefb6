package cssast

// Calc is the recursive calc()/math-function tree from §3, parameterized by
// the leaf operand type T (a typed value such as a length or an angle). Go
// generics model the "Number(f64) | Value(T) | Sum | Diff | Product |
// Quotient | Negate | Invert | Function(f)" sum directly, one field per
// case, discriminated by Kind -- the same one-struct-many-fields encoding
// esbuild uses for its AST nodes rather than a deep interface hierarchy.
type CalcKind uint8

const (
	CalcNumber CalcKind = iota
	CalcValue
	CalcSum
	CalcDiff
	CalcProduct
	CalcQuotient
	CalcNegate
	CalcInvert
	CalcFunc
	CalcUnknown // a type error during simplification (§4.3 point 2): opaque, serialized as-is
)

type RoundStrategy uint8

const (
	RoundNearest RoundStrategy = iota
	RoundUp
	RoundDown
	RoundToZero
)

func (s RoundStrategy) String() string {
	switch s {
	case RoundUp:
		return "up"
	case RoundDown:
		return "down"
	case RoundToZero:
		return "to-zero"
	default:
		return "nearest"
	}
}

type CalcFuncName uint8

const (
	FnMin CalcFuncName = iota
	FnMax
	FnClamp
	FnAbs
	FnSign
	FnRound
	FnMod
	FnRem
	FnSin
	FnCos
	FnTan
	FnAsin
	FnAcos
	FnAtan
	FnAtan2
	FnSqrt
	FnPow
	FnExp
	FnLog
	FnHypot
)

var calcFuncNames = map[string]CalcFuncName{
	"min": FnMin, "max": FnMax, "clamp": FnClamp, "abs": FnAbs, "sign": FnSign,
	"round": FnRound, "mod": FnMod, "rem": FnRem, "sin": FnSin, "cos": FnCos,
	"tan": FnTan, "asin": FnAsin, "acos": FnAcos, "atan": FnAtan, "atan2": FnAtan2,
	"sqrt": FnSqrt, "pow": FnPow, "exp": FnExp, "log": FnLog, "hypot": FnHypot,
}

func LookupCalcFunc(name string) (CalcFuncName, bool) {
	f, ok := calcFuncNames[name]
	return f, ok
}

func (f CalcFuncName) String() string {
	for name, k := range calcFuncNames {
		if k == f {
			return name
		}
	}
	return "?"
}

type Calc[T any] struct {
	Kind CalcKind

	Number float64
	Value  T

	Left  *Calc[T]
	Right *Calc[T]

	FuncName CalcFuncName
	Args     []Calc[T]
	Strategy RoundStrategy // only meaningful when FuncName == FnRound
}

func NumberCalc[T any](v float64) Calc[T] { return Calc[T]{Kind: CalcNumber, Number: v} }
func ValueCalc[T any](v T) Calc[T]        { return Calc[T]{Kind: CalcValue, Value: v} }
