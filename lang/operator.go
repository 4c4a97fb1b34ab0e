package lang

import (
	"slices"
	"strconv"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Arity is the number of operands an operator takes.
type Arity int

const (
	Unary Arity = iota + 1
	Binary
)

func (a Arity) String() string {
	switch a {
	case Unary:
		return "unary"
	case Binary:
		return "binary"
	default:
		return "arity(" + strconv.Itoa(int(a)) + ")"
	}
}

// MarshalText renders the arity by name in tree dumps.
func (a Arity) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

const (
	OperatorAnd      = "AND"
	OperatorOr       = "OR"
	OperatorNot      = "NOT"
	OperatorEquals   = "EQUALS"
	OperatorContains = "CONTAINS"
)

// Boolean results of operators and conditions.
const (
	True  = "TRUE"
	False = "FALSE"
)

// operator is the compiled semantics of one operator. Binary programs see
// the resolved operand strings as lhs and rhs; the unary program sees the
// operand decayed to a boolean as value.
type operator struct {
	program *vm.Program
	arity   Arity
}

var operators = map[string]operator{
	OperatorAnd:      compileOperator(Binary, `lhs == "TRUE" && rhs == "TRUE"`),
	OperatorOr:       compileOperator(Binary, `lhs == "TRUE" || rhs == "TRUE"`),
	OperatorEquals:   compileOperator(Binary, `lhs == rhs`),
	OperatorContains: compileOperator(Binary, `lhs contains rhs`),
	OperatorNot:      compileOperator(Unary, `!value`),
}

func operandEnv(lhs, rhs string, value bool) map[string]any {
	return map[string]any{"lhs": lhs, "rhs": rhs, "value": value}
}

func compileOperator(arity Arity, source string) operator {
	program, err := expr.Compile(source,
		expr.Env(operandEnv("", "", false)),
		expr.AsBool(),
	)
	if err != nil {
		panic("lang: invalid operator program " + strconv.Quote(source) + ": " + err.Error())
	}

	return operator{program: program, arity: arity}
}

// IsOperator reports whether s names an operator.
func IsOperator(s string) bool {
	_, ok := operators[s]

	return ok
}

// OperatorArity returns the arity of the named operator, or 0 if unknown.
func OperatorArity(s string) Arity {
	return operators[s].arity
}

// Operators returns the sorted operator names.
func Operators() []string {
	names := make([]string, 0, len(operators))
	for name := range operators {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

func (o operator) run(lhs, rhs string, value bool) (string, error) {
	out, err := vm.Run(o.program, operandEnv(lhs, rhs, value))
	if err != nil {
		return "", err
	}

	if b, _ := out.(bool); b {
		return True, nil
	}

	return False, nil
}

// decay converts an operand to a boolean: TRUE and FALSE literally, then
// any integer by its non-zero-ness.
func decay(s string) (bool, error) {
	switch s {
	case "":
		return false, ErrEmptyLiteral.Describe("cannot decay an empty literal")
	case True:
		return true, nil
	case False:
		return false, nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return false, ErrBadBooleanLiteral.Describe("%q", s)
	}

	return n != 0, nil
}
