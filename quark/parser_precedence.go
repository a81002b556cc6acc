package quark

// Associativity tells the climbing parser how to group equal-precedence operators.
type Associativity int

const (
	AssocLeft Associativity = iota
	AssocRight
)

func (a Associativity) String() string {
	if a == AssocRight {
		return "right"
	}
	return "left"
}

// '||' shares the floor with undeclared operators so '&&' can bind tighter
// without moving the arithmetic levels.
const (
	lowestPrec     = 0
	precOr         = 0
	precAnd        = 1
	precComparison = 2
	precSum        = 3
	precProduct    = 4
)

var precedences = map[string]int{
	"||": precOr,
	"&&": precAnd,
	"==": precComparison,
	"!=": precComparison,
	"<":  precComparison,
	"<=": precComparison,
	">":  precComparison,
	">=": precComparison,
	"+":  precSum,
	"-":  precSum,
	"*":  precProduct,
	"/":  precProduct,
	"%":  precProduct,
}

var associativities = map[string]Associativity{
	"||": AssocLeft,
	"&&": AssocLeft,
	"+":  AssocLeft,
	"-":  AssocLeft,
	"*":  AssocLeft,
	"/":  AssocLeft,
	"%":  AssocLeft,
}

// Precedence returns the binding power of op; undeclared operators bind at 0.
func Precedence(op string) int {
	return precedences[op]
}

// OperatorAssociativity returns the associativity of op, left by default.
func OperatorAssociativity(op string) Associativity {
	if assoc, ok := associativities[op]; ok {
		return assoc
	}
	return AssocLeft
}

// isBinaryOperator excludes assignment, increment and member operators,
// which never continue an expression.
func isBinaryOperator(op string) bool {
	switch op {
	case "=", "+=", "-=", "*=", "/=", "%=", "^=", "&=", "|=", "~=",
		"++", "--", "!", "~", ".", "?.", "->", ":":
		return false
	}
	return true
}

func isComparisonOperator(op string) bool {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=":
		return true
	}
	return false
}

func isOrderingOperator(op string) bool {
	switch op {
	case "<", "<=", ">", ">=":
		return true
	}
	return false
}

func isLogicalOperator(op string) bool {
	return op == "&&" || op == "||"
}

var compoundAssignOps = map[string]string{
	"+=": "+",
	"-=": "-",
	"*=": "*",
	"/=": "/",
}
