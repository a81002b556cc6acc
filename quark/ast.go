package quark

import "github.com/google/uuid"

// NodeKind tags every AST node with its variant.
type NodeKind string

const (
	KindProgram              NodeKind = "Program"
	KindVariableDeclaration  NodeKind = "VariableDeclaration"
	KindVariableReassignment NodeKind = "VariableReassignment"
	KindIdentifier           NodeKind = "Identifier"
	KindUnaryExpression      NodeKind = "UnaryExpression"
	KindBinaryExpression     NodeKind = "BinaryExpression"
	KindIfExpression         NodeKind = "IfExpression"
	KindNumberLiteral        NodeKind = "NumberLiteral"
	KindTextLiteral          NodeKind = "TextLiteral"
	KindBoolLiteral          NodeKind = "BoolLiteral"
	KindExitStatement        NodeKind = "ExitStatement"
	KindEndOfInput           NodeKind = "EndOfInput"
)

// Node is implemented only by the node types in this package. Consumers
// switch on the concrete type and must reject anything they do not know.
type Node interface {
	ID() string
	Kind() NodeKind
	Pos() Position
	node()
}

type base struct {
	id       string
	position Position
}

func newBase(pos Position) base {
	return base{id: uuid.NewString(), position: pos}
}

func (b *base) ID() string    { return b.id }
func (b *base) Pos() Position { return b.position }
func (b *base) node()         {}

// Program is the root of every parse. Body holds top-level statements in
// source order and ends with an EndOfInput node when parsing reached eof.
type Program struct {
	base
	Body []Node
}

func (p *Program) Kind() NodeKind { return KindProgram }

// Statements returns the body without the trailing EndOfInput marker.
func (p *Program) Statements() []Node {
	if n := len(p.Body); n > 0 {
		if _, ok := p.Body[n-1].(*EndOfInput); ok {
			return p.Body[:n-1]
		}
	}
	return p.Body
}

type Identifier struct {
	base
	Name string
}

func (e *Identifier) Kind() NodeKind { return KindIdentifier }

type UnaryExpression struct {
	base
	Operator string
	Operand  Node
	Prefix   bool
}

func (e *UnaryExpression) Kind() NodeKind { return KindUnaryExpression }

type BinaryExpression struct {
	base
	Left     Node
	Operator string
	Right    Node
}

func (e *BinaryExpression) Kind() NodeKind { return KindBinaryExpression }

// NumberLiteral stores every number as float64; Integer records whether the
// source spelled it without a decimal point.
type NumberLiteral struct {
	base
	Value   float64
	Integer bool
}

func (e *NumberLiteral) Kind() NodeKind { return KindNumberLiteral }

type TextLiteral struct {
	base
	Value string
}

func (e *TextLiteral) Kind() NodeKind { return KindTextLiteral }

type BoolLiteral struct {
	base
	Value bool
}

func (e *BoolLiteral) Kind() NodeKind { return KindBoolLiteral }
