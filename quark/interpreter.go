package quark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"strings"
)

const defaultStepQuota = 100000

// ErrStepQuota is returned when a program runs more statements than allowed.
var ErrStepQuota = errors.New("step quota exceeded")

// InterpreterOptions bounds a run.
type InterpreterOptions struct {
	StepQuota int
	Logger    *slog.Logger
}

// Result describes a finished run.
type Result struct {
	Exited   bool
	ExitCode int
	// Last is the value of the last top-level expression statement.
	Last Value
	Vars map[string]Value
}

// RuntimeError is a failure while evaluating a well-typed program.
type RuntimeError struct {
	Pos Position
	Msg string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

type exitSignal struct {
	code int
}

func (e *exitSignal) Error() string {
	return fmt.Sprintf("exit %d", e.code)
}

// Interpreter is the reference backend: it walks a Program directly and
// refuses node kinds it does not know.
type Interpreter struct {
	opts  InterpreterOptions
	vars  map[string]Value
	steps int
}

func NewInterpreter(opts InterpreterOptions) *Interpreter {
	if opts.StepQuota <= 0 {
		opts.StepQuota = defaultStepQuota
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Interpreter{opts: opts, vars: make(map[string]Value)}
}

// Vars exposes the current variable bindings.
func (in *Interpreter) Vars() map[string]Value {
	return in.vars
}

// Run executes program. Variables persist across calls on one Interpreter;
// the step quota applies to each call.
func (in *Interpreter) Run(ctx context.Context, program *Program) (Result, error) {
	var result Result
	in.steps = 0
	for _, stmt := range program.Body {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		value, err := in.execStatement(stmt)
		if err != nil {
			var exit *exitSignal
			if errors.As(err, &exit) {
				result.Exited = true
				result.ExitCode = exit.code
				in.opts.Logger.Debug("program exited", "code", exit.code, "steps", in.steps)
				break
			}
			return result, err
		}
		if isExpressionNode(stmt) {
			result.Last = value
		}
	}
	result.Vars = maps.Clone(in.vars)
	return result, nil
}

func isExpressionNode(node Node) bool {
	switch node.(type) {
	case *Identifier, *UnaryExpression, *BinaryExpression, *NumberLiteral, *TextLiteral, *BoolLiteral, *IfExpression:
		return true
	}
	return false
}

// execStatement runs one statement and returns the value it produced, if any.
func (in *Interpreter) execStatement(node Node) (Value, error) {
	in.steps++
	if in.steps > in.opts.StepQuota {
		return Value{}, fmt.Errorf("%w (%d)", ErrStepQuota, in.opts.StepQuota)
	}

	switch n := node.(type) {
	case *VariableDeclaration:
		value, err := in.Eval(n.Initializer())
		if err != nil {
			return Value{}, err
		}
		in.vars[n.Name] = value
		return Value{}, nil
	case *VariableReassignment:
		value, err := in.Eval(n.Value)
		if err != nil {
			return Value{}, err
		}
		in.vars[n.Name] = value
		return value, nil
	case *ExitStatement:
		code, err := in.Eval(n.Code())
		if err != nil {
			return Value{}, err
		}
		if code.Type() != TypeNumber {
			return Value{}, &RuntimeError{Pos: n.Pos(), Msg: "exit code must be number"}
		}
		return Value{}, &exitSignal{code: int(code.Number())}
	case *EndOfInput:
		return Value{}, nil
	case *Identifier, *UnaryExpression, *BinaryExpression, *NumberLiteral, *TextLiteral, *BoolLiteral, *IfExpression:
		return in.Eval(n)
	default:
		return Value{}, &RuntimeError{Pos: node.Pos(), Msg: fmt.Sprintf("unsupported node kind %s", node.Kind())}
	}
}

// Eval evaluates an expression node.
func (in *Interpreter) Eval(node Node) (Value, error) {
	switch n := node.(type) {
	case nil:
		return Value{}, errors.New("eval: missing expression")
	case *NumberLiteral:
		return NewNumberValue(n.Value), nil
	case *TextLiteral:
		return NewTextValue(n.Value), nil
	case *BoolLiteral:
		return NewBoolValue(n.Value), nil
	case *Identifier:
		value, ok := in.vars[n.Name]
		if !ok {
			return Value{}, &RuntimeError{Pos: n.Pos(), Msg: fmt.Sprintf("variable %s has no value", n.Name)}
		}
		return value, nil
	case *UnaryExpression:
		return in.evalUnary(n)
	case *BinaryExpression:
		return in.evalBinary(n)
	case *IfExpression:
		return in.evalIf(n)
	default:
		return Value{}, &RuntimeError{Pos: node.Pos(), Msg: fmt.Sprintf("cannot evaluate %s", node.Kind())}
	}
}

func (in *Interpreter) evalUnary(n *UnaryExpression) (Value, error) {
	switch n.Operator {
	case "++", "--":
		ident, ok := n.Operand.(*Identifier)
		if !ok {
			return Value{}, &RuntimeError{Pos: n.Pos(), Msg: n.Operator + " needs a variable operand"}
		}
		old, err := in.Eval(ident)
		if err != nil {
			return Value{}, err
		}
		delta := 1.0
		if n.Operator == "--" {
			delta = -1
		}
		updated := NewNumberValue(old.Number() + delta)
		in.vars[ident.Name] = updated
		if n.Prefix {
			return updated, nil
		}
		return old, nil
	case "-":
		operand, err := in.Eval(n.Operand)
		if err != nil {
			return Value{}, err
		}
		return NewNumberValue(-operand.Number()), nil
	case "!":
		operand, err := in.Eval(n.Operand)
		if err != nil {
			return Value{}, err
		}
		return NewBoolValue(!operand.Bool()), nil
	default:
		return Value{}, &RuntimeError{Pos: n.Pos(), Msg: "unsupported unary operator " + n.Operator}
	}
}

func (in *Interpreter) evalBinary(n *BinaryExpression) (Value, error) {
	left, err := in.Eval(n.Left)
	if err != nil {
		return Value{}, err
	}

	switch n.Operator {
	case "&&":
		if !left.Bool() {
			return left, nil
		}
		return in.Eval(n.Right)
	case "||":
		if left.Bool() {
			return left, nil
		}
		return in.Eval(n.Right)
	case "??":
		return left, nil
	}

	right, err := in.Eval(n.Right)
	if err != nil {
		return Value{}, err
	}

	switch n.Operator {
	case "==":
		return NewBoolValue(left.Equal(right)), nil
	case "!=":
		return NewBoolValue(!left.Equal(right)), nil
	case "<", "<=", ">", ">=":
		return compareValues(n, left, right)
	case "+":
		if left.Type() == TypeText {
			return NewTextValue(left.Text() + right.Text()), nil
		}
		return NewNumberValue(left.Number() + right.Number()), nil
	case "-":
		return NewNumberValue(left.Number() - right.Number()), nil
	case "*":
		return NewNumberValue(left.Number() * right.Number()), nil
	case "/":
		if right.Number() == 0 {
			return Value{}, &RuntimeError{Pos: n.Pos(), Msg: "division by zero"}
		}
		return NewNumberValue(left.Number() / right.Number()), nil
	case "%":
		if right.Number() == 0 {
			return Value{}, &RuntimeError{Pos: n.Pos(), Msg: "modulo by zero"}
		}
		return NewNumberValue(math.Mod(left.Number(), right.Number())), nil
	case "&":
		return NewNumberValue(float64(int64(left.Number()) & int64(right.Number()))), nil
	case "|":
		return NewNumberValue(float64(int64(left.Number()) | int64(right.Number()))), nil
	case "^":
		return NewNumberValue(float64(int64(left.Number()) ^ int64(right.Number()))), nil
	default:
		return Value{}, &RuntimeError{Pos: n.Pos(), Msg: "unsupported binary operator " + n.Operator}
	}
}

func compareValues(n *BinaryExpression, left, right Value) (Value, error) {
	var cmp int
	switch left.Type() {
	case TypeNumber:
		switch {
		case left.Number() < right.Number():
			cmp = -1
		case left.Number() > right.Number():
			cmp = 1
		}
	case TypeText:
		cmp = strings.Compare(left.Text(), right.Text())
	default:
		return Value{}, &RuntimeError{Pos: n.Pos(), Msg: fmt.Sprintf("cannot order %s values", left.Type())}
	}

	switch n.Operator {
	case "<":
		return NewBoolValue(cmp < 0), nil
	case "<=":
		return NewBoolValue(cmp <= 0), nil
	case ">":
		return NewBoolValue(cmp > 0), nil
	default:
		return NewBoolValue(cmp >= 0), nil
	}
}

// evalIf runs the chosen branch; its value is that of the last statement
// in the branch that produced one.
func (in *Interpreter) evalIf(n *IfExpression) (Value, error) {
	cond, err := in.Eval(n.Condition)
	if err != nil {
		return Value{}, err
	}
	branch := n.Else
	if cond.Bool() {
		branch = n.Then
	}

	var last Value
	for _, stmt := range branch {
		value, err := in.execStatement(stmt)
		if err != nil {
			return Value{}, err
		}
		if !value.IsZero() {
			last = value
		}
	}
	return last, nil
}
