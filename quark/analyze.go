package quark

import (
	"fmt"
	"sort"
)

// Warning is a lint finding on a program that compiled cleanly.
type Warning struct {
	Pos     Position
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%d:%d: %s", w.Pos.Line, w.Pos.Column, w.Message)
}

// Analyze reports statements that can never run and variables that are
// declared but never read.
func Analyze(program *Program) []Warning {
	warnings := make([]Warning, 0)
	lintStatements(program.Statements(), &warnings)

	declared := make(map[string]Position)
	var order []string
	reads := make(map[string]int)
	Walk(program, func(n Node) bool {
		switch typed := n.(type) {
		case *VariableDeclaration:
			if _, ok := declared[typed.Name]; !ok {
				declared[typed.Name] = typed.Pos()
				order = append(order, typed.Name)
			}
		case *Identifier:
			reads[typed.Name]++
		}
		return true
	})
	for _, name := range order {
		if reads[name] == 0 {
			warnings = append(warnings, Warning{
				Pos:     declared[name],
				Message: fmt.Sprintf("variable %s declared but never used", name),
			})
		}
	}

	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Pos.Line != warnings[j].Pos.Line {
			return warnings[i].Pos.Line < warnings[j].Pos.Line
		}
		return warnings[i].Pos.Column < warnings[j].Pos.Column
	})
	return warnings
}

func lintStatements(statements []Node, warnings *[]Warning) bool {
	terminated := false
	for _, stmt := range statements {
		if terminated {
			*warnings = append(*warnings, Warning{Pos: stmt.Pos(), Message: "unreachable statement"})
			continue
		}
		if statementTerminates(stmt, warnings) {
			terminated = true
		}
	}
	return terminated
}

func statementTerminates(stmt Node, warnings *[]Warning) bool {
	switch typed := stmt.(type) {
	case *ExitStatement:
		return true
	case *IfExpression:
		thenExits := lintStatements(typed.Then, warnings)
		elseExits := lintStatements(typed.Else, warnings)
		return thenExits && elseExits && typed.Else != nil
	default:
		return false
	}
}

// Walk calls fn for node and its descendants in source order, skipping the
// children of any node for which fn returns false.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	for _, child := range Children(node) {
		Walk(child, fn)
	}
}

// Children lists the direct children of node in source order.
func Children(node Node) []Node {
	switch n := node.(type) {
	case *Program:
		return n.Body
	case *VariableDeclaration:
		return n.Body
	case *VariableReassignment:
		return []Node{n.Value}
	case *UnaryExpression:
		return []Node{n.Operand}
	case *BinaryExpression:
		return []Node{n.Left, n.Right}
	case *IfExpression:
		out := make([]Node, 0, 1+len(n.Then)+len(n.Else))
		out = append(out, n.Condition)
		out = append(out, n.Then...)
		return append(out, n.Else...)
	case *ExitStatement:
		return n.Body
	default:
		return nil
	}
}
