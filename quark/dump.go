package quark

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sexp renders node as a one-line S-expression. Node IDs are left out, so
// two parses of the same source render identically.
func Sexp(node Node) string {
	var b strings.Builder
	writeSexp(&b, node)
	return b.String()
}

func writeSexp(b *strings.Builder, generic Node) {
	switch node := generic.(type) {
	case nil:
		b.WriteString("()")
	case *Program:
		b.WriteString("(program")
		for _, stmt := range node.Body {
			b.WriteString(" ")
			writeSexp(b, stmt)
		}
		b.WriteString(")")
	case *VariableDeclaration:
		fmt.Fprintf(b, "(declare %s %s ", node.Type, node.Name)
		writeSexp(b, node.Initializer())
		b.WriteString(")")
	case *VariableReassignment:
		fmt.Fprintf(b, "(assign %s ", node.Name)
		writeSexp(b, node.Value)
		b.WriteString(")")
	case *Identifier:
		b.WriteString(node.Name)
	case *UnaryExpression:
		if node.Prefix {
			fmt.Fprintf(b, "(%s ", node.Operator)
			writeSexp(b, node.Operand)
			b.WriteString(")")
		} else {
			b.WriteString("(")
			writeSexp(b, node.Operand)
			fmt.Fprintf(b, " %s)", node.Operator)
		}
	case *BinaryExpression:
		fmt.Fprintf(b, "(%s ", node.Operator)
		writeSexp(b, node.Left)
		b.WriteString(" ")
		writeSexp(b, node.Right)
		b.WriteString(")")
	case *IfExpression:
		b.WriteString("(if ")
		writeSexp(b, node.Condition)
		writeSexpBlock(b, "then", node.Then)
		if node.Else != nil {
			writeSexpBlock(b, "else", node.Else)
		}
		b.WriteString(")")
	case *NumberLiteral:
		b.WriteString(formatNumber(node))
	case *TextLiteral:
		b.WriteString(strconv.Quote(node.Value))
	case *BoolLiteral:
		b.WriteString(strconv.FormatBool(node.Value))
	case *ExitStatement:
		b.WriteString("(exit ")
		writeSexp(b, node.Code())
		b.WriteString(")")
	case *EndOfInput:
		b.WriteString("(eof)")
	default:
		fmt.Fprintf(b, "(unknown %s)", generic.Kind())
	}
}

func writeSexpBlock(b *strings.Builder, label string, stmts []Node) {
	fmt.Fprintf(b, " (%s", label)
	for _, stmt := range stmts {
		b.WriteString(" ")
		writeSexp(b, stmt)
	}
	b.WriteString(")")
}

func formatNumber(n *NumberLiteral) string {
	if n.Integer {
		return strconv.FormatFloat(n.Value, 'f', -1, 64)
	}
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// treeNode is the serialized shape shared by the YAML and JSON dumps.
type treeNode struct {
	ID        string      `json:"id" yaml:"id"`
	Kind      NodeKind    `json:"kind" yaml:"kind"`
	Line      int         `json:"line" yaml:"line"`
	Column    int         `json:"column" yaml:"column"`
	Name      string      `json:"name,omitempty" yaml:"name,omitempty"`
	Type      string      `json:"type,omitempty" yaml:"type,omitempty"`
	Operator  string      `json:"operator,omitempty" yaml:"operator,omitempty"`
	Prefix    *bool       `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Value     any         `json:"value,omitempty" yaml:"value,omitempty"`
	Condition *treeNode   `json:"condition,omitempty" yaml:"condition,omitempty"`
	Left      *treeNode   `json:"left,omitempty" yaml:"left,omitempty"`
	Right     *treeNode   `json:"right,omitempty" yaml:"right,omitempty"`
	Operand   *treeNode   `json:"operand,omitempty" yaml:"operand,omitempty"`
	Body      []*treeNode `json:"body,omitempty" yaml:"body,omitempty"`
	Then      []*treeNode `json:"then,omitempty" yaml:"then,omitempty"`
	Else      []*treeNode `json:"else,omitempty" yaml:"else,omitempty"`
}

func toTree(generic Node) *treeNode {
	if generic == nil {
		return nil
	}
	pos := generic.Pos()
	out := &treeNode{ID: generic.ID(), Kind: generic.Kind(), Line: pos.Line, Column: pos.Column}

	switch node := generic.(type) {
	case *Program:
		out.Body = toTrees(node.Body)
	case *VariableDeclaration:
		out.Type = node.Type.String()
		out.Name = node.Name
		out.Body = toTrees(node.Body)
	case *VariableReassignment:
		out.Name = node.Name
		out.Body = toTrees([]Node{node.Value})
	case *Identifier:
		out.Name = node.Name
	case *UnaryExpression:
		prefix := node.Prefix
		out.Operator = node.Operator
		out.Prefix = &prefix
		out.Operand = toTree(node.Operand)
	case *BinaryExpression:
		out.Operator = node.Operator
		out.Left = toTree(node.Left)
		out.Right = toTree(node.Right)
	case *IfExpression:
		out.Condition = toTree(node.Condition)
		out.Then = toTrees(node.Then)
		out.Else = toTrees(node.Else)
	case *NumberLiteral:
		out.Value = node.Value
		if node.Integer && math.Abs(node.Value) < 1<<63 {
			out.Value = int64(node.Value)
		}
	case *TextLiteral:
		out.Value = node.Value
	case *BoolLiteral:
		out.Value = node.Value
	case *ExitStatement:
		out.Body = toTrees(node.Body)
	}
	return out
}

func toTrees(nodes []Node) []*treeNode {
	if nodes == nil {
		return nil
	}
	out := make([]*treeNode, len(nodes))
	for i, n := range nodes {
		out[i] = toTree(n)
	}
	return out
}

// WriteYAML writes node, IDs included, as a YAML document.
func WriteYAML(w io.Writer, node Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toTree(node)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// WriteJSON writes node, IDs included, as indented JSON.
func WriteJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toTree(node)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteDOT renders the tree as a Graphviz digraph keyed by node ID.
func WriteDOT(w io.Writer, root Node) error {
	var b strings.Builder
	b.WriteString("digraph ast {\n")
	b.WriteString("  node [shape=box, fontname=\"monospace\"];\n")
	Walk(root, func(n Node) bool {
		fmt.Fprintf(&b, "  %q [label=%q];\n", n.ID(), dotLabel(n))
		for _, child := range Children(n) {
			if child != nil {
				fmt.Fprintf(&b, "  %q -> %q;\n", n.ID(), child.ID())
			}
		}
		return true
	})
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func dotLabel(generic Node) string {
	switch node := generic.(type) {
	case *VariableDeclaration:
		return fmt.Sprintf("%s\n%s %s", node.Kind(), node.Type, node.Name)
	case *VariableReassignment:
		return fmt.Sprintf("%s\n%s", node.Kind(), node.Name)
	case *Identifier:
		return fmt.Sprintf("%s\n%s", node.Kind(), node.Name)
	case *UnaryExpression:
		return fmt.Sprintf("%s\n%s", node.Kind(), node.Operator)
	case *BinaryExpression:
		return fmt.Sprintf("%s\n%s", node.Kind(), node.Operator)
	case *NumberLiteral:
		return fmt.Sprintf("%s\n%s", node.Kind(), formatNumber(node))
	case *TextLiteral:
		return fmt.Sprintf("%s\n%q", node.Kind(), node.Value)
	case *BoolLiteral:
		return fmt.Sprintf("%s\n%t", node.Kind(), node.Value)
	default:
		return string(generic.Kind())
	}
}
