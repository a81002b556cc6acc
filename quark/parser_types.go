package quark

// TypeOf infers the primitive type of node against the parser's symbol
// table. Nodes that produce no value report TypeUnknown without an error.
func (p *Parser) TypeOf(node Node) (Type, error) {
	switch n := node.(type) {
	case *NumberLiteral:
		return TypeNumber, nil
	case *TextLiteral:
		return TypeText, nil
	case *BoolLiteral:
		return TypeBool, nil
	case *Identifier:
		sym, ok := p.symbols.Get(n.Name)
		if !ok {
			return TypeUnknown, p.errorSemantic(n.Pos(), "variable %s not declared before usage", n.Name)
		}
		return sym.Type, nil
	case *BinaryExpression:
		return p.binaryType(n)
	case *UnaryExpression:
		return p.unaryType(n)
	case *VariableReassignment:
		return p.TypeOf(n.Value)
	case *IfExpression:
		return p.ifType(n)
	default:
		return TypeUnknown, nil
	}
}

func (p *Parser) binaryType(n *BinaryExpression) (Type, error) {
	left, err := p.TypeOf(n.Left)
	if err != nil {
		return TypeUnknown, err
	}
	right, err := p.TypeOf(n.Right)
	if err != nil {
		return TypeUnknown, err
	}
	if left != right {
		return TypeUnknown, p.errorSemantic(n.Pos(), "type mismatch in binary expression: %s %s %s", left, n.Operator, right)
	}

	switch {
	case isOrderingOperator(n.Operator):
		if left != TypeNumber && left != TypeText {
			return TypeUnknown, p.errorSemantic(n.Pos(), "operator %s requires number or text operands, got %s", n.Operator, left)
		}
		return TypeBool, nil
	case isComparisonOperator(n.Operator):
		return TypeBool, nil
	case isLogicalOperator(n.Operator):
		if left != TypeBool {
			return TypeUnknown, p.errorSemantic(n.Pos(), "operator %s requires bool operands, got %s", n.Operator, left)
		}
		return TypeBool, nil
	case n.Operator == "+":
		if left != TypeNumber && left != TypeText {
			return TypeUnknown, p.errorSemantic(n.Pos(), "operator + requires number or text operands, got %s", left)
		}
		return left, nil
	case n.Operator == "??":
		return left, nil
	default:
		if left != TypeNumber {
			return TypeUnknown, p.errorSemantic(n.Pos(), "operator %s requires number operands, got %s", n.Operator, left)
		}
		return left, nil
	}
}

func (p *Parser) unaryType(n *UnaryExpression) (Type, error) {
	operand, err := p.TypeOf(n.Operand)
	if err != nil {
		return TypeUnknown, err
	}
	want := TypeNumber
	if n.Operator == "!" {
		want = TypeBool
	}
	if operand != want {
		return TypeUnknown, p.errorSemantic(n.Pos(), "operator %s requires a %s operand, got %s", n.Operator, want, operand)
	}
	return operand, nil
}

// ifType is the one type shared by every valued statement of both branches.
func (p *Parser) ifType(n *IfExpression) (Type, error) {
	var seen []Type
	collect := func(stmts []Node) error {
		for _, stmt := range stmts {
			t, err := p.TypeOf(stmt)
			if err != nil {
				return err
			}
			if t == TypeUnknown {
				continue
			}
			found := false
			for _, s := range seen {
				if s == t {
					found = true
					break
				}
			}
			if !found {
				seen = append(seen, t)
			}
		}
		return nil
	}
	if err := collect(n.Then); err != nil {
		return TypeUnknown, err
	}
	if err := collect(n.Else); err != nil {
		return TypeUnknown, err
	}

	switch len(seen) {
	case 0:
		return TypeUnknown, nil
	case 1:
		return seen[0], nil
	default:
		return TypeUnknown, p.errorSemantic(n.Pos(), "mismatched branch types in if expression: %s and %s", seen[0], seen[1])
	}
}
