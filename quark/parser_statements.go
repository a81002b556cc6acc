package quark

func (p *Parser) parseStatement() (Node, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenKeyword:
		switch {
		case isTypeKeyword(tok.Text):
			return p.parseVariableDeclaration()
		case tok.Text == "exit":
			return p.parseExitStatement()
		case tok.Text == "if":
			node, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			return node, nil
		default:
			return nil, newError(SyntaxError, tok.Pos, "unexpected keyword '%s' at start of statement", tok.Text)
		}
	case TokenIdentifier:
		return p.parseIdentifierStatement()
	case TokenOperator:
		if tok.Text == "++" || tok.Text == "--" {
			return p.parseExpressionStatement()
		}
	}
	return nil, p.errorUnexpected(tok)
}

func (p *Parser) parseVariableDeclaration() (Node, error) {
	keyword := p.advance()
	declared, _ := TypeFromKeyword(keyword.Text)

	ident := p.peek()
	if ident.Kind != TokenIdentifier {
		return nil, p.errorExpected(ident, "identifier after '"+keyword.Text+"'")
	}
	p.advance()

	if _, err := p.expect(TokenOperator, "="); err != nil {
		return nil, err
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.symbols.Has(ident.Text) {
		return nil, p.errorSemantic(ident.Pos, "variable %s already declared", ident.Text)
	}
	inferred, err := p.TypeOf(value)
	if err != nil {
		return nil, err
	}
	if inferred != declared {
		return nil, p.errorSemantic(keyword.Pos, "type mismatch: %s declared as %s but initializer is %s", ident.Text, keyword.Text, inferred)
	}

	// A failing enclosing statement rolls this Add back in ParseProgram.
	if tok := p.peek(); !tok.Is(TokenPunctuation, ";") {
		return nil, p.errorExpected(tok, "';'")
	}
	if err := p.symbols.Add(ident.Text, declared); err != nil {
		return nil, p.errorSemantic(ident.Pos, "%v", err)
	}
	p.advance()

	return &VariableDeclaration{
		base: newBase(keyword.Pos),
		Type: declared,
		Name: ident.Text,
		Body: []Node{value},
	}, nil
}

func (p *Parser) parseIdentifierStatement() (Node, error) {
	next := p.peekAt(1)
	if next.Kind == TokenOperator {
		switch next.Text {
		case "=", "+=", "-=", "*=", "/=":
			return p.parseReassignment()
		case "++", "--":
			return p.parsePostfixStatement()
		}
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseReassignment() (Node, error) {
	ident := p.advance()
	op := p.advance()

	rhs, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	sym, ok := p.symbols.Get(ident.Text)
	if !ok {
		return nil, p.errorSemantic(ident.Pos, "variable %s not declared before assignment", ident.Text)
	}

	value := rhs
	if baseOp, ok := compoundAssignOps[op.Text]; ok {
		value = &BinaryExpression{
			base:     newBase(op.Pos),
			Left:     &Identifier{base: newBase(ident.Pos), Name: ident.Text},
			Operator: baseOp,
			Right:    rhs,
		}
	}

	if err := p.checkAssignable(sym, value, ident.Pos); err != nil {
		return nil, err
	}
	if _, err := p.expectPunctuation(";"); err != nil {
		return nil, err
	}

	return &VariableReassignment{
		base:  newBase(ident.Pos),
		Name:  ident.Text,
		Value: value,
	}, nil
}

func (p *Parser) parsePostfixStatement() (Node, error) {
	ident := p.advance()
	op := p.advance()

	sym, ok := p.symbols.Get(ident.Text)
	if !ok {
		return nil, p.errorSemantic(ident.Pos, "variable %s not declared before assignment", ident.Text)
	}

	node := &UnaryExpression{
		base:     newBase(op.Pos),
		Operator: op.Text,
		Operand:  &Identifier{base: newBase(ident.Pos), Name: ident.Text},
		Prefix:   false,
	}
	if err := p.checkAssignable(sym, node, ident.Pos); err != nil {
		return nil, err
	}
	if _, err := p.expectPunctuation(";"); err != nil {
		return nil, err
	}
	return node, nil
}

// checkAssignable verifies that value can be stored in sym without changing
// its declared type.
func (p *Parser) checkAssignable(sym Symbol, value Node, pos Position) error {
	valueType, err := p.TypeOf(value)
	if err != nil {
		return err
	}
	if valueType != sym.Type {
		return p.errorSemantic(pos, "type mismatch in reassignment: %s is %s but value is %s", sym.Name, sym.Type, valueType)
	}
	return nil
}

func (p *Parser) parseExpressionStatement() (Node, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunctuation(";"); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) parseExitStatement() (Node, error) {
	keyword := p.advance()
	if _, err := p.expectPunctuation("("); err != nil {
		return nil, err
	}
	code, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunctuation(")"); err != nil {
		return nil, err
	}
	codeType, err := p.TypeOf(code)
	if err != nil {
		return nil, err
	}
	if codeType != TypeNumber {
		return nil, p.errorSemantic(code.Pos(), "exit code must be number, got %s", codeType)
	}
	if _, err := p.expectPunctuation(";"); err != nil {
		return nil, err
	}
	return &ExitStatement{base: newBase(keyword.Pos), Body: []Node{code}}, nil
}

// parseIf handles `if (cond) { ... } else { ... }`; `else if` nests another
// IfExpression as the only else statement.
func (p *Parser) parseIf() (*IfExpression, error) {
	keyword := p.advance()
	if _, err := p.expectPunctuation("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunctuation(")"); err != nil {
		return nil, err
	}
	condType, err := p.TypeOf(cond)
	if err != nil {
		return nil, err
	}
	if condType != TypeBool {
		return nil, p.errorSemantic(cond.Pos(), "if condition must be bool, got %s", condType)
	}

	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	node := &IfExpression{base: newBase(keyword.Pos), Condition: cond, Then: then}
	if p.peek().Is(TokenKeyword, "else") {
		p.advance()
		if p.peek().Is(TokenKeyword, "if") {
			nested, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			node.Else = []Node{nested}
		} else {
			alt, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			node.Else = alt
		}
	}
	return node, nil
}

func (p *Parser) parseBlock() ([]Node, error) {
	if _, err := p.expectPunctuation("{"); err != nil {
		return nil, err
	}
	p.depth++
	body := []Node{}
	for {
		tok := p.peek()
		if tok.Is(TokenPunctuation, "}") {
			p.advance()
			p.depth--
			return body, nil
		}
		if tok.Kind == TokenEOF {
			return nil, p.errorExpected(tok, "'}'")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
}
