package quark

func (p *Parser) parseExpression() (Node, error) {
	return p.parseBinary(lowestPrec)
}

// parseBinary is the precedence-climbing loop. Operators binding weaker
// than minPrec are left for the caller.
func (p *Parser) parseBinary(minPrec int) (Node, error) {
	p.state = StateInExpression

	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		opTok := p.peek()
		if opTok.Kind != TokenOperator || !isBinaryOperator(opTok.Text) {
			break
		}
		prec := Precedence(opTok.Text)
		if prec < minPrec {
			break
		}
		p.advance()

		nextMin := prec + 1
		if OperatorAssociativity(opTok.Text) == AssocRight {
			nextMin = prec
		}
		right, err := p.parseBinary(nextMin)
		if err != nil {
			return nil, err
		}

		combined := &BinaryExpression{
			base:     newBase(opTok.Pos),
			Left:     left,
			Operator: opTok.Text,
			Right:    right,
		}
		if _, err := p.TypeOf(combined); err != nil {
			return nil, err
		}
		left = combined
	}

	return left, nil
}

func (p *Parser) parsePrimary() (Node, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenPunctuation:
		if tok.Text == "(" {
			return p.parseGroupedExpression()
		}
	case TokenOperator:
		switch tok.Text {
		case "++", "--":
			return p.parsePrefixUpdate()
		case "-", "!":
			return p.parsePrefixExpression()
		}
	case TokenBool, TokenNumber, TokenText:
		return p.parseLiteral()
	case TokenIdentifier:
		return p.parseIdentifier()
	case TokenKeyword:
		if tok.Text == "if" {
			return p.parseIfValue()
		}
	}
	return nil, p.errorExpected(tok, "expression")
}

func (p *Parser) parseGroupedExpression() (Node, error) {
	p.advance()
	inner, err := p.parseBinary(lowestPrec)
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunctuation(")"); err != nil {
		return nil, err
	}
	return inner, nil
}

func (p *Parser) parseIdentifier() (Node, error) {
	tok := p.advance()
	if !p.symbols.Has(tok.Text) {
		return nil, p.errorSemantic(tok.Pos, "variable %s not declared before usage", tok.Text)
	}
	return &Identifier{base: newBase(tok.Pos), Name: tok.Text}, nil
}

// parsePrefixUpdate handles ++x and --x. The operand has to be a declared
// variable since the operator stores into it.
func (p *Parser) parsePrefixUpdate() (Node, error) {
	op := p.advance()
	if tok := p.peek(); tok.Kind != TokenIdentifier {
		return nil, p.errorExpected(tok, "identifier after '"+op.Text+"'")
	}
	operand, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	node := &UnaryExpression{base: newBase(op.Pos), Operator: op.Text, Operand: operand, Prefix: true}
	if _, err := p.TypeOf(node); err != nil {
		return nil, err
	}
	return node, nil
}

func (p *Parser) parsePrefixExpression() (Node, error) {
	op := p.advance()
	operand, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	node := &UnaryExpression{base: newBase(op.Pos), Operator: op.Text, Operand: operand, Prefix: true}
	if _, err := p.TypeOf(node); err != nil {
		return nil, err
	}
	return node, nil
}

// parseIfValue parses an if used as a value; without an else branch it
// would have nothing to produce.
func (p *Parser) parseIfValue() (Node, error) {
	pos := p.peek().Pos
	node, err := p.parseIf()
	if err != nil {
		return nil, err
	}
	if node.Else == nil {
		return nil, newError(SyntaxError, pos, "if used as a value requires an else branch")
	}
	if _, err := p.TypeOf(node); err != nil {
		return nil, err
	}
	return node, nil
}
