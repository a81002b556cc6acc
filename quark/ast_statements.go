package quark

// VariableDeclaration introduces a name. Body holds exactly one node, the
// initializer.
type VariableDeclaration struct {
	base
	Type Type
	Name string
	Body []Node
}

func (s *VariableDeclaration) Kind() NodeKind { return KindVariableDeclaration }

func (s *VariableDeclaration) Initializer() Node {
	if len(s.Body) == 0 {
		return nil
	}
	return s.Body[0]
}

// VariableReassignment stores a new value. Compound assignments arrive here
// already expanded into a BinaryExpression over the current value.
type VariableReassignment struct {
	base
	Name  string
	Value Node
}

func (s *VariableReassignment) Kind() NodeKind { return KindVariableReassignment }

type IfExpression struct {
	base
	Condition Node
	Then      []Node
	Else      []Node
}

func (s *IfExpression) Kind() NodeKind { return KindIfExpression }

// ExitStatement ends the program. Body holds exactly one node, the exit code.
type ExitStatement struct {
	base
	Body []Node
}

func (s *ExitStatement) Kind() NodeKind { return KindExitStatement }

func (s *ExitStatement) Code() Node {
	if len(s.Body) == 0 {
		return nil
	}
	return s.Body[0]
}

type EndOfInput struct {
	base
}

func (s *EndOfInput) Kind() NodeKind { return KindEndOfInput }
