package formula

import (
	"fmt"
	"math"
)

// node is a parsed expression
type node interface {
	eval(env map[string]float64) (float64, error)
}

type numberNode struct {
	value float64
}

type identNode struct {
	name string
}

type unaryNode struct {
	op      string
	operand node
}

type binaryNode struct {
	op          string
	left, right node
}

type ternaryNode struct {
	cond, then, otherwise node
}

type callNode struct {
	name string
	fn   mathFunc
	args []node
}

type mathFunc struct {
	minArgs, maxArgs int
	apply            func(args []float64) float64
}

// maxArgs of -1 means variadic
var mathFuncs = map[string]mathFunc{
	"Math.max": {minArgs: 1, maxArgs: -1, apply: func(args []float64) float64 {
		out := args[0]
		for _, a := range args[1:] {
			out = math.Max(out, a)
		}
		return out
	}},
	"Math.min": {minArgs: 1, maxArgs: -1, apply: func(args []float64) float64 {
		out := args[0]
		for _, a := range args[1:] {
			out = math.Min(out, a)
		}
		return out
	}},
	"Math.floor": {minArgs: 1, maxArgs: 1, apply: func(args []float64) float64 { return math.Floor(args[0]) }},
	"Math.ceil":  {minArgs: 1, maxArgs: 1, apply: func(args []float64) float64 { return math.Ceil(args[0]) }},
	"Math.round": {minArgs: 1, maxArgs: 1, apply: func(args []float64) float64 { return math.Floor(args[0] + 0.5) }},
	"Math.abs":   {minArgs: 1, maxArgs: 1, apply: func(args []float64) float64 { return math.Abs(args[0]) }},
}

// parser is a recursive-descent parser over the token stream. Precedence, low to high:
// ternary, ||, &&, equality, comparison, additive, multiplicative, unary, primary.
type parser struct {
	tokens []token
	pos    int
	known  map[string]bool
}

func parse(src string, known map[string]bool) (node, error) {
	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens, known: known}
	n, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, fmt.Errorf("unexpected %q at %d", tok.text, tok.pos)
	}
	return n, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) acceptOperator(ops ...string) (string, bool) {
	tok := p.peek()
	if tok.kind != tokenOperator {
		return "", false
	}
	for _, op := range ops {
		if tok.text == op {
			p.pos++
			return op, true
		}
	}
	return "", false
}

func (p *parser) parseTernary() (node, error) {
	cond, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if _, ok := p.acceptOperator("?"); !ok {
		return cond, nil
	}
	then, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if _, ok := p.acceptOperator(":"); !ok {
		tok := p.peek()
		return nil, fmt.Errorf("expected ':' at %d", tok.pos)
	}
	otherwise, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return &ternaryNode{cond: cond, then: then, otherwise: otherwise}, nil
}

var binaryLevels = [][]string{
	{"||"},
	{"&&"},
	{"===", "!==", "==", "!="},
	{"<=", ">=", "<", ">"},
	{"+", "-"},
	{"*", "/", "%"},
}

func (p *parser) parseBinary(level int) (node, error) {
	if level >= len(binaryLevels) {
		return p.parseUnary()
	}
	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.acceptOperator(binaryLevels[level]...)
		if !ok {
			return left, nil
		}
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: op, left: left, right: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	if op, ok := p.acceptOperator("-", "+", "!"); ok {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: op, operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.next()
	switch tok.kind {
	case tokenNumber:
		return &numberNode{value: tok.value}, nil
	case tokenLParen:
		inner, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokenRParen {
			return nil, fmt.Errorf("expected ')' at %d", closing.pos)
		}
		return inner, nil
	case tokenIdent:
		if p.peek().kind == tokenLParen {
			return p.parseCall(tok)
		}
		if !p.known[tok.text] {
			return nil, fmt.Errorf("unknown identifier %q at %d", tok.text, tok.pos)
		}
		return &identNode{name: tok.text}, nil
	case tokenEOF:
		return nil, fmt.Errorf("unexpected end of formula")
	default:
		return nil, fmt.Errorf("unexpected %q at %d", tok.text, tok.pos)
	}
}

func (p *parser) parseCall(name token) (node, error) {
	fn, ok := mathFuncs[name.text]
	if !ok {
		return nil, fmt.Errorf("unknown function %q at %d", name.text, name.pos)
	}
	p.next() // (

	var args []node
	if p.peek().kind != tokenRParen {
		for {
			arg, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().kind != tokenComma {
				break
			}
			p.next()
		}
	}
	if closing := p.next(); closing.kind != tokenRParen {
		return nil, fmt.Errorf("expected ')' at %d", closing.pos)
	}

	if len(args) < fn.minArgs || (fn.maxArgs >= 0 && len(args) > fn.maxArgs) {
		return nil, fmt.Errorf("%s called with %d arguments", name.text, len(args))
	}
	return &callNode{name: name.text, fn: fn, args: args}, nil
}

func (n *numberNode) eval(map[string]float64) (float64, error) {
	return n.value, nil
}

func (n *identNode) eval(env map[string]float64) (float64, error) {
	v, ok := env[n.name]
	if !ok {
		return 0, fmt.Errorf("%s is not available", n.name)
	}
	return v, nil
}

func (n *unaryNode) eval(env map[string]float64) (float64, error) {
	v, err := n.operand.eval(env)
	if err != nil {
		return 0, err
	}
	switch n.op {
	case "-":
		return -v, nil
	case "+":
		return v, nil
	default: // !
		return boolValue(!truthy(v)), nil
	}
}

func (n *binaryNode) eval(env map[string]float64) (float64, error) {
	left, err := n.left.eval(env)
	if err != nil {
		return 0, err
	}

	// && and || short-circuit and yield an operand
	switch n.op {
	case "&&":
		if !truthy(left) {
			return left, nil
		}
		return n.right.eval(env)
	case "||":
		if truthy(left) {
			return left, nil
		}
		return n.right.eval(env)
	}

	right, err := n.right.eval(env)
	if err != nil {
		return 0, err
	}

	switch n.op {
	case "+":
		return left + right, nil
	case "-":
		return left - right, nil
	case "*":
		return left * right, nil
	case "/":
		if right == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return left / right, nil
	case "%":
		if right == 0 {
			return 0, fmt.Errorf("modulo by zero")
		}
		return math.Mod(left, right), nil
	case "<":
		return boolValue(left < right), nil
	case "<=":
		return boolValue(left <= right), nil
	case ">":
		return boolValue(left > right), nil
	case ">=":
		return boolValue(left >= right), nil
	case "==", "===":
		return boolValue(left == right), nil
	case "!=", "!==":
		return boolValue(left != right), nil
	default:
		return 0, fmt.Errorf("unknown operator %q", n.op)
	}
}

func (n *ternaryNode) eval(env map[string]float64) (float64, error) {
	cond, err := n.cond.eval(env)
	if err != nil {
		return 0, err
	}
	if truthy(cond) {
		return n.then.eval(env)
	}
	return n.otherwise.eval(env)
}

func (n *callNode) eval(env map[string]float64) (float64, error) {
	args := make([]float64, len(n.args))
	for i, a := range n.args {
		v, err := a.eval(env)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	return n.fn.apply(args), nil
}

func truthy(v float64) bool {
	return v != 0 && !math.IsNaN(v)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
