package selector

import "fmt"

// attrOp is the comparison performed by an attribute test.
type attrOp int

const (
	opExists attrOp = iota
	opEquals
	opNotEquals
)

// attrTest is a single [key], [key=value] or [key!=value] test.
type attrTest struct {
	key   string
	op    attrOp
	value string
}

// compound is an optional type constraint plus attribute tests, e.g.
// NetworkRule[exception=true].
type compound struct {
	// nodeType is the type constraint; "" means universal ("*" or absent).
	nodeType string
	attrs    []attrTest
}

// combinator relates two adjacent compounds in a chain.
type combinator int

const (
	combDescendant combinator = iota
	combChild
)

// chain is a sequence of compounds joined by combinators, matched
// right-to-left against a node and its ancestry.
type chain struct {
	compounds   []compound
	combinators []combinator // len(compounds)-1, combinators[i] joins i and i+1
}

// parser consumes tokens and builds selector chains.
type parser struct {
	tokens  []Token
	current int
}

func newParser(tokens []Token) *parser {
	return &parser{tokens: tokens}
}

func (p *parser) peek() Token {
	return p.tokens[p.current]
}

func (p *parser) next() Token {
	t := p.tokens[p.current]
	if t.Type != TokenEOF {
		p.current++
	}
	return t
}

func (p *parser) skipWhitespace() {
	for p.peek().Type == TokenDescendant {
		p.current++
	}
}

// parse builds the full selector list.
func (p *parser) parse() ([]chain, error) {
	var chains []chain

	for {
		p.skipWhitespace()
		ch, err := p.parseChain()
		if err != nil {
			return nil, err
		}
		chains = append(chains, ch)

		p.skipWhitespace()
		switch p.peek().Type {
		case TokenComma:
			p.next()
		case TokenEOF:
			return chains, nil
		default:
			return nil, fmt.Errorf("unexpected token %s at position %d", p.peek(), p.peek().Position)
		}
	}
}

// parseChain parses compounds joined by combinators until "," or EOF.
func (p *parser) parseChain() (chain, error) {
	var ch chain

	comp, err := p.parseCompound()
	if err != nil {
		return chain{}, err
	}
	ch.compounds = append(ch.compounds, comp)

	for {
		comb, more, err := p.parseCombinator()
		if err != nil {
			return chain{}, err
		}
		if !more {
			return ch, nil
		}

		comp, err := p.parseCompound()
		if err != nil {
			return chain{}, err
		}
		ch.combinators = append(ch.combinators, comb)
		ch.compounds = append(ch.compounds, comp)
	}
}

// parseCombinator decides whether another compound follows and how it binds.
// Returns more=false when the chain ends (",", EOF).
func (p *parser) parseCombinator() (combinator, bool, error) {
	sawSpace := false
	for p.peek().Type == TokenDescendant {
		sawSpace = true
		p.current++
	}

	switch p.peek().Type {
	case TokenChild:
		p.next()
		p.skipWhitespace()
		return combChild, true, nil
	case TokenComma, TokenEOF:
		return 0, false, nil
	default:
		if !sawSpace {
			return 0, false, fmt.Errorf("unexpected token %s at position %d", p.peek(), p.peek().Position)
		}
		return combDescendant, true, nil
	}
}

// parseCompound parses [type|*] followed by attribute tests.
func (p *parser) parseCompound() (compound, error) {
	var comp compound
	sawAnything := false

	switch p.peek().Type {
	case TokenIdent:
		comp.nodeType = p.next().Value
		sawAnything = true
	case TokenStar:
		p.next()
		sawAnything = true
	}

	for p.peek().Type == TokenLBracket {
		attr, err := p.parseAttribute()
		if err != nil {
			return compound{}, err
		}
		comp.attrs = append(comp.attrs, attr)
		sawAnything = true
	}

	if !sawAnything {
		return compound{}, fmt.Errorf("expected selector at position %d, got %s", p.peek().Position, p.peek())
	}
	return comp, nil
}

// parseAttribute parses "[" ident (("="|"!=") value)? "]".
func (p *parser) parseAttribute() (attrTest, error) {
	p.next() // consume "["
	p.skipWhitespace()

	keyTok := p.next()
	if keyTok.Type != TokenIdent {
		return attrTest{}, fmt.Errorf("expected attribute name at position %d", keyTok.Position)
	}
	attr := attrTest{key: keyTok.Value, op: opExists}

	p.skipWhitespace()
	switch p.peek().Type {
	case TokenEquals:
		p.next()
		attr.op = opEquals
	case TokenNotEquals:
		p.next()
		attr.op = opNotEquals
	case TokenRBracket:
		p.next()
		return attr, nil
	default:
		return attrTest{}, fmt.Errorf("unexpected token %s in attribute at position %d", p.peek(), p.peek().Position)
	}

	p.skipWhitespace()
	valTok := p.next()
	if valTok.Type != TokenIdent && valTok.Type != TokenString {
		return attrTest{}, fmt.Errorf("expected attribute value at position %d", valTok.Position)
	}
	attr.value = valTok.Value

	p.skipWhitespace()
	if closing := p.next(); closing.Type != TokenRBracket {
		return attrTest{}, fmt.Errorf("expected ']' at position %d", closing.Position)
	}
	return attr, nil
}
