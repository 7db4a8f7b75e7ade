package nearrank

import (
	"fmt"
	"slices"
	"strings"
)

type (
	litParser struct {
		s string
		i int
	}

	litNode struct {
		leaf bool
		val  any
		kids []litNode
	}
)

// ParseArrayLiteral parses the text form of an array: {0.25,0.5} or {{1,2},{3,4}}.
// Nesting depth becomes the array dimensions; sub-arrays must all have the same shape.
// Elements are kept as strings, NULL becomes a nil element.
func ParseArrayLiteral(s string) (Array, error) {
	p := litParser{s: s}

	p.skip()

	if p.peek() != '{' {
		return Array{}, p.errorf("expected '{'")
	}

	root, err := p.list()
	if err != nil {
		return Array{}, err
	}

	p.skip()

	if p.i != len(p.s) {
		return Array{}, p.errorf("unexpected trailing data")
	}

	dims, err := shape(root)
	if err != nil {
		return Array{}, fmt.Errorf("array literal: %w", err)
	}

	var elems []any
	elems = flatten(root, elems)

	return Array{Dims: dims, Elems: elems}, nil
}

func (p *litParser) value() (litNode, error) {
	p.skip()

	if p.peek() == '{' {
		return p.list()
	}

	return p.scalar()
}

func (p *litParser) list() (n litNode, err error) {
	p.i++ // {

	p.skip()

	if p.peek() == '}' {
		p.i++
		return n, nil
	}

	for {
		k, err := p.value()
		if err != nil {
			return n, err
		}

		n.kids = append(n.kids, k)

		p.skip()

		switch p.peek() {
		case ',':
			p.i++
		case '}':
			p.i++
			return n, nil
		default:
			return n, p.errorf("expected ',' or '}'")
		}
	}
}

func (p *litParser) scalar() (litNode, error) {
	if p.peek() == '"' {
		return p.quoted()
	}

	st := p.i

	for p.i < len(p.s) && !strings.ContainsRune(",{}", rune(p.s[p.i])) {
		p.i++
	}

	tok := strings.TrimSpace(p.s[st:p.i])

	switch {
	case tok == "":
		return litNode{}, p.errorf("empty element")
	case strings.EqualFold(tok, "NULL"):
		return litNode{leaf: true}, nil
	}

	return litNode{leaf: true, val: tok}, nil
}

func (p *litParser) quoted() (litNode, error) {
	p.i++ // "

	var b strings.Builder

	for p.i < len(p.s) {
		c := p.s[p.i]
		p.i++

		switch c {
		case '\\':
			if p.i == len(p.s) {
				return litNode{}, p.errorf("unterminated escape")
			}

			b.WriteByte(p.s[p.i])
			p.i++
		case '"':
			return litNode{leaf: true, val: b.String()}, nil
		default:
			b.WriteByte(c)
		}
	}

	return litNode{}, p.errorf("unterminated quoted element")
}

func (p *litParser) skip() {
	for p.i < len(p.s) && strings.ContainsRune(" \t\r\n", rune(p.s[p.i])) {
		p.i++
	}
}

func (p *litParser) peek() byte {
	if p.i >= len(p.s) {
		return 0
	}

	return p.s[p.i]
}

func (p *litParser) errorf(format string, args ...any) error {
	return fmt.Errorf("array literal at %d: %s", p.i, fmt.Sprintf(format, args...))
}

func shape(n litNode) ([]int, error) {
	if n.leaf {
		return nil, nil
	}

	if len(n.kids) == 0 {
		return []int{0}, nil
	}

	sub, err := shape(n.kids[0])
	if err != nil {
		return nil, err
	}

	for _, k := range n.kids[1:] {
		s, err := shape(k)
		if err != nil {
			return nil, err
		}

		if !slices.Equal(s, sub) {
			return nil, fmt.Errorf("ragged sub-arrays: %v vs %v", sub, s)
		}
	}

	return append([]int{len(n.kids)}, sub...), nil
}

func flatten(n litNode, elems []any) []any {
	if n.leaf {
		return append(elems, n.val)
	}

	for _, k := range n.kids {
		elems = flatten(k, elems)
	}

	return elems
}
