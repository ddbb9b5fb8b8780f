package regexir

import (
	"fmt"
)

// Parse builds a regexir AST from pattern using a recursive-descent parser
// over the grammar:
//
//	alt      := concat ('|' concat)*
//	concat   := repeat*
//	repeat   := atom ('*' | '+' | '?')*
//	atom     := literal | '.' | class | group
//	group    := '(' alt ')'
//	class    := '[' '^'? classItem+ ']'
//
// Parse returns ErrUnsupported (wrapped with detail) if pattern uses a
// construct with no finite-automaton equivalent: lookaround assertions,
// backreferences, named group syntax, atomic groups, or inline flag groups.
// Non-capturing groups `(?:...)` are parsed like plain groups.
func Parse(pattern string) (*Node, error) {
	p := &parser{src: []rune(pattern)}
	node, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("regexir: unexpected %q at position %d", p.src[p.pos], p.pos)
	}
	return node, nil
}

type parser struct {
	src []rune
	pos int
}

func (p *parser) peek() (rune, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *parser) advance() rune {
	r := p.src[p.pos]
	p.pos++
	return r
}

func (p *parser) parseAlt() (*Node, error) {
	first, err := p.parseConcat()
	if err != nil {
		return nil, err
	}

	branches := []*Node{first}
	for {
		c, ok := p.peek()
		if !ok || c != '|' {
			break
		}
		p.advance()
		next, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		branches = append(branches, next)
	}

	if len(branches) == 1 {
		return branches[0], nil
	}
	return &Node{Kind: KindAlt, Children: branches}, nil
}

func (p *parser) parseConcat() (*Node, error) {
	var parts []*Node
	for {
		c, ok := p.peek()
		if !ok || c == '|' || c == ')' {
			break
		}
		n, err := p.parseRepeat()
		if err != nil {
			return nil, err
		}
		parts = append(parts, n)
	}

	if len(parts) == 0 {
		return &Node{Kind: KindEpsilon}, nil
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return &Node{Kind: KindConcat, Children: parts}, nil
}

func (p *parser) parseRepeat() (*Node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		c, ok := p.peek()
		if !ok {
			break
		}
		switch c {
		case '*':
			p.advance()
			atom = &Node{Kind: KindStar, Children: []*Node{atom}}
		case '+':
			p.advance()
			atom = &Node{Kind: KindPlus, Children: []*Node{atom}}
		case '?':
			p.advance()
			atom = &Node{Kind: KindOptional, Children: []*Node{atom}}
		default:
			return atom, nil
		}
	}
	return atom, nil
}

func (p *parser) parseAtom() (*Node, error) {
	c, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("regexir: unexpected end of pattern")
	}

	switch c {
	case '.':
		p.advance()
		return &Node{Kind: KindDot}, nil
	case '(':
		return p.parseGroup()
	case '[':
		return p.parseClass()
	case '\\':
		p.advance()
		return p.parseEscape()
	default:
		p.advance()
		return &Node{Kind: KindChar, Char: c}, nil
	}
}

func (p *parser) parseGroup() (*Node, error) {
	p.advance() // consume '('

	if c, ok := p.peek(); ok && c == '?' {
		// Peek one further to classify the extension.
		if p.pos+1 < len(p.src) {
			switch p.src[p.pos+1] {
			case '=', '!':
				return nil, fmt.Errorf("%w: lookahead assertion", ErrUnsupported)
			case '<':
				if p.pos+2 < len(p.src) && (p.src[p.pos+2] == '=' || p.src[p.pos+2] == '!') {
					return nil, fmt.Errorf("%w: lookbehind assertion", ErrUnsupported)
				}
				return nil, fmt.Errorf("%w: named capture group", ErrUnsupported)
			case 'P':
				return nil, fmt.Errorf("%w: named capture group", ErrUnsupported)
			case '>':
				return nil, fmt.Errorf("%w: atomic group", ErrUnsupported)
			case ':':
				p.pos += 2 // consume "?:"
				inner, err := p.parseAlt()
				if err != nil {
					return nil, err
				}
				if err := p.expect(')'); err != nil {
					return nil, err
				}
				return inner, nil
			default:
				return nil, fmt.Errorf("%w: inline flag group", ErrUnsupported)
			}
		}
	}

	inner, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return inner, nil
}

func (p *parser) expect(r rune) error {
	c, ok := p.peek()
	if !ok || c != r {
		return fmt.Errorf("regexir: expected %q at position %d", r, p.pos)
	}
	p.advance()
	return nil
}

func (p *parser) parseEscape() (*Node, error) {
	c, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("regexir: dangling escape at end of pattern")
	}
	p.advance()

	switch c {
	case 'd':
		return &Node{Kind: KindClass, Ranges: []RuneRange{{'0', '9'}}}, nil
	case 'D':
		return &Node{Kind: KindClass, Negated: true, Ranges: []RuneRange{{'0', '9'}}}, nil
	case 'w':
		return &Node{Kind: KindClass, Ranges: wordRanges}, nil
	case 'W':
		return &Node{Kind: KindClass, Negated: true, Ranges: wordRanges}, nil
	case 's':
		return &Node{Kind: KindClass, Ranges: spaceRanges}, nil
	case 'S':
		return &Node{Kind: KindClass, Negated: true, Ranges: spaceRanges}, nil
	case 'n':
		return &Node{Kind: KindChar, Char: '\n'}, nil
	case 'r':
		return &Node{Kind: KindChar, Char: '\r'}, nil
	case 't':
		return &Node{Kind: KindChar, Char: '\t'}, nil
	case '0':
		return &Node{Kind: KindChar, Char: 0}, nil
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return nil, fmt.Errorf("%w: backreference", ErrUnsupported)
	default:
		return &Node{Kind: KindChar, Char: c}, nil
	}
}

var wordRanges = []RuneRange{{'a', 'z'}, {'A', 'Z'}, {'0', '9'}, {'_', '_'}}
var spaceRanges = []RuneRange{{' ', ' '}, {'\t', '\t'}, {'\n', '\n'}, {'\r', '\r'}, {'\f', '\f'}, {'\v', '\v'}}

func (p *parser) parseClass() (*Node, error) {
	p.advance() // consume '['

	node := &Node{Kind: KindClass}
	if c, ok := p.peek(); ok && c == '^' {
		node.Negated = true
		p.advance()
	}

	first := true
	for {
		c, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("regexir: unterminated character class")
		}
		if c == ']' && !first {
			p.advance()
			break
		}
		first = false

		lo, err := p.parseClassAtom()
		if err != nil {
			return nil, err
		}

		if c2, ok := p.peek(); ok && c2 == '-' && p.pos+1 < len(p.src) && p.src[p.pos+1] != ']' {
			p.advance() // consume '-'
			hi, err := p.parseClassAtom()
			if err != nil {
				return nil, err
			}
			node.Ranges = append(node.Ranges, RuneRange{Lo: lo, Hi: hi})
		} else {
			node.Ranges = append(node.Ranges, RuneRange{Lo: lo, Hi: lo})
		}
	}

	return node, nil
}

func (p *parser) parseClassAtom() (rune, error) {
	c, ok := p.peek()
	if !ok {
		return 0, fmt.Errorf("regexir: unterminated character class")
	}
	p.advance()
	if c != '\\' {
		return c, nil
	}

	esc, ok := p.peek()
	if !ok {
		return 0, fmt.Errorf("regexir: dangling escape in character class")
	}
	p.advance()
	switch esc {
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	default:
		return esc, nil
	}
}
