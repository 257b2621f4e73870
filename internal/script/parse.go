package script

import "unicode"

// Parse reads one script line into a list event of its top-level tokens.
// Nested lists open with "(" or "[" and must close with the matching
// delimiter. Double quotes group a single atom and honor \" \\ \n \t
// escapes. A "--" outside quotes starts a comment that runs to the end of
// the line. An empty or comment-only line parses to an empty list.
func Parse(line string) (Event, error) {
	p := &parser{input: []rune(line)}
	items, err := p.parseItems(0)
	if err != nil {
		return Event{}, err
	}
	return List(items...), nil
}

type parser struct {
	input []rune
	pos   int
}

func (p *parser) parseItems(closer rune) ([]Event, error) {
	var items []Event
	for {
		p.skipBlank()
		if p.done() {
			if closer != 0 {
				return nil, malformedf(p.pos, "unterminated list, expected %q", string(closer))
			}
			return items, nil
		}
		r := p.peek()
		switch {
		case r == closer && closer != 0:
			p.pos++
			return items, nil
		case r == ')' || r == ']':
			return nil, malformedf(p.pos, "unexpected %q", string(r))
		case r == '(':
			p.pos++
			inner, err := p.parseItems(')')
			if err != nil {
				return nil, err
			}
			items = append(items, List(inner...))
		case r == '[':
			p.pos++
			inner, err := p.parseItems(']')
			if err != nil {
				return nil, err
			}
			items = append(items, List(inner...))
		case r == '"':
			atom, err := p.parseQuoted()
			if err != nil {
				return nil, err
			}
			items = append(items, atom)
		default:
			items = append(items, p.parseBare())
		}
	}
}

// skipBlank advances past whitespace and comments. A comment starts with
// "--" and consumes the rest of the line.
func (p *parser) skipBlank() {
	for !p.done() {
		r := p.peek()
		if unicode.IsSpace(r) {
			p.pos++
			continue
		}
		if p.commentStart() {
			p.pos = len(p.input)
			return
		}
		return
	}
}

func (p *parser) commentStart() bool {
	return p.peek() == '-' && p.pos+1 < len(p.input) && p.input[p.pos+1] == '-'
}

func (p *parser) parseQuoted() (Event, error) {
	start := p.pos
	p.pos++ // opening quote
	var out []rune
	for !p.done() {
		r := p.next()
		switch r {
		case '"':
			return Atom(string(out)), nil
		case '\\':
			if p.done() {
				return Event{}, malformedf(start, "unterminated string")
			}
			esc := p.next()
			switch esc {
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			default:
				return Event{}, malformedf(p.pos-1, "invalid escape %q", `\`+string(esc))
			}
		default:
			out = append(out, r)
		}
	}
	return Event{}, malformedf(start, "unterminated string")
}

func (p *parser) parseBare() Event {
	start := p.pos
	for !p.done() && !isDelimiter(p.peek()) && !p.commentStart() {
		p.pos++
	}
	return Atom(string(p.input[start:p.pos]))
}

func (p *parser) peek() rune {
	return p.input[p.pos]
}

func (p *parser) next() rune {
	r := p.input[p.pos]
	p.pos++
	return r
}

func (p *parser) done() bool {
	return p.pos >= len(p.input)
}

func isDelimiter(r rune) bool {
	switch r {
	case '(', ')', '[', ']', '"':
		return true
	}
	return unicode.IsSpace(r)
}
