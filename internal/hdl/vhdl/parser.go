package vhdl

import (
	"strings"

	"github.com/orbit-hdl/orbit/internal/hdl"
)

// reserved words the instantiation scanner must never mistake for a
// component/entity name.
var reserved = map[string]bool{
	"process": true, "begin": true, "end": true, "if": true, "for": true,
	"case": true, "generate": true, "block": true, "component": true,
	"entity": true, "configuration": true, "others": true, "when": true,
	"generic": true, "port": true, "map": true, "is": true, "variable": true,
	"signal": true, "constant": true, "type": true, "function": true,
	"procedure": true, "use": true, "library": true, "architecture": true,
	"of": true, "assert": true, "report": true, "wait": true, "null": true,
}

// Parser holds the symbols extracted from one VHDL source file.
type Parser struct {
	symbols  []hdl.DesignUnit
	warnings []error
}

// ReadLazy tokenizes and parses src, silently dropping any symbol whose
// construct it fails to recognize (spec.md §4.1 "never fails").
func ReadLazy(file, src string) *Parser {
	p := &Parser{}
	p.parse(file, Tokenize(file, src), false)
	return p
}

// Read parses src, failing on the first unrecoverable error (an
// unterminated construct, per spec.md §4.1).
func Read(file, src string) (*Parser, error) {
	p := &Parser{}
	if err := p.parse(file, Tokenize(file, src), true); err != nil {
		return nil, err
	}
	return p, nil
}

// IntoSymbols returns the design units recognized in the file.
func (p *Parser) IntoSymbols() []hdl.DesignUnit {
	return p.symbols
}

// Warnings returns the constructs ReadLazy silently skipped.
func (p *Parser) Warnings() []error {
	return p.warnings
}

func (p *Parser) parse(file string, toks []hdl.Token, strict bool) error {
	ts := hdl.NewTokenStream(toks)
	for {
		t, ok := ts.Peek()
		if !ok {
			return nil
		}
		switch {
		case t.IsWordCI("entity"):
			unit, err := parseEntity(file, ts)
			if err != nil {
				if strict {
					return err
				}
				p.warnings = append(p.warnings, err)
				continue
			}
			p.symbols = append(p.symbols, unit)
		case t.IsWordCI("architecture"):
			unit, err := parseArchitecture(file, ts)
			if err != nil {
				if strict {
					return err
				}
				p.warnings = append(p.warnings, err)
				continue
			}
			p.symbols = append(p.symbols, unit)
		case t.IsWordCI("package"):
			unit, err := parsePackage(file, ts)
			if err != nil {
				if strict {
					return err
				}
				p.warnings = append(p.warnings, err)
				continue
			}
			p.symbols = append(p.symbols, unit)
		case t.IsWordCI("configuration"):
			unit, err := parseConfiguration(file, ts)
			if err != nil {
				if strict {
					return err
				}
				p.warnings = append(p.warnings, err)
				continue
			}
			p.symbols = append(p.symbols, unit)
		default:
			// anything else at file scope is silently skipped a token at a
			// time (spec.md §4.1 "anything else — silently skipped").
			ts.Next()
		}
	}
}

// parseEntity handles: entity <name> is [generic(...);] [port(...);] end [entity] [<name>] ;
func parseEntity(file string, ts *hdl.TokenStream) (hdl.DesignUnit, error) {
	kwTok, _ := ts.Next() // consume "entity"
	nameTok, ok := ts.Next()
	if !ok || nameTok.Kind != hdl.TokWord {
		return hdl.DesignUnit{}, &hdl.ParseError{Pos: kwTok.Pos, Code: "ExpectingIdentifier", Message: "expecting entity name"}
	}
	name := hdl.NewIdentifier(nameTok.Text, hdl.VHDL, nameTok.Pos)

	var ports []hdl.Port
	for {
		t, ok := ts.Peek()
		if !ok {
			return hdl.DesignUnit{}, &hdl.ParseError{Pos: kwTok.Pos, Code: hdl.ExpectingOperator, Message: "unterminated entity declaration"}
		}
		if t.IsWordCI("port") {
			ts.Next()
			ports = parsePortClause(ts)
			continue
		}
		if t.IsWordCI("generic") {
			ts.Next()
			// skip the generic clause's parenthesized list and trailing ';'
			consumeParenGroup(ts)
			consumeOptSemi(ts)
			continue
		}
		if t.IsWordCI("end") {
			consumeEndStatement(ts)
			break
		}
		ts.Next()
	}

	return hdl.DesignUnit{
		Kind:  hdl.KindEntity,
		Name:  name,
		Pos:   nameTok.Pos,
		File:  file,
		Ports: ports,
	}, nil
}

// parsePortClause parses "(" port-list ")" ";" into Port values. Grammar
// handled: comma-separated names, ':', direction keyword, type mark — one
// group per ';'-separated clause inside the parens.
func parsePortClause(ts *hdl.TokenStream) []hdl.Port {
	// expect '('
	t, ok := ts.Peek()
	if !ok || !t.Is(hdl.TokSymbol, "(") {
		return nil
	}
	ts.Next()

	var ports []hdl.Port
	var names []string
	depth := 1
	expectingDirection := false
	for depth > 0 {
		t, ok := ts.Next()
		if !ok {
			break
		}
		switch {
		case t.Kind == hdl.TokSymbol && t.Text == "(":
			depth++
		case t.Kind == hdl.TokSymbol && t.Text == ")":
			depth--
		case t.Kind == hdl.TokSymbol && t.Text == ":" && depth == 1:
			expectingDirection = true
		case t.Kind == hdl.TokSymbol && t.Text == ";" && depth == 1:
			names = nil
			expectingDirection = false
		case t.Kind == hdl.TokWord && depth == 1 && !expectingDirection:
			names = append(names, t.Text)
		case t.Kind == hdl.TokWord && depth == 1 && expectingDirection:
			dir := strings.ToLower(t.Text)
			if dir == "in" || dir == "out" || dir == "inout" || dir == "buffer" || dir == "linkage" {
				for _, n := range names {
					ports = append(ports, hdl.Port{Name: n, Direction: dir})
				}
			}
			expectingDirection = false
			names = nil
		}
	}
	consumeOptSemi(ts)
	return ports
}

// parseArchitecture handles:
// architecture <name> of <owner> is <decls> begin <stmts> end [architecture] [<name>] ;
func parseArchitecture(file string, ts *hdl.TokenStream) (hdl.DesignUnit, error) {
	kwTok, _ := ts.Next()
	nameTok, ok := ts.Next()
	if !ok || nameTok.Kind != hdl.TokWord {
		return hdl.DesignUnit{}, &hdl.ParseError{Pos: kwTok.Pos, Code: "ExpectingIdentifier", Message: "expecting architecture name"}
	}
	ofTok, ok := ts.Next()
	if !ok || !ofTok.IsWordCI("of") {
		return hdl.DesignUnit{}, &hdl.ParseError{Pos: nameTok.Pos, Code: "ExpectingOf", Message: "expecting 'of' after architecture name"}
	}
	ownerTok, ok := ts.Next()
	if !ok || ownerTok.Kind != hdl.TokWord {
		return hdl.DesignUnit{}, &hdl.ParseError{Pos: ofTok.Pos, Code: "ExpectingIdentifier", Message: "expecting owning entity name"}
	}

	var deps []hdl.Identifier
	seen := map[string]bool{}
	addDep := func(tok hdl.Token) {
		if reserved[strings.ToLower(tok.Text)] {
			return
		}
		key := strings.ToLower(tok.Text)
		if seen[key] {
			return
		}
		seen[key] = true
		deps = append(deps, hdl.NewIdentifier(tok.Text, hdl.VHDL, tok.Pos))
	}

	// skip to 'begin', then scan statements for instantiations until the
	// matching 'end'.
	depth := 0
	inBody := false
	for {
		t, ok := ts.Peek()
		if !ok {
			return hdl.DesignUnit{}, &hdl.ParseError{Pos: kwTok.Pos, Code: hdl.ExpectingOperator, Message: "unterminated architecture body"}
		}
		if t.Kind == hdl.TokSymbol && t.Text == "(" {
			depth++
			ts.Next()
			continue
		}
		if t.Kind == hdl.TokSymbol && t.Text == ")" {
			if depth > 0 {
				depth--
			}
			ts.Next()
			continue
		}
		if depth == 0 && t.IsWordCI("begin") {
			inBody = true
			ts.Next()
			continue
		}
		if depth == 0 && t.IsWordCI("end") {
			if n, ok := ts.PeekAt(1); ok && n.Kind == hdl.TokWord && nestedEndKeywords[strings.ToLower(n.Text)] {
				ts.SkipTo(";")
				continue
			}
			consumeEndStatement(ts)
			break
		}
		if !inBody {
			ts.Next()
			continue
		}

		// Candidate for a labeled concurrent statement: WORD ':' ...
		if t.Kind == hdl.TokWord {
			nxt, hasNxt := ts.PeekAt(1)
			if hasNxt && nxt.Kind == hdl.TokSymbol && nxt.Text == ":" {
				ts.Next() // label
				ts.Next() // ':'
				scanInstantiation(ts, addDep)
				continue
			}
		}
		ts.Next()
	}

	return hdl.DesignUnit{
		Kind:         hdl.KindArchitecture,
		Name:         hdl.NewIdentifier(nameTok.Text, hdl.VHDL, nameTok.Pos),
		Owner:        hdl.NewIdentifier(ownerTok.Text, hdl.VHDL, ownerTok.Pos),
		Pos:          nameTok.Pos,
		File:         file,
		Instantiates: deps,
	}, nil
}

// scanInstantiation consumes tokens after a statement label's ':' looking
// for component/direct-entity instantiation, reporting any instantiated
// design-unit identifier to addDep, then skips to the statement's ';'.
// Anything it doesn't recognize (a process, assignment, assertion, ...) is
// simply skipped without error, matching the extractor's lenient mandate.
func scanInstantiation(ts *hdl.TokenStream, addDep func(hdl.Token)) {
	t, ok := ts.Peek()
	if !ok {
		return
	}
	switch {
	case t.IsWordCI("process"):
		// not an instantiation; skip the whole process block including its
		// own nested 'end's ("end if;", "end loop;", ...) up to "end process".
		skipProcess(ts)
		return
	case t.IsWordCI("entity"):
		ts.Next()
		nameTok, ok := ts.Next()
		if !ok {
			return
		}
		// selected name: lib.unit — keep the rightmost segment.
		for {
			p, ok := ts.Peek()
			if ok && p.Kind == hdl.TokSymbol && p.Text == "." {
				ts.Next()
				nameTok, ok = ts.Next()
				if !ok {
					break
				}
				continue
			}
			break
		}
		addDep(nameTok)
	case t.IsWordCI("component"):
		ts.Next()
		nameTok, ok := ts.Next()
		if ok {
			addDep(nameTok)
		}
	case t.Kind == hdl.TokWord && !reserved[strings.ToLower(t.Text)]:
		// direct component-name instantiation: `label: counter generic map(...) port map(...);`
		// the name counts as an instantiation only when it is followed
		// directly by a "generic"/"port" map or by ';'.
		nameTok, _ := ts.Next()
		if n, ok := ts.Peek(); ok && (n.IsWordCI("generic") || n.IsWordCI("port") || n.Is(hdl.TokSymbol, ";")) {
			addDep(nameTok)
		}
	default:
		// e.g. an `if`/`for`/`case` generate statement, an assignment — not
		// an instantiation we model; fall through to the generic skip.
	}
	ts.SkipTo(";")
}

func skipProcess(ts *hdl.TokenStream) {
	ts.Next() // 'process'
	depth := 0
	for {
		t, ok := ts.Next()
		if !ok {
			return
		}
		if t.Kind == hdl.TokSymbol && t.Text == "(" {
			depth++
		}
		if t.Kind == hdl.TokSymbol && t.Text == ")" {
			if depth > 0 {
				depth--
			}
		}
		if t.IsWordCI("end") {
			// a nested "end if;"/"end loop;"/... is skipped; "end process
			// [label];" closes the process.
			if n, ok := ts.Peek(); !ok || !n.IsWordCI("process") {
				ts.SkipTo(";")
				continue
			}
			ts.Next()
			if n, ok := ts.Peek(); ok && n.Kind == hdl.TokWord {
				ts.Next()
			}
			consumeOptSemi(ts)
			return
		}
	}
}

func parsePackage(file string, ts *hdl.TokenStream) (hdl.DesignUnit, error) {
	kwTok, _ := ts.Next()
	// "package body <name> is" vs "package <name> is" — treat both as
	// Package kind; body contributes to the same owner's file set in the
	// index layer by identifier match.
	if n, ok := ts.Peek(); ok && n.IsWordCI("body") {
		ts.Next()
	}
	nameTok, ok := ts.Next()
	if !ok || nameTok.Kind != hdl.TokWord {
		return hdl.DesignUnit{}, &hdl.ParseError{Pos: kwTok.Pos, Code: "ExpectingIdentifier", Message: "expecting package name"}
	}
	skipToMatchingEnd(ts)
	return hdl.DesignUnit{
		Kind: hdl.KindPackage,
		Name: hdl.NewIdentifier(nameTok.Text, hdl.VHDL, nameTok.Pos),
		Pos:  nameTok.Pos,
		File: file,
	}, nil
}

func parseConfiguration(file string, ts *hdl.TokenStream) (hdl.DesignUnit, error) {
	kwTok, _ := ts.Next()
	nameTok, ok := ts.Next()
	if !ok || nameTok.Kind != hdl.TokWord {
		return hdl.DesignUnit{}, &hdl.ParseError{Pos: kwTok.Pos, Code: "ExpectingIdentifier", Message: "expecting configuration name"}
	}
	var owner hdl.Identifier
	if of, ok := ts.Peek(); ok && of.IsWordCI("of") {
		ts.Next()
		if ownerTok, ok := ts.Next(); ok {
			owner = hdl.NewIdentifier(ownerTok.Text, hdl.VHDL, ownerTok.Pos)
		}
	}
	skipToMatchingEnd(ts)
	return hdl.DesignUnit{
		Kind:  hdl.KindConfiguration,
		Name:  hdl.NewIdentifier(nameTok.Text, hdl.VHDL, nameTok.Pos),
		Owner: owner,
		Pos:   nameTok.Pos,
		File:  file,
	}, nil
}

// nestedEndKeywords are the words that follow an 'end' closing a construct
// nested inside a design unit ("end for;", "end function;", ...) rather
// than the design unit itself.
var nestedEndKeywords = map[string]bool{
	"for": true, "if": true, "case": true, "loop": true, "process": true,
	"generate": true, "block": true, "component": true, "record": true,
	"function": true, "procedure": true, "units": true, "protected": true,
}

// skipToMatchingEnd advances past tokens, tracking paren depth, until an
// 'end' at depth 0 followed by its terminating ';' is consumed. An 'end'
// followed by one of nestedEndKeywords closes a nested construct and is
// skipped.
func skipToMatchingEnd(ts *hdl.TokenStream) {
	depth := 0
	for {
		t, ok := ts.Peek()
		if !ok {
			return
		}
		if t.Kind == hdl.TokSymbol && t.Text == "(" {
			depth++
		}
		if t.Kind == hdl.TokSymbol && t.Text == ")" {
			if depth > 0 {
				depth--
			}
		}
		if depth == 0 && t.IsWordCI("end") {
			if n, ok := ts.PeekAt(1); ok && n.Kind == hdl.TokWord && nestedEndKeywords[strings.ToLower(n.Text)] {
				ts.SkipTo(";")
				continue
			}
			consumeEndStatement(ts)
			return
		}
		ts.Next()
	}
}

// consumeEndStatement consumes an 'end' token the caller has peeked but not
// yet consumed, then the optional trailing keyword/identifier and the
// terminating ';'.
func consumeEndStatement(ts *hdl.TokenStream) {
	ts.Next() // consume 'end'
	for {
		t, ok := ts.Peek()
		if !ok {
			return
		}
		if t.Kind == hdl.TokSymbol && t.Text == ";" {
			ts.Next()
			return
		}
		ts.Next()
	}
}

func consumeOptSemi(ts *hdl.TokenStream) {
	if t, ok := ts.Peek(); ok && t.Kind == hdl.TokSymbol && t.Text == ";" {
		ts.Next()
	}
}

func consumeParenGroup(ts *hdl.TokenStream) {
	t, ok := ts.Peek()
	if !ok || !t.Is(hdl.TokSymbol, "(") {
		return
	}
	depth := 0
	for {
		t, ok := ts.Next()
		if !ok {
			return
		}
		if t.Kind == hdl.TokSymbol && t.Text == "(" {
			depth++
		}
		if t.Kind == hdl.TokSymbol && t.Text == ")" {
			depth--
			if depth == 0 {
				return
			}
		}
	}
}
