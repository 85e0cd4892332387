package verilog

import (
	"strings"

	"github.com/orbit-hdl/orbit/internal/hdl"
)

var reserved = map[string]bool{
	"module": true, "macromodule": true, "endmodule": true, "input": true,
	"output": true, "inout": true, "wire": true, "reg": true, "logic": true,
	"always": true, "always_comb": true, "always_ff": true, "always_latch": true,
	"initial": true, "assign": true, "parameter": true, "localparam": true,
	"generate": true, "endgenerate": true, "if": true, "else": true,
	"for": true, "begin": true, "end": true, "function": true,
	"endfunction": true, "task": true, "endtask": true, "case": true,
	"endcase": true, "default": true, "posedge": true, "negedge": true,
	"wand": true, "wor": true, "tri": true, "signed": true, "unsigned": true,
}

// Parser holds the symbols extracted from one Verilog/SystemVerilog file.
type Parser struct {
	symbols  []hdl.DesignUnit
	warnings []error
}

// ReadLazy tokenizes and parses src for the given dialect (Verilog or
// SystemVerilog), silently dropping any symbol whose construct it fails to
// recognize.
func ReadLazy(file, src string, dialect hdl.Dialect) *Parser {
	p := &Parser{}
	p.parse(file, Tokenize(file, src), dialect, false)
	return p
}

// Read parses src, failing on the first unrecoverable error.
func Read(file, src string, dialect hdl.Dialect) (*Parser, error) {
	p := &Parser{}
	if err := p.parse(file, Tokenize(file, src), dialect, true); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) IntoSymbols() []hdl.DesignUnit {
	return p.symbols
}

func (p *Parser) Warnings() []error {
	return p.warnings
}

func (p *Parser) parse(file string, toks []hdl.Token, dialect hdl.Dialect, strict bool) error {
	ts := hdl.NewTokenStream(toks)
	for {
		t, ok := ts.Peek()
		if !ok {
			return nil
		}
		if t.Kind == hdl.TokSymbol && t.Text == "(" {
			if n, ok := ts.PeekAt(1); ok && n.Kind == hdl.TokSymbol && n.Text == "*" {
				if err := skipAttributeInstance(ts); err != nil {
					if strict {
						return err
					}
					p.warnings = append(p.warnings, err)
				}
				continue
			}
		}
		switch {
		case t.IsWordCI("module"), t.IsWordCI("macromodule"):
			unit, err := parseModule(file, ts, dialect)
			if err != nil {
				if strict {
					return err
				}
				p.warnings = append(p.warnings, err)
				continue
			}
			p.symbols = append(p.symbols, unit)
		default:
			ts.Next()
		}
	}
}

// skipAttributeInstance consumes a Verilog `(* attr = value, ... *)` block,
// which may precede any module item or the module declaration itself.
func skipAttributeInstance(ts *hdl.TokenStream) error {
	openTok, _ := ts.Next() // '('
	ts.Next()               // '*'
	for {
		t, ok := ts.Next()
		if !ok {
			return hdl.NewExpectingOperatorError(openTok.Pos, "*)")
		}
		if t.Kind == hdl.TokSymbol && t.Text == "*" {
			if n, ok := ts.Peek(); ok && n.Kind == hdl.TokSymbol && n.Text == ")" {
				ts.Next()
				return nil
			}
		}
	}
}

// parseModule handles:
// (macro)module <name> [#(params)] (port-list) ; ... instantiations ... endmodule
func parseModule(file string, ts *hdl.TokenStream, dialect hdl.Dialect) (hdl.DesignUnit, error) {
	kwTok, _ := ts.Next()
	kind := hdl.KindModule
	if kwTok.IsWordCI("macromodule") {
		kind = hdl.KindMacromodule
	}
	nameTok, ok := ts.Next()
	if !ok || nameTok.Kind != hdl.TokWord {
		return hdl.DesignUnit{}, &hdl.ParseError{Pos: kwTok.Pos, Code: "ExpectingIdentifier", Message: "expecting module name"}
	}
	name := hdl.NewIdentifier(nameTok.Text, dialect, nameTok.Pos)

	// optional parameter block: #( ... )
	if t, ok := ts.Peek(); ok && t.Kind == hdl.TokSymbol && t.Text == "#" {
		ts.Next()
		consumeParenGroup(ts)
	}

	var ports []hdl.Port
	if t, ok := ts.Peek(); ok && t.Kind == hdl.TokSymbol && t.Text == "(" {
		ports = parseAnsiPortList(ts)
	}
	consumeOptSemi(ts)

	var deps []hdl.Identifier
	seen := map[string]bool{}
	addDep := func(tok hdl.Token) {
		key := strings.ToLower(tok.Text)
		if dialect.CaseSensitive() {
			key = tok.Text
		}
		if reserved[strings.ToLower(tok.Text)] || seen[key] {
			return
		}
		seen[key] = true
		deps = append(deps, hdl.NewIdentifier(tok.Text, dialect, tok.Pos))
	}

	depth := 0
	for {
		t, ok := ts.Peek()
		if !ok {
			return hdl.DesignUnit{}, hdl.NewExpectingOperatorError(kwTok.Pos, "endmodule")
		}
		if t.Kind == hdl.TokSymbol && t.Text == "(" {
			if n, ok := ts.PeekAt(1); ok && n.Kind == hdl.TokSymbol && n.Text == "*" {
				if err := skipAttributeInstance(ts); err != nil {
					return hdl.DesignUnit{}, err
				}
				continue
			}
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
		if depth > 0 {
			ts.Next()
			continue
		}
		if t.IsWordCI("endmodule") {
			ts.Next()
			break
		}
		if t.Kind == hdl.TokWord && !reserved[strings.ToLower(t.Text)] {
			scanPossibleInstantiation(ts, addDep)
			continue
		}
		ts.Next()
	}

	return hdl.DesignUnit{
		Kind:         kind,
		Name:         name,
		Pos:          nameTok.Pos,
		File:         file,
		Ports:        ports,
		Instantiates: deps,
	}, nil
}

// scanPossibleInstantiation recognizes `<type-name> [#(params)] <inst-name> (...) ;`
// at module-item scope, which is Verilog's only instantiation syntax (no
// keyword marks it, unlike VHDL's `entity`/`component`). A type-name token
// followed eventually by another identifier and a '(' before the next ';' is
// treated as an instantiation; otherwise this is a continuous/procedural
// assignment or declaration and is skipped without modeling it.
func scanPossibleInstantiation(ts *hdl.TokenStream, addDep func(hdl.Token)) {
	typeTok, ok := ts.Next()
	if !ok {
		return
	}
	if t, ok := ts.Peek(); ok && t.Kind == hdl.TokSymbol && t.Text == "#" {
		ts.Next()
		consumeParenGroup(ts)
	}
	if n, ok := ts.Peek(); ok && n.Kind == hdl.TokWord {
		if after, ok := ts.PeekAt(1); ok && after.Kind == hdl.TokSymbol && (after.Text == "(" || after.Text == "[") {
			addDep(typeTok)
		}
	}
	ts.SkipTo(";")
}

// parseAnsiPortList parses the ANSI-style `( input wire a, output logic b, ... )`
// port list into Port values. Ports without a direction keyword inherit the
// most recently seen direction, per Verilog's port-list grammar.
func parseAnsiPortList(ts *hdl.TokenStream) []hdl.Port {
	ts.Next() // '('
	var ports []hdl.Port
	depth := 1
	bracket := 0
	lastDir := "input"
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
		case t.Kind == hdl.TokSymbol && t.Text == "[":
			bracket++
		case t.Kind == hdl.TokSymbol && t.Text == "]":
			if bracket > 0 {
				bracket--
			}
		case depth == 1 && bracket == 0 && t.Kind == hdl.TokWord:
			lower := strings.ToLower(t.Text)
			switch lower {
			case "input", "output", "inout":
				lastDir = lower
			case "wire", "reg", "logic", "signed", "unsigned":
				// type/net keyword, not a port name
			default:
				ports = append(ports, hdl.Port{Name: t.Text, Direction: lastDir})
			}
		}
	}
	return ports
}

func consumeOptSemi(ts *hdl.TokenStream) {
	if t, ok := ts.Peek(); ok && t.Kind == hdl.TokSymbol && t.Text == ";" {
		ts.Next()
	}
}

func consumeParenGroup(ts *hdl.TokenStream) {
	t, ok := ts.Peek()
	if !ok || !(t.Kind == hdl.TokSymbol && t.Text == "(") {
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
