// Package verilog implements the HDL symbol extractor for Verilog and
// SystemVerilog source (spec.md §4.1): a hand-rolled tokenizer feeding a
// small recursive-descent scanner, since no Verilog/SystemVerilog
// tree-sitter grammar exists in this project's dependency set. The two
// dialects share one tokenizer and parser; SystemVerilog-only keywords
// ("macromodule" aside) are not modeled since spec.md scopes the extractor
// to instantiation edges, not full elaboration.
package verilog

import "github.com/orbit-hdl/orbit/internal/hdl"

// verilogSymbols2 lists Verilog's two- and three-character operators,
// longest-match first where prefixes overlap.
var verilogSymbols2 = []string{
	"<<=", ">>=", "<<<", ">>>", "===", "!==",
	"&&", "||", "==", "!=", "<=", ">=", "<<", ">>", "->", "::", "+:", "-:",
	"~&", "~|", "~^", "^~",
}

func newScanner(file, src string) *hdl.Scanner {
	return hdl.NewScanner(file, src, "//", "/*", "*/", verilogSymbols2)
}

// Tokenize runs the Verilog/SystemVerilog scanner over src, dropping
// comments.
func Tokenize(file, src string) []hdl.Token {
	return newScanner(file, src).Tokens(false)
}
