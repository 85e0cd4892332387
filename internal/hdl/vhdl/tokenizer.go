// Package vhdl implements the HDL symbol extractor for VHDL source
// (spec.md §4.1): a hand-rolled tokenizer feeding a small recursive-descent
// scanner, since no VHDL tree-sitter grammar exists in this project's
// dependency set.
package vhdl

import "github.com/orbit-hdl/orbit/internal/hdl"

// vhdlSymbols2 lists VHDL's two-character operators, longest-match first
// where prefixes overlap.
var vhdlSymbols2 = []string{":=", "<=", "=>", "**", "/=", ">=", "<>", "??"}

func newScanner(file, src string) *hdl.Scanner {
	return hdl.NewScanner(file, src, "--", "", "", vhdlSymbols2)
}

// Tokenize runs the VHDL scanner over src, dropping comments.
func Tokenize(file, src string) []hdl.Token {
	return newScanner(file, src).Tokens(false)
}
