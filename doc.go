// Package cdtk is a compiler-construction toolkit: given token and grammar
// declarations it compiles a lexer and an AG-LL parser (adaptive LL(*)
// prediction with GLL/SPPF fallback) and turns source text into an AST,
// accumulating structured diagnostics at every stage instead of returning
// formatted error strings.
//
// cdtk.go exposes exactly the two contracts the declarative front-end (not
// part of this module) builds on: Lexer and Parser. Everything else —
// regex compilation, NFA/DFA construction, grammar analysis, the GLL
// engine, SPPF, and the arena-backed AST — lives under internal/ and is
// reached only through these two types.
package cdtk
