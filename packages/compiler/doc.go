// Package compiler lowers component templates into template functions.
//
// Templates arrive as already parsed trees: template nodes from render3 with
// binding expressions from expression_parser. The result is output IR that a
// runtime executes in two passes, creation (rf & 1) and update (rf & 2).
//
// Main sub-packages:
//
//   - expression_parser: binding expression AST, visitors and a small parser
//   - compiler_util: lowering of one binding expression into IR
//   - output: IR expressions and statements and the emitter that prints them
//   - pool: constants shared by all template functions of a compilation
//   - render3: template AST
//     - view: template definition builder, binding scopes, view queries
//     - r3_identifiers: runtime instruction symbols
//   - css: selector parsing and directive matching
//   - config: compiler configuration
package compiler
