/*

Process of compilation

Program Text ->
	tokenize ->
Token Stream (token) ->
	parse ->
Abstract Syntax Tree (ast) ->
	analyze ->
Checked Tree + Signatures (sema) ->
	lower ->
Three Address Code (tac) ->
	build ->
Basic Block Graph (cfg)

Checked Tree + Signatures (sema) ->
	run ->
Program Output + Exit Code (interp)

The graph chain is diagnostic only. Execution walks the checked tree,
it never consumes the lowered code.

*/
package compiler
