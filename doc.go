/* Package lycoris implements the Lycoris language runtime.

Lycoris is a small concatenative language: programs are postfix sequences of
values and words acting on an implicit stack, and all arithmetic is exact
rational arithmetic over arbitrary-precision integers.

	5 3 add        # -> 8
	1 3 div 3 mul  # -> 1, exactly

Vectors are the homoiconic heart of the language. A vector is data until
run realizes it as code, so definitions are plain values:

	[dup mul] 'square' def
	7 square       # -> 49, when run as a later Execute

Scope modifiers change how a single word meets the stack: @word maps the
word over a popped vector, *word folds it from the left, and #word gathers
the whole stack into one vector first.

	[1 2 3] 2 @mul    # -> [2 4 6]
	[1 2 3 4 5] *add  # -> 15

Tokens need no whitespace between them. The dictionary is a trie consulted
for the longest defined word at every position, so 2add3mul scans as
2 add 3 mul, and defining a word changes how later source is read.

The evaluator is synchronous and single-threaded, with a captured output
buffer as its only I/O. Hosts that need timeouts run each execution in a
disposable Session and recover by replacement, never interruption.
*/
package lycoris
