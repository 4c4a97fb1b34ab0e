// Package lang implements the tpp template language: a line-oriented text
// preprocessor with conditional, multi-way and diagnostic directives.
//
// # Syntax
//
// A template is plain text interleaved with directives. A directive is a
// '%' immediately followed by a keyword at the start of a line (after any
// indentation):
//
//	%IF [<expr>]:
//	    body
//	%ELSE:
//	    body
//	%END
//
//	%SWITCH [<expr>]:
//	    %CASE [<expr>]:
//	        body
//	    %END
//	    %DEFAULT:
//	        body
//	    %END
//	%END
//
//	%PRINT [<expr>]
//
// Every other line is content and is copied to the output verbatim.
//
// # Expressions
//
// An expression is enclosed in brackets and made of literals and the
// operators AND, OR, EQUALS, CONTAINS and NOT. Brackets group. Chains
// without brackets associate to the right, and NOT applies to the rest of
// the chain.
//
// Literals come in three forms:
//
//	<NAME>            variable NAME, or the text NAME if undefined
//	(text <NAME>)     variable "text <NAME>", or the text with markers replaced
//	"text"            the text, verbatim
//
// Variables resolve against [Context.Local] first and
// [Context.Environment] second. The marker <<NAME>> is the escape for the
// literal text <NAME>.
//
// AND and OR are true only for operands that are exactly TRUE. NOT
// accepts TRUE, FALSE or an integer (non-zero is true). A condition holds
// only when it evaluates to exactly TRUE.
//
// # Pipeline
//
// [Preprocess] runs [Tokenize], [Parse] and [Interpret] in sequence.
// Each stage returns the first error it finds as an [*Error] that carries
// the source location and matches both its sentinel and its [Class] with
// [errors.Is]. Nesting of statements and expressions is limited by
// [WithMaxDepth].
//
// [ParseExpression] parses a lone bracketed expression for callers that
// evaluate expressions outside a template, such as an interactive prompt.
package lang
