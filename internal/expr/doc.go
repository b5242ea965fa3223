/*
Package expr implements the guard and condition language used by `if`
blocks and `when` guards.

The grammar is deliberately closed: variable references, literals,
comparisons, boolean operators and grouping. There are no function calls,
no assignment and no arithmetic, so evaluating an expression can never
mutate state.

	expr       = or ;
	or         = and { "or" and } ;
	and        = not { "and" not } ;
	not        = "not" not | comparison ;
	comparison = primary [ ( "==" | "!=" | "<" | "<=" | ">" | ">=" ) primary ] ;
	primary    = variable | number | string | "true" | "false" | "null" | "(" expr ")" ;

Evaluation never fails. Missing variables are null, and comparing values of
different non-null types yields false instead of coercing.
*/
package expr
