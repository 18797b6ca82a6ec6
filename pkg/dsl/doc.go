/*
Package dsl provides a fluent builder for canvas graphs.

It lets tests, examples and seeding tools declare a canvas in Go instead of
hand-writing snapshot JSON. Every edge goes through the connection validator,
so a built graph is always one the engine itself could have produced.

Example usage:

	g, err := dsl.New().
		Add("brief").As(domain.NodeDesignBrief).Title("Bakery site").To("compiler").
		Add("compiler").As(domain.NodeCompiler).To("h1").
		Add("h1").As(domain.NodeHypothesis).Strategy("s1").To("v1").
		Add("v1").As(domain.NodeVariant).Strategy("s1").Versions("r1", "r2").
		Graph()
*/
package dsl
