package predicate

import (
	"fmt"
	"strings"
)

// Walk visits p and its descendants depth-first, left to right. Returning
// false from fn stops descent into the children of that node.
func Walk(p Predicate, fn func(Predicate) bool) {
	if p == nil || !fn(p) {
		return
	}
	switch node := p.(type) {
	case And:
		for _, child := range node.Predicates {
			Walk(child, fn)
		}
	case Or:
		for _, child := range node.Predicates {
			Walk(child, fn)
		}
	}
}

// Params returns the parameter names referenced by p in first-use order,
// without duplicates.
func Params(p Predicate) []string {
	var out []string
	seen := make(map[string]bool)
	Walk(p, func(node Predicate) bool {
		if c, ok := node.(Comparison); ok && !seen[c.Param] {
			seen[c.Param] = true
			out = append(out, c.Param)
		}
		return true
	})
	return out
}

// Columns returns the columns referenced by p in first-use order, without
// duplicates.
func Columns(p Predicate) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(col string) {
		if !seen[col] {
			seen[col] = true
			out = append(out, col)
		}
	}
	Walk(p, func(node Predicate) bool {
		switch n := node.(type) {
		case Comparison:
			add(n.Column)
		case IsNull:
			add(n.Column)
		case IsNotNull:
			add(n.Column)
		}
		return true
	})
	return out
}

// String renders p in a SQL-like notation with ":name" placeholders, e.g.
//
//	(result_time IS NOT NULL AND result_time > :end1)
//
// Composite nodes are always parenthesised. The output is for logs, tests
// and the CLI; query layers render the tree themselves.
func String(p Predicate) string {
	var b strings.Builder
	writePredicate(&b, p)
	return b.String()
}

func writePredicate(b *strings.Builder, p Predicate) {
	switch node := p.(type) {
	case nil:
		b.WriteString("<nil>")
	case Comparison:
		fmt.Fprintf(b, "%s %s :%s", node.Column, node.Op, node.Param)
	case IsNull:
		b.WriteString(node.Column + " IS NULL")
	case IsNotNull:
		b.WriteString(node.Column + " IS NOT NULL")
	case And:
		writeGroup(b, node.Predicates, " AND ", "TRUE")
	case Or:
		writeGroup(b, node.Predicates, " OR ", "FALSE")
	default:
		fmt.Fprintf(b, "<%T>", p)
	}
}

func writeGroup(b *strings.Builder, children []Predicate, sep, empty string) {
	if len(children) == 0 {
		b.WriteString(empty)
		return
	}
	b.WriteByte('(')
	for i, child := range children {
		if i > 0 {
			b.WriteString(sep)
		}
		writePredicate(b, child)
	}
	b.WriteByte(')')
}
