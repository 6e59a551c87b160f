// Package matchbox compiles operator expressions for rule matching.
//
// A rule condition pairs a left operand (usually a subject field) with an
// operator symbol and a right operand (usually a constant). This package
// resolves the symbol through a process-wide registry, reconciles the
// static types of the two operands, and compiles the pair into a Predicate
// that can be evaluated against subjects or translated to parameterized
// SQL (see the querysql package).
//
// Operators are stateless singletons and predicates are immutable after
// compilation, so both may be shared freely across goroutines. The
// registry serializes registration and lookup behind a read-write mutex.
package matchbox
