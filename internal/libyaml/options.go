// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

package libyaml

// Option configures a Parser at construction time, following the
// functional-options shape used throughout go.yaml.in/yaml.
type Option func(*Parser)

// WithMaxDepth overrides the default nesting-depth limit (1024 levels).
// A non-positive n is ignored and the default is kept.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}

// WithImplicitKeyLimit overrides the stored implicit-key lookahead budget
// (default 1024). A non-positive n is ignored. The parser does not
// consult this value: a scalar followed by ':' on the same line is
// recognized as an implicit key whatever its length.
func WithImplicitKeyLimit(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.implicitKeyLimit = n
		}
	}
}
