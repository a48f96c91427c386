package genderlens

import "errors"

// ErrConfiguration reports invalid analysis configuration: a window
// radius that is not positive, an empty gender list where at least one
// gender is required, or an unknown part-of-speech tag group.
var ErrConfiguration = errors.New("genderlens: invalid configuration")

// ErrDegenerateInput reports input a statistic cannot be computed
// over, such as a Dunning comparison with zero tokens on both sides.
var ErrDegenerateInput = errors.New("genderlens: degenerate input")
