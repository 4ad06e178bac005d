// Package utils holds small helpers shared by the features: id conversion for
// request parameters and token claims, and unicode-aware slugs used as natural keys.
package utils
