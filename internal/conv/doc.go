// Package conv provides checked integer conversions for values read from or
// written to dump headers.
package conv
