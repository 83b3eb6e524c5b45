// Package conv provides checked integer conversions for sizes and lengths
// that cross the frame header boundary.
package conv
