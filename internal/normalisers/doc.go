// Package normalisers turns corpus files into normalised page records.
//
// Each subpackage implements driven.DocumentLoader for one file format.
// Loaders are registered with a Registry at startup and selected by file
// extension. This package also holds the helpers every loader shares:
// source checks and mapping extracted page texts to PageRecords.
package normalisers
