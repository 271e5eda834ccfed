// Package style provides read-only rules about the shape of a unit.
//
// Rules in this package:
//   - MaxLineLength: lines longer than maxLineLength bytes
//   - TooManyLines: units longer than threshold lines
//   - UnresolvedSymbol: identifiers the semantic context cannot resolve
package style
