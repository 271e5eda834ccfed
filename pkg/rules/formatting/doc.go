// Package formatting provides correctable whitespace rules.
//
// All rules belong to the composite group "Formatting" and share one pass over a unit.
// Inside the group, NoConsecutiveBlankLines runs after TrailingWhitespace so lines that
// only held whitespace are already empty, and FinalNewline runs last.
//
// Rules in this package:
//   - NoTabs: tab characters in whitespace
//   - TrailingWhitespace: whitespace at the end of a line
//   - NoConsecutiveBlankLines: more than max blank lines in a row
//   - FinalNewline: units that do not end with a newline
package formatting
