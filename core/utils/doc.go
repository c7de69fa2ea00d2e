// Package utils converts loosely typed values found in provider payloads.
//
// Listings APIs are inconsistent about quoting numbers and booleans, so adapters
// decode into `any` and normalize with these helpers.
//
// # Conversions
//
//   - ToInt: numbers and numeric strings, 0 when nothing parses.
//   - ToString: strings as is, numbers formatted without exponent.
//   - ToBool: booleans, "true"/"1" strings and numbers equal to 1.
//   - ToDecimal: exact prices through shopspring/decimal. Commas are read as
//     decimal separators and non numeric values return an error.
package utils
