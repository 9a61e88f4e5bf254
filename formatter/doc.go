// Package formatter implements the concrete formatters of the ndef value model.
//
// Families:
//   - Scalars: signed and unsigned integers, floats, decimal, char, string, bytes,
//     binary segments, bit arrays, date/time with and without offset
//   - Parse-based scalars: any type with a bound "parse from text" capability
//     (enumerations, encoding.TextUnmarshaler types, bool, time.Duration, uuid.UUID)
//   - Containers: nullable scalars (*T), lists ([]E and *[]E) and objects
//   - Any: the polymorphic formatter for interface-typed slots
//
// Non-nullable scalars reserve one extreme value of their domain as the null sentinel.
// The sentinel is written as ndef.Null and an empty (or blank) payload reads back as
// the sentinel:
//
//	signed integers, floats, decimal   minimum value
//	unsigned integers                  maximum value
//	char                               unicode.MaxRune
//	date/time                          zero time.Time
//	time.Duration                      math.MinInt64
//	uuid.UUID                          uuid.Nil
//
// Every formatter is statically typed (ndef.TypedFormatter[T]) and exposes a boxed
// view (ndef.Formatter) through Box, which is what the registry and the container
// formatters hold. Formatters are immutable once the registry is sealed.
package formatter
