// Package diagnostic collects the errors, warnings and notes found while validating a
// registry configuration and folds the errors into a single error value.
package diagnostic
