// Package errors provides custom error types for product-related operations.
package errors

import "errors"

var ErrProductNotFound = errors.New("product not found")
var ErrInsufficientStock = errors.New("not enough stock")
var ErrInvalidAmount = errors.New("amount must be positive")
var ErrValidation = errors.New("invalid product")
var ErrSaveFailed = errors.New("could not save records")
var ErrMalformedRecord = errors.New("malformed record")
