// Package errors provides sentinel errors shared by the storefront's layers.
package errors

import "errors"

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrInvalidProductID = errors.New("invalid product id")
)
