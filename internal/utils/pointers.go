// Package utils holds generic helpers for the optional fields carried by game
// snapshots and node views.
package utils

import "strings"

func Ptr[T any](v T) *T {
	return &v
}

// OrZero dereferences p, or returns the zero value when p is nil.
func OrZero[T any](p *T) (v T) {
	if p != nil {
		v = *p
	}
	return v
}

// PtrEquals reports whether p is set and points at v.
func PtrEquals[T comparable](p *T, v T) bool {
	return p != nil && *p == v
}

// NilIfBlank trims s and returns nil when nothing is left.
func NilIfBlank(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
