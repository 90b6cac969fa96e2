//go:build !cgo

package sqlite

func mattnAvailable() bool { return false }
