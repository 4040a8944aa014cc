//go:build tools
// +build tools

// Package tools documents development tool dependencies. The tools are
// installed with `go install` and are not part of go.mod since nothing at
// runtime imports them.
package tools

// Development tools:
//
// mockgen - regenerates the port mocks in internal/mocks
//   Install: go install go.uber.org/mock/mockgen@v0.6.0
//   Run:     go generate ./internal/mocks
//
// air - live reload while developing against a local backend
//   Install: go install github.com/air-verse/air@latest
