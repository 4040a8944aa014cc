// Package mocks provides mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the ports interfaces. Hand-written doubles with injectable behavior live in
// the auth subpackage; the generated mocks here suit expectation-style tests.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	store := mocks.NewMockCredentialStore(ctrl)
//	store.EXPECT().Get(gomock.Any(), "sess-1").Return(cred, nil)
package mocks

// Generate mock for CredentialStore interface from internal/ports.
// This creates MockCredentialStore with Save, Get, and Clear.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=credential_store_mock.go github.com/acaralabs/acara-web/internal/ports CredentialStore
