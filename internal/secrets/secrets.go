// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

// Package secrets stores provider credentials outside of config files.
package secrets

// Store provides secure secret storage operations.
// Implementations may use OS keyrings, encrypted files, or other backends.
type Store interface {
	// Store saves a secret value under the given service and key.
	Store(service, key, value string) error

	// Retrieve fetches the secret value for the given service and key.
	// Missing keys report CodeSecretNotFound.
	Retrieve(service, key string) (string, error)

	// Delete removes the secret for the given service and key.
	// Missing keys report CodeSecretNotFound.
	Delete(service, key string) error

	// List returns all key names stored under the given service.
	List(service string) ([]string, error)
}
