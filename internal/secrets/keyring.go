// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vitrine Contributors

package secrets

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/zalando/go-keyring"

	vitrerr "github.com/vitrine-dev/vitrine/pkg/errors"
)

// indexSuffix is appended to the service name to form the key under which a
// JSON list of stored key names is kept. go-keyring has no native enumeration,
// so List() is backed by this index entry.
const indexSuffix = "::keys-index"

// KeyringStore implements Store on top of the OS keyring: Keychain on macOS,
// secret-service (D-Bus) on Linux, Credential Manager on Windows.
type KeyringStore struct{}

// NewKeyringStore returns a KeyringStore.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

func checkNames(op, service, key string) error {
	if service == "" {
		return vitrerr.Errorf(vitrerr.CodeSecretInvalidInput, "secret %s: service must not be empty", op)
	}
	if key == "" {
		return vitrerr.Errorf(vitrerr.CodeSecretInvalidInput, "secret %s: key must not be empty", op)
	}
	return nil
}

func (s *KeyringStore) Store(service, key, value string) error {
	if err := checkNames("store", service, key); err != nil {
		return err
	}

	if err := keyring.Set(service, key, value); err != nil {
		return vitrerr.Wrapf(err, vitrerr.CodeSecretStoreFailure, "storing secret %s/%s", service, key)
	}

	return s.addToIndex(service, key)
}

func (s *KeyringStore) Retrieve(service, key string) (string, error) {
	if err := checkNames("retrieve", service, key); err != nil {
		return "", err
	}

	val, err := keyring.Get(service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", vitrerr.Errorf(vitrerr.CodeSecretNotFound, "secret %s/%s not found", service, key)
		}
		return "", vitrerr.Wrapf(err, vitrerr.CodeSecretStoreFailure, "retrieving secret %s/%s", service, key)
	}
	return val, nil
}

func (s *KeyringStore) Delete(service, key string) error {
	if err := checkNames("delete", service, key); err != nil {
		return err
	}

	if err := keyring.Delete(service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return vitrerr.Errorf(vitrerr.CodeSecretNotFound, "secret %s/%s not found", service, key)
		}
		return vitrerr.Wrapf(err, vitrerr.CodeSecretDeleteFailure, "deleting secret %s/%s", service, key)
	}

	return s.removeFromIndex(service, key)
}

func (s *KeyringStore) List(service string) ([]string, error) {
	return s.loadIndex(service)
}

func (s *KeyringStore) loadIndex(service string) ([]string, error) {
	raw, err := keyring.Get(service, service+indexSuffix)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, nil
		}
		return nil, vitrerr.Wrapf(err, vitrerr.CodeSecretListFailure, "loading key index for service %s", service)
	}

	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return nil, vitrerr.Wrapf(err, vitrerr.CodeSecretListFailure, "decoding key index for service %s", service)
	}
	return keys, nil
}

func (s *KeyringStore) saveIndex(service string, keys []string) error {
	indexKey := service + indexSuffix

	if len(keys) == 0 {
		if delErr := keyring.Delete(service, indexKey); delErr != nil {
			slog.Debug("failed to clean up empty key index", "service", service, "error", delErr)
		}
		return nil
	}

	data, err := json.Marshal(keys)
	if err != nil {
		return vitrerr.Wrapf(err, vitrerr.CodeSecretListFailure, "encoding key index for service %s", service)
	}
	if err := keyring.Set(service, indexKey, string(data)); err != nil {
		return vitrerr.Wrapf(err, vitrerr.CodeSecretListFailure, "saving key index for service %s", service)
	}
	return nil
}

// addToIndex records a key in the service index. Idempotent.
func (s *KeyringStore) addToIndex(service, key string) error {
	keys, err := s.loadIndex(service)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if k == key {
			return nil
		}
	}
	return s.saveIndex(service, append(keys, key))
}

func (s *KeyringStore) removeFromIndex(service, key string) error {
	keys, err := s.loadIndex(service)
	if err != nil {
		return err
	}
	filtered := keys[:0]
	for _, k := range keys {
		if k != key {
			filtered = append(filtered, k)
		}
	}
	return s.saveIndex(service, filtered)
}
