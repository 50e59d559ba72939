package mfa

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// KeyRing is a KeyProvider backed by a fixed set of keys. One of them is
// current, the rest are only used to open older ciphertexts.
type KeyRing struct {
	current uint8
	keys    map[uint8][]byte
}

// NewKeyRing validates that every key is 32 bytes and that currentID is present.
func NewKeyRing(currentID uint8, keys map[uint8][]byte) (*KeyRing, error) {
	if _, ok := keys[currentID]; !ok {
		return nil, fmt.Errorf("mfacrypto: current key %d: %w", currentID, ErrUnknownKey)
	}

	ring := &KeyRing{current: currentID, keys: make(map[uint8][]byte, len(keys))}
	for id, key := range keys {
		if len(key) != aesKeyLen {
			return nil, fmt.Errorf("mfacrypto: key %d has %d bytes (want %d): %w", id, len(key), aesKeyLen, ErrInvalidKeyLength)
		}
		ring.keys[id] = append([]byte(nil), key...)
	}

	return ring, nil
}

// ParseKeyRing builds a KeyRing from base64 keys indexed by decimal id strings,
// the shape the config layer returns for a YAML mapping.
func ParseKeyRing(currentID string, encoded map[string]string) (*KeyRing, error) {
	current, err := parseKeyID(currentID)
	if err != nil {
		return nil, err
	}

	keys := make(map[uint8][]byte, len(encoded))
	for rawID, rawKey := range encoded {
		id, err := parseKeyID(rawID)
		if err != nil {
			return nil, err
		}
		key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(rawKey))
		if err != nil {
			return nil, fmt.Errorf("mfacrypto: key %d is not base64: %w", id, err)
		}
		keys[id] = key
	}

	return NewKeyRing(current, keys)
}

func parseKeyID(s string) (uint8, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	if err != nil {
		return 0, fmt.Errorf("mfacrypto: invalid key id %q: %w", s, err)
	}
	return uint8(id), nil
}

// Current returns the key new ciphertexts are sealed with.
func (r *KeyRing) Current() (uint8, []byte, error) {
	return r.current, r.keys[r.current], nil
}

// Lookup returns the key registered under id.
func (r *KeyRing) Lookup(id uint8) ([]byte, error) {
	key, ok := r.keys[id]
	if !ok {
		return nil, fmt.Errorf("mfacrypto: key %d: %w", id, ErrUnknownKey)
	}
	return key, nil
}
