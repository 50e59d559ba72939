package mfa

// Encryptor seals TOTP seeds at rest.
type Encryptor interface {
	// Encrypt returns ciphertext for the given plaintext and scope.
	Encrypt(plaintext []byte, scope Scope) (ciphertext []byte, err error)
	// Decrypt returns plaintext for the given ciphertext and scope.
	Decrypt(ciphertext []byte, scope Scope) (plaintext []byte, err error)
}

// KeyProvider hands out AES-256 keys by id so seeds sealed under a retired key
// stay readable after rotation.
type KeyProvider interface {
	// Current returns the id and key new ciphertexts are sealed with.
	Current() (id uint8, key []byte, err error)
	// Lookup returns the key registered under id.
	Lookup(id uint8) ([]byte, error)
}
