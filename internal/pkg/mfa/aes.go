package mfa

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// Ciphertext layout:
//
//	[0]      format version
//	[1]      key id
//	[2..13]  nonce
//	[14..]   AES-GCM ciphertext and tag
const (
	formatVersion byte = 1
	headerLen          = 2
	gcmNonceSize       = 12
	aesKeyLen          = 32
)

var (
	// ErrEncryptorNotConfigured indicates a missing encryptor key provider.
	ErrEncryptorNotConfigured = errors.New("mfacrypto: encryptor not configured")
	// ErrPlaintextEmpty indicates an empty plaintext input.
	ErrPlaintextEmpty = errors.New("mfacrypto: plaintext is empty")
	// ErrInvalidKeyLength indicates the key length is invalid.
	ErrInvalidKeyLength = errors.New("mfacrypto: invalid key length")
	// ErrUnknownKey indicates a key id that is not registered.
	ErrUnknownKey = errors.New("mfacrypto: unknown key")
	// ErrCiphertextTooShort indicates a truncated ciphertext.
	ErrCiphertextTooShort = errors.New("mfacrypto: ciphertext too short")
	// ErrUnsupportedCiphertextVersion indicates an unsupported ciphertext version.
	ErrUnsupportedCiphertextVersion = errors.New("mfacrypto: unsupported ciphertext version")
	// ErrDecryptFailed indicates decryption failure.
	ErrDecryptFailed = errors.New("mfacrypto: decrypt failed")
)

// AESGCMEncryptor implements Encryptor using AES-256-GCM.
type AESGCMEncryptor struct {
	keys  KeyProvider
	nonce io.Reader
}

// NewAESGCMEncryptor constructs an AES-GCM encryptor.
func NewAESGCMEncryptor(keys KeyProvider) *AESGCMEncryptor {
	return &AESGCMEncryptor{keys: keys, nonce: rand.Reader}
}

// Encrypt seals plaintext under the current key, binding it to scope.
func (e *AESGCMEncryptor) Encrypt(plaintext []byte, scope Scope) ([]byte, error) {
	if e == nil || e.keys == nil {
		return nil, ErrEncryptorNotConfigured
	}
	if len(plaintext) == 0 {
		return nil, ErrPlaintextEmpty
	}

	id, key, err := e.keys.Current()
	if err != nil {
		return nil, fmt.Errorf("mfacrypto: key provider error: %w", err)
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	out := make([]byte, headerLen+gcmNonceSize, headerLen+gcmNonceSize+len(plaintext)+gcm.Overhead())
	out[0] = formatVersion
	out[1] = id
	nonce := out[headerLen:]
	if _, err := io.ReadFull(e.nonce, nonce); err != nil {
		return nil, fmt.Errorf("mfacrypto: nonce generation failed: %w", err)
	}

	return gcm.Seal(out, nonce, plaintext, scope.aad()), nil
}

// Decrypt opens a ciphertext with the key it was sealed under. Any mismatch
// in key, scope or content reports ErrDecryptFailed.
func (e *AESGCMEncryptor) Decrypt(ciphertext []byte, scope Scope) ([]byte, error) {
	if e == nil || e.keys == nil {
		return nil, ErrEncryptorNotConfigured
	}
	if len(ciphertext) <= headerLen+gcmNonceSize {
		return nil, ErrCiphertextTooShort
	}
	if ciphertext[0] != formatVersion {
		return nil, fmt.Errorf("mfacrypto: version %d: %w", ciphertext[0], ErrUnsupportedCiphertextVersion)
	}

	key, err := e.keys.Lookup(ciphertext[1])
	if err != nil {
		return nil, err
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := ciphertext[headerLen : headerLen+gcmNonceSize]
	plain, err := gcm.Open(nil, nonce, ciphertext[headerLen+gcmNonceSize:], scope.aad())
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plain, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != aesKeyLen {
		return nil, fmt.Errorf("mfacrypto: key has %d bytes (want %d): %w", len(key), aesKeyLen, ErrInvalidKeyLength)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("mfacrypto: aes init failed: %w", err)
	}
	return cipher.NewGCM(block)
}
