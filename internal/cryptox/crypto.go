// Package cryptox holds the key derivation and sealing helpers shared by
// account login and note locking.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of salts produced by NewSalt.
const SaltSize = 16

// NewSalt returns SaltSize random bytes.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// MakeVerifier hashes a derived key so it can be stored and compared without
// keeping the key itself.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// DeriveMasterKey derives a 32-byte argon2id key from password and salt.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// CheckPassword derives a key from password and salt and compares its
// verifier with the stored one in constant time. The derived key is returned
// only when the verifiers match.
func CheckPassword(password, salt, verifier []byte) ([]byte, bool) {
	if len(salt) == 0 {
		return nil, false
	}
	key := DeriveMasterKey(password, salt)
	if subtle.ConstantTimeCompare(MakeVerifier(key), verifier) != 1 {
		common.WipeByteArray(key)
		return nil, false
	}
	return key, true
}

// EncryptEntry serializes entry to JSON and seals it with AES-GCM under key.
// The key must be 16, 24 or 32 bytes long. A fresh 12-byte nonce is generated
// for every call and returned next to the ciphertext.
//
//	key := cryptox.DeriveMasterKey(password, salt)
//	ciphertext, nonce, err := cryptox.EncryptEntry(note.Text, key)
func EncryptEntry(entry any, key []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(entry)
	if err != nil {
		return nil, nil, err
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	return aesgcm.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// DecryptEntry opens ciphertext produced by EncryptEntry and unmarshals the
// JSON payload into v. A wrong key or a tampered ciphertext yields an error.
func DecryptEntry(ciphertext, nonce, key []byte, v any) error {
	aesgcm, err := newGCM(key)
	if err != nil {
		return err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return err
	}

	return json.Unmarshal(plaintext, v)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
