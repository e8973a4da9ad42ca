package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

// Codec seals cookie values so the browser cannot read or forge them. The
// 32-byte key is derived from the configured session secret.
type Codec struct {
	key [32]byte
}

func NewCodec(secret string) Codec {
	return Codec{key: sha256.Sum256([]byte(secret))}
}

func (c Codec) Seal(plain []byte) (string, error) {
	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", err
	}
	sealed := secretbox.Seal(nonce[:], plain, &nonce, &c.key)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (c Codec) Open(value string) ([]byte, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil || len(raw) <= 24 {
		return nil, false
	}
	var nonce [24]byte
	copy(nonce[:], raw[:24])
	return secretbox.Open(nil, raw[24:], &nonce, &c.key)
}
