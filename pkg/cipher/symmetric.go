package cipher

import (
	"crypto/aes"
	gocipher "crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

const ivSize = 12
const tagSize = aes.BlockSize
const versionMagic = byte('G')

// KeySize is the required data key length in bytes.
const KeySize = 32

var (
	// ErrShortCiphertext is returned when a packed ciphertext cannot hold a tag and nonce.
	ErrShortCiphertext = errors.New("ciphertext is too short")

	// ErrUnknownVersion is returned when a packed ciphertext has an unexpected version byte.
	ErrUnknownVersion = errors.New("unknown ciphertext version")

	// ErrKeySize is returned when the data key is not 32 bytes.
	ErrKeySize = fmt.Errorf("data key must be %d bytes", KeySize)
)

type SymmetricCipher interface {
	Decrypt(aad, packedText []byte) ([]byte, error)
	Encrypt(aad, plainText []byte) ([]byte, error)
}

type Symmetric struct {
	aesgcm gocipher.AEAD
}

func NewSymmetric(key []byte) (SymmetricCipher, error) {
	if len(key) != KeySize {
		return nil, ErrKeySize
	}

	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aesgcm, err := gocipher.NewGCM(c)
	if err != nil {
		return nil, err
	}

	return &Symmetric{aesgcm: aesgcm}, nil
}

// NewSymmetricFromBase64 decodes a base64 data key and builds a cipher from it.
func NewSymmetricFromBase64(encoded string) (SymmetricCipher, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("bad data key: %w", err)
	}
	return NewSymmetric(key)
}

func (s Symmetric) Decrypt(aad, packedText []byte) ([]byte, error) {
	if len(packedText) < 1+tagSize+ivSize {
		return nil, ErrShortCiphertext
	}
	if packedText[0] != versionMagic {
		return nil, ErrUnknownVersion
	}

	cipherText, iv := UnpackCipherData(packedText)

	return s.aesgcm.Open(nil, iv, cipherText, aad)
}

func (s Symmetric) Encrypt(aad, plainText []byte) ([]byte, error) {
	// Never use more than 2^32 random nonces with a given key because of
	// the risk of a repeat.
	nonce, err := RandomBytes(ivSize)
	if err != nil {
		return nil, err
	}

	cipherTextWithTag := s.aesgcm.Seal(nil, nonce, plainText, aad)
	return PackCipherData(cipherTextWithTag, nonce), nil
}

func RandomBytes(size int) ([]byte, error) {
	value := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, value); err != nil {
		return nil, err
	}

	return value, nil
}

// PackCipherData lays out "#{VERSION_MAGIC}#{tag}#{iv}#{ctext}".
func PackCipherData(cipherTextWithTag []byte, iv []byte) []byte {
	iv = iv[:ivSize]

	tagStartIndex := len(cipherTextWithTag) - tagSize
	tag := cipherTextWithTag[tagStartIndex:]
	cipherText := cipherTextWithTag[:tagStartIndex]

	data := make([]byte, 1+tagSize+ivSize+len(cipherText))
	data[0] = versionMagic
	index := 1

	copy(data[index:], tag)
	index += tagSize

	copy(data[index:], iv)
	index += ivSize

	copy(data[index:], cipherText)

	return data
}

// UnpackCipherData splits a packed ciphertext back into ciphertext+tag and iv.
func UnpackCipherData(packedText []byte) ([]byte, []byte) {
	index := 1

	tag := packedText[index : index+tagSize]
	index += tagSize

	iv := packedText[index : index+ivSize]
	index += ivSize

	cipherText := make([]byte, 0, len(packedText)-index+tagSize)
	cipherText = append(cipherText, packedText[index:]...)
	cipherText = append(cipherText, tag...)

	return cipherText, iv
}
