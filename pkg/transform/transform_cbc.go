package transform

import (
	"fmt"

	"aes256-go"
)

type cbcTransform struct{ engine *aes256.Engine }

// NewCBCTransform encrypts on Apply and decrypts on Reverse.
func NewCBCTransform(engine *aes256.Engine) Transform {
	return &cbcTransform{engine: engine}
}

func (c *cbcTransform) Apply(plaintext []byte) ([]byte, error) {
	sealed, err := c.engine.Encrypt(plaintext)
	if err != nil {
		return nil, fmt.Errorf("aes256cbc apply (encrypt): %w", err)
	}
	return sealed, nil
}

func (c *cbcTransform) Reverse(sealed []byte) ([]byte, error) {
	plaintext, err := c.engine.Decrypt(sealed)
	if err != nil {
		return nil, fmt.Errorf("aes256cbc reverse (decrypt): %w", err)
	}
	return plaintext, nil
}
