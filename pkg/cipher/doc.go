// Package cipher provides the symmetric encryption used for secret values at rest.
//
// Values are sealed with AES-256-GCM. The associated data binds a ciphertext
// to the row it belongs to, so a value copied onto another secret row fails
// to decrypt.
//
//	c, err := cipher.NewSymmetric(dataKey)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sealed, err := c.Encrypt([]byte(environmentID+":"+key), []byte("hunter2"))
//	plain, err := c.Decrypt([]byte(environmentID+":"+key), sealed)
//
// The data key is read from ENVAULT_DATA_KEY (base64, 32 bytes) and can be
// generated with `envaultctl data-key generate`.
package cipher
