package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// Digest computes the content digest of a document byte stream: hex-encoded
// sha256 over the exact bytes, order-sensitive, independent of filename or
// upload time. Streamed, so large documents are never buffered twice.
func Digest(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("hash document: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DigestBytes is Digest over an in-memory document.
func DigestBytes(b []byte) string {
	d, _ := Digest(bytes.NewReader(b))
	return d
}
