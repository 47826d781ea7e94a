// Package cache stores extraction results between runs.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/ppiankov/zwischenruf/internal/model"
)

// keyPrefix changes whenever the cached result layout changes
const keyPrefix = "zwischenruf:v1:"

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ExtractionKey identifies the extraction of one speech under one
// configuration. variant carries every option that changes the result,
// e.g. position mode and known names.
func ExtractionKey(speech model.Speech, variant string) string {
	h := sha256.New()

	var buf [12]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(speech.ID))
	binary.BigEndian.PutUint32(buf[8:], uint32(speech.Session))
	h.Write(buf[:])
	h.Write([]byte(variant))
	h.Write([]byte{0})
	h.Write([]byte(speech.Text))

	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// GetJSON decodes a cached JSON value into v. A missing or undecodable
// entry reports false.
func GetJSON(c Cache, key string, v any) bool {
	data, ok := c.Get(key)
	if !ok {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// SetJSON stores v as JSON
func SetJSON(c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(key, data, ttl)
}
