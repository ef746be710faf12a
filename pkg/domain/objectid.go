package domain

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// objectIDRawLen is the identifier size before hex encoding: 4 bytes of
// big-endian unix seconds followed by 8 random bytes.
const objectIDRawLen = 12

// NewObjectID generates a new document identifier in the store's canonical
// 24-character hex form.
func NewObjectID() string {
	var raw [objectIDRawLen]byte
	binary.BigEndian.PutUint32(raw[:4], uint32(time.Now().Unix()))
	if _, err := rand.Read(raw[4:]); err != nil {
		// crypto/rand should never fail; fall back to the clock so inserts
		// keep working rather than crashing the process.
		binary.BigEndian.PutUint64(raw[4:], uint64(time.Now().UnixNano()))
	}
	return hex.EncodeToString(raw[:])
}

// IsValidObjectID reports whether s is a syntactically valid identifier in
// the canonical 24-character hex form.
func IsValidObjectID(s string) bool {
	if len(s) != objectIDRawLen*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
