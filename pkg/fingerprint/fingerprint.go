// Package fingerprint derives the stable message identity used for
// duplicate suppression.
package fingerprint

import (
	"encoding/binary"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// New hashes the identity of a notification: event type, title and
// content. The target channel set is deliberately excluded, so the same
// message sent to a different channel subset still collides. Severity is
// excluded unless includeLevel is set.
func New(event, title, content, level string, includeLevel bool) string {
	d := xxhash.New()
	writeField(d, event)
	writeField(d, title)
	writeField(d, content)
	if includeLevel {
		writeField(d, level)
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

// writeField length-prefixes each field so that ("ab","c") and ("a","bc")
// never hash to the same value.
func writeField(d *xxhash.Digest, s string) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
	_, _ = d.Write(buf[:])
	_, _ = d.WriteString(s)
}
