package badger

import (
	"encoding/binary"

	"github.com/rodeoai/chute/core"
)

// Key prefixes for different data types
const (
	fileSeenPrefix    = "dupfile"
	dataSeenPrefix    = "dupdata"
	reviewEntryPrefix = "rvqent"
	reviewFpPrefix    = "rvqfp"
	reviewEntrySeq    = "rvqseq"
)

// makeFileSeenKey generates a membership key for a file fingerprint.
func makeFileSeenKey(fp core.Fingerprint) []byte {
	return makeFingerprintKey(fileSeenPrefix, fp)
}

// makeDataSeenKey generates a membership key for a data fingerprint.
func makeDataSeenKey(fp core.Fingerprint) []byte {
	return makeFingerprintKey(dataSeenPrefix, fp)
}

func makeFingerprintKey(prefix string, fp core.Fingerprint) []byte {
	buf := make([]byte, len(prefix)+1+core.FingerprintSize)
	offset := copy(buf, prefix)
	buf[offset] = ':'
	copy(buf[offset+1:], fp[:])
	return buf
}

// makeReviewEntryKey generates a key for a review entry by sequence number.
// The sequence is written in BigEndian order so lexicographic key order
// equals insertion order.
func makeReviewEntryKey(seq uint64) []byte {
	prefix := reviewEntryPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makeReviewFpKey generates a composite index key mapping a file fingerprint
// to a review entry sequence.
// Format: prefix:fingerprint:seq
func makeReviewFpKey(fp core.Fingerprint, seq uint64) []byte {
	prefix := reviewFpPrefix + ":"
	buf := make([]byte, len(prefix)+core.FingerprintSize+8)
	offset := copy(buf, prefix)
	offset += copy(buf[offset:], fp[:])
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makePartialReviewFpKey generates a prefix for scanning all review entries
// of one file fingerprint.
func makePartialReviewFpKey(fp core.Fingerprint) []byte {
	prefix := reviewFpPrefix + ":"
	buf := make([]byte, len(prefix)+core.FingerprintSize)
	offset := copy(buf, prefix)
	copy(buf[offset:], fp[:])
	return buf
}

// reviewSeqFromFpKey extracts the entry sequence from a fingerprint index key.
func reviewSeqFromFpKey(key []byte) uint64 {
	return binary.BigEndian.Uint64(key[len(key)-8:])
}
