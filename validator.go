package rope

import "unicode/utf8"

// utf8Validator checks that a byte stream delivered in arbitrary chunks is
// well-formed UTF-8 as a whole, without requiring the caller to split
// chunks on code point boundaries. It carries at most 3 pending bytes
// (the longest possible incomplete UTF-8 sequence) between calls.
type utf8Validator struct {
	pending [3]byte
	pendLen int
}

// Validate consumes chunk, returning the prefix of chunk (preceded by any
// carried-over bytes) that forms complete code points, and
// buffering any trailing incomplete sequence for the next call. It
// returns an error if the bytes seen so far cannot be the start of valid
// UTF-8 under any continuation.
func (v *utf8Validator) Validate(chunk []byte) (complete []byte, err error) {
	buf := chunk
	if v.pendLen > 0 {
		buf = append(append([]byte(nil), v.pending[:v.pendLen]...), chunk...)
	}
	if utf8.Valid(buf) {
		v.pendLen = 0
		return buf, nil
	}
	// buf may be invalid only because it ends mid code point; find the
	// longest valid prefix and check whether the remainder could still
	// become valid with more bytes.
	validLen := len(buf)
	for validLen > 0 && !utf8.Valid(buf[:validLen]) {
		validLen--
	}
	tail := buf[validLen:]
	if len(tail) > 3 || !isIncompleteSequence(tail) {
		return nil, errInvalidUTF8
	}
	v.pendLen = copy(v.pending[:], tail)
	return buf[:validLen], nil
}

// Finish reports whether any bytes remain buffered at end of stream; a
// nonzero remainder means the stream ended mid code point.
func (v *utf8Validator) Finish() error {
	if v.pendLen > 0 {
		return errInvalidUTF8
	}
	return nil
}

func isIncompleteSequence(tail []byte) bool {
	if len(tail) == 0 {
		return true
	}
	need := lenUTF8FromFirstByte(tail[0])
	if need == 1 {
		return false
	}
	if len(tail) >= need {
		return false
	}
	for _, b := range tail[1:] {
		if !isContinuation(b) {
			return false
		}
	}
	return true
}
