package encoder

// escapeByte maps each escaped input byte to the second byte of its
// two-byte escape sequence.
var escapeByte = [256]byte{
	'"':  '"',
	'\\': '\\',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
}

// EscapedLen returns the length of s after JSON string escaping.
func EscapedLen[T ~string | ~[]byte](s T) int {
	n := len(s)
	for i := 0; i < len(s); i++ {
		if escapeByte[s[i]] != 0 {
			n++
		}
	}
	return n
}

// AppendEscapedJSON appends s to dst with exactly ", \, newline, carriage
// return and tab rewritten as two-byte escapes. All other bytes, including
// other control characters and non-ASCII bytes, are copied unchanged.
func AppendEscapedJSON[T ~string | ~[]byte](dst []byte, s T) []byte {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if e := escapeByte[c]; e != 0 {
			dst = append(dst, '\\', e)
			continue
		}
		dst = append(dst, c)
	}
	return dst
}
