package cesu8

import (
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// decoder converts a CESU-8 byte stream to UTF-8. It implements
// transform.Transformer so it can be plugged into the protocol encoding
// layer via golang.org/x/text/transform.
type decoder struct{}

// NewDecoder returns a transform.Transformer that converts CESU-8 to UTF-8.
func NewDecoder() transform.Transformer { return decoder{} }

func (decoder) Reset() {}

func (decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		b := src[nSrc:]

		// a 3-byte CESU-8 surrogate half needs up to 6 bytes to resolve;
		// if we don't have enough bytes yet and more may come, ask for more.
		if !atEOF && len(b) < 6 {
			if hi, ok := is3ByteSurrogate(b); ok && hi < surr2 && len(b) < 6 {
				return nDst, nSrc, transform.ErrShortSrc
			}
			if len(b) < utf8.UTFMax {
				// could be a truncated plain UTF-8 sequence too
				if !utf8.FullRune(b) {
					return nDst, nSrc, transform.ErrShortSrc
				}
			}
		}

		r, size := DecodeRune(b)
		if r == utf8.RuneError && size <= 1 {
			if !atEOF && len(b) < CESUMax {
				return nDst, nSrc, transform.ErrShortSrc
			}
			if len(dst)-nDst < utf8.UTFMax {
				return nDst, nSrc, transform.ErrShortDst
			}
			n := utf8.EncodeRune(dst[nDst:], utf8.RuneError)
			nDst += n
			nSrc++
			continue
		}

		n := utf8.RuneLen(r)
		if n < 0 {
			n = utf8.UTFMax
		}
		if len(dst)-nDst < n {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc += size
	}
	return nDst, nSrc, nil
}

// encoder converts a UTF-8 byte stream to CESU-8.
type encoder struct{}

// NewEncoder returns a transform.Transformer that converts UTF-8 to CESU-8.
func NewEncoder() transform.Transformer { return encoder{} }

func (encoder) Reset() {}

func (encoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		b := src[nSrc:]
		if !atEOF && !utf8.FullRune(b) {
			return nDst, nSrc, transform.ErrShortSrc
		}
		r, size := utf8.DecodeRune(b)
		n := RuneLen(r)
		if len(dst)-nDst < n {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += EncodeRune(dst[nDst:], r)
		nSrc += size
	}
	return nDst, nSrc, nil
}
