// Package digest detects hash types from target digests and provides the
// word -> lowercase hex digest functions the search engine compares against.
package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"strings"

	crackerrors "github.com/Aman-CERP/digestcrack/internal/errors"
)

// Func maps a word to its digest as lowercase hex.
// Implementations must be pure and safe for concurrent use.
type Func func(word string) string

// HashType identifies a supported digest algorithm.
type HashType int

const (
	// Unknown is the zero value and never returned by Detect without an error.
	Unknown HashType = iota
	MD5
	SHA1
	SHA256
	SHA512
)

// hexLengths maps hex digest length to hash type.
var hexLengths = map[int]HashType{
	32:  MD5,
	40:  SHA1,
	64:  SHA256,
	128: SHA512,
}

// String returns the display name used in CLI output ("MD5", "SHA256", ...).
func (h HashType) String() string {
	switch h {
	case MD5:
		return "MD5"
	case SHA1:
		return "SHA1"
	case SHA256:
		return "SHA256"
	case SHA512:
		return "SHA512"
	default:
		return "Unknown"
	}
}

// Ext returns the lowercase name used for index file extensions and keys.
func (h HashType) Ext() string {
	return strings.ToLower(h.String())
}

// HexLen returns the length of a hex digest for this type, or 0 if unknown.
func (h HashType) HexLen() int {
	for n, t := range hexLengths {
		if t == h {
			return n
		}
	}
	return 0
}

// Func returns the digest function for this hash type.
func (h HashType) Func() Func {
	switch h {
	case MD5:
		return func(word string) string {
			sum := md5.Sum([]byte(word))
			return hex.EncodeToString(sum[:])
		}
	case SHA1:
		return func(word string) string {
			sum := sha1.Sum([]byte(word))
			return hex.EncodeToString(sum[:])
		}
	case SHA256:
		return func(word string) string {
			sum := sha256.Sum256([]byte(word))
			return hex.EncodeToString(sum[:])
		}
	case SHA512:
		return func(word string) string {
			sum := sha512.Sum512([]byte(word))
			return hex.EncodeToString(sum[:])
		}
	default:
		return nil
	}
}

// Detect infers the hash type from the length of a hex target digest.
// Lengths 32/40/64/128 map to MD5/SHA1/SHA256/SHA512; anything else is an
// InvalidDigestLength error.
func Detect(target string) (HashType, error) {
	if h, ok := hexLengths[len(target)]; ok {
		return h, nil
	}
	return Unknown, crackerrors.New(crackerrors.ErrCodeInvalidDigestLength,
		fmt.Sprintf("digest length %d matches no supported hash type", len(target)), nil).
		WithDetail("length", fmt.Sprint(len(target))).
		WithSuggestion("Hash must be MD5 (32), SHA1 (40), SHA256 (64) or SHA512 (128) hex characters")
}

// Parse resolves a hash type by name, case-insensitively ("md5", "SHA-256").
func Parse(name string) (HashType, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "") {
	case "md5":
		return MD5, nil
	case "sha1":
		return SHA1, nil
	case "sha256":
		return SHA256, nil
	case "sha512":
		return SHA512, nil
	}
	return Unknown, crackerrors.ValidationError(
		fmt.Sprintf("unknown hash type %q", name), nil).
		WithSuggestion("Use one of md5, sha1, sha256, sha512")
}

// Normalize trims and lowercases a target digest so it compares equal to Func output.
func Normalize(target string) string {
	return strings.ToLower(strings.TrimSpace(target))
}
