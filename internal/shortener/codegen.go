package shortener

import (
	"crypto/rand"
	"strings"
)

const codeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const (
	minCustomCodeLength = 4
	maxCustomCodeLength = 32
)

// reservedCodes are path prefixes the router owns. A custom code equal to
// one of these would shadow an API route.
var reservedCodes = map[string]struct{}{
	"api":     {},
	"shorten": {},
	"health":  {},
	"metrics": {},
}

// CryptoCodeGenerator generates base62 codes from crypto/rand.
type CryptoCodeGenerator struct {
	length int
}

func NewCryptoCodeGenerator(length int) *CryptoCodeGenerator {
	if length <= 0 {
		length = 6
	}
	return &CryptoCodeGenerator{length: length}
}

func (g *CryptoCodeGenerator) Generate() (string, error) {
	buf := make([]byte, g.length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	out := make([]byte, g.length)
	for i := range buf {
		out[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}

	return string(out), nil
}

// ValidateCustomCode checks a user-supplied code: alphanumeric plus '-' and
// '_', bounded length, and not a reserved route prefix. Returns
// ErrInvalidCustomCode on any violation.
func ValidateCustomCode(code string) error {
	if len(code) < minCustomCodeLength || len(code) > maxCustomCodeLength {
		return ErrInvalidCustomCode
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return ErrInvalidCustomCode
		}
	}
	if _, reserved := reservedCodes[strings.ToLower(code)]; reserved {
		return ErrInvalidCustomCode
	}
	return nil
}
