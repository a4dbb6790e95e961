package validator

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/gagliardetto/solana-go"
)

// NotBlank returns true if a string is not empty or contains only whitespace.
func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

// MinRunes returns true if a string is greater than or equal to a minimum number of n
func MinRunes(value string, n int) bool {
	return utf8.RuneCountInString(value) >= n
}

// MaxRunes returns true if a string is less than or equal to a maximum number of n
func MaxRunes(value string, n int) bool {
	return utf8.RuneCountInString(value) <= n
}

// In returns true if a value is in a list of values.
func In[T comparable](value T, list ...T) bool {
	for i := range list {
		if value == list[i] {
			return true
		}
	}
	return false
}

// Between returns true if min <= value <= max.
func Between[T int | int64 | float64](value, min, max T) bool {
	return value >= min && value <= max
}

// NoDuplicates returns true if all the values in a slice are unique.
func NoDuplicates[T comparable](values []T) bool {
	seen := make(map[T]struct{}, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			return false
		}
		seen[value] = struct{}{}
	}
	return true
}

// NoDuplicatesFold is NoDuplicates for strings, ignoring case and surrounding space.
func NoDuplicatesFold(values []string) bool {
	normalized := make([]string, len(values))
	for i, v := range values {
		normalized[i] = strings.ToLower(strings.TrimSpace(v))
	}
	return NoDuplicates(normalized)
}

// IsURL returns true if a string is a valid URL.
func IsURL(value string) bool {
	u, err := url.ParseRequestURI(value)
	if err != nil {
		return false
	}

	return u.Scheme != "" && u.Host != ""
}

// IsSolanaAddress returns true if value decodes to a 32-byte base58 public key.
func IsSolanaAddress(value string) bool {
	if value == "" {
		return false
	}
	_, err := solana.PublicKeyFromBase58(value)
	return err == nil
}

// IsSolanaSignature returns true if value decodes to a 64-byte base58 transaction signature.
func IsSolanaSignature(value string) bool {
	if value == "" {
		return false
	}
	_, err := solana.SignatureFromBase58(value)
	return err == nil
}
