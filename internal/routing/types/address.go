package types

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// MaxPrefixLength is the prefix length of a single IPv4 host
const MaxPrefixLength = 32

// Address is an IPv4 network in CIDR form. The value is always masked
// to the prefix length, so 192.168.1.5/24 is stored as 192.168.1.0/24.
type Address struct {
	value  uint32
	prefix int
}

// Mask returns the network mask for the given prefix length
func Mask(prefix int) uint32 {
	if prefix <= 0 {
		return 0
	}
	if prefix >= MaxPrefixLength {
		return 0xFFFFFFFF
	}
	return 0xFFFFFFFF << (MaxPrefixLength - prefix)
}

// AddressFrom builds an address from its numeric parts, masking the value
func AddressFrom(value uint32, prefix int) Address {
	return Address{value: value & Mask(prefix), prefix: prefix}
}

// ParseAddress parses "a.b.c.d" (implicit /32) or "a.b.c.d/n"
func ParseAddress(text string) (Address, error) {
	input := strings.TrimSpace(text)

	ip, prefixText, hasPrefix := strings.Cut(input, "/")

	prefix := MaxPrefixLength
	if hasPrefix {
		n, ok := parseDecimal(prefixText, MaxPrefixLength)
		if !ok {
			return Address{}, badPrefix(text, "prefix length must be 0-%d", MaxPrefixLength)
		}
		prefix = n
	}

	parts := strings.Split(ip, ".")
	if len(parts) != 4 {
		return Address{}, malformed(text, "expected 4 octets, got %d", len(parts))
	}

	var value uint32
	for i, part := range parts {
		octet, ok := parseDecimal(part, 255)
		if !ok {
			return Address{}, malformed(text, "octet %d (%q) must be 0-255", i+1, part)
		}
		value = value<<8 | uint32(octet)
	}

	return AddressFrom(value, prefix), nil
}

// MustParseAddress is like ParseAddress but panics on error
func MustParseAddress(text string) Address {
	a, err := ParseAddress(text)
	if err != nil {
		panic(err)
	}
	return a
}

// parseDecimal accepts a non-empty run of ASCII digits no greater than max
func parseDecimal(s string, max int) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > max {
		return 0, false
	}
	return n, true
}

// Value returns the masked 32-bit network value
func (a Address) Value() uint32 {
	return a.value
}

// Prefix returns the prefix length
func (a Address) Prefix() int {
	return a.prefix
}

// Contains reports whether other, masked to a's prefix length, equals a's
// network value. other's own prefix length is ignored.
func (a Address) Contains(other Address) bool {
	return other.value&Mask(a.prefix) == a.value
}

// Equal reports whether both the masked value and prefix length match
func (a Address) Equal(b Address) bool {
	return a == b
}

// IP returns the dotted-decimal form without the prefix length
func (a Address) IP() string {
	var b strings.Builder
	b.Grow(15)
	for shift := 24; shift >= 0; shift -= 8 {
		b.WriteString(strconv.Itoa(int(a.value >> uint(shift) & 0xFF)))
		if shift > 0 {
			b.WriteByte('.')
		}
	}
	return b.String()
}

// String returns the canonical "a.b.c.d/n" form
func (a Address) String() string {
	return a.IP() + "/" + strconv.Itoa(a.prefix)
}

// Hash returns the hash code for this address, based on value and prefix
func (a Address) Hash() uint64 {
	h := xxhash.New()
	_, _ = h.Write([]byte{
		byte(a.value >> 24), byte(a.value >> 16), byte(a.value >> 8), byte(a.value),
		byte(a.prefix),
	})
	return h.Sum64()
}
