package domain

import (
	"encoding/hex"
	"strings"
)

// HardwareAddr is a 48-bit IEEE 802 MAC address, the primary key of the
// device cache. The fixed-size array form makes it a comparable value
// type, so it can key maps directly without interning.
type HardwareAddr [6]byte

// HardwareAddrLen is the number of octets in a hardware address.
const HardwareAddrLen = 6

// ParseHardwareAddr parses a colon-separated hexadecimal MAC address,
// e.g. "aa:bb:cc:dd:ee:ff". Parsing is case-insensitive: "AA:BB:CC:DD:EE:FF"
// and "aa:bb:cc:dd:ee:ff" yield the same HardwareAddr.
//
// Returns ErrMalformedAddress (MP-ADDR-4000) if the input does not consist
// of exactly six two-digit hex groups.
func ParseHardwareAddr(s string) (HardwareAddr, error) {
	var addr HardwareAddr

	parts := strings.Split(s, ":")
	if len(parts) != HardwareAddrLen {
		return addr, ErrMalformedAddress.WithDetails(s)
	}

	for i, part := range parts {
		if len(part) != 2 {
			return HardwareAddr{}, ErrMalformedAddress.WithDetails(s)
		}
		b, err := hex.DecodeString(strings.ToLower(part))
		if err != nil {
			return HardwareAddr{}, ErrMalformedAddress.WithDetails(s)
		}
		addr[i] = b[0]
	}

	return addr, nil
}

// MustParseHardwareAddr is like ParseHardwareAddr but panics on error.
// Intended for tests and package-level literals.
func MustParseHardwareAddr(s string) HardwareAddr {
	addr, err := ParseHardwareAddr(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// String formats the address in canonical lowercase colon-hex form.
func (a HardwareAddr) String() string {
	var sb strings.Builder
	sb.Grow(17)
	for i, b := range a {
		if i > 0 {
			sb.WriteByte(':')
		}
		sb.WriteByte(hexDigits[b>>4])
		sb.WriteByte(hexDigits[b&0x0f])
	}
	return sb.String()
}

const hexDigits = "0123456789abcdef"

// Bytes returns the raw octets. Used as the shard hashing input for the
// concurrent map.
func (a HardwareAddr) Bytes() []byte {
	return a[:]
}

// MarshalText implements encoding.TextMarshaler.
func (a HardwareAddr) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *HardwareAddr) UnmarshalText(text []byte) error {
	parsed, err := ParseHardwareAddr(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
