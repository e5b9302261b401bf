package utils

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// VendorCodePrefix prefixes every enrollment code handed to a new vendor
const VendorCodePrefix = "VDI"

// GenerateVendorCode generates a unique enrollment code for a new vendor.
// Format: VDI-{RANDOM} where RANDOM is 6 alphanumeric characters.
// Example: VDI-ABC123
func GenerateVendorCode() (string, error) {
	// 4 random bytes give 6 characters in unpadded base32
	randomBytes := make([]byte, 4)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return "", err
	}

	randomStr := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)
	randomStr = randomStr[:6]

	randomStr = strings.ToUpper(randomStr)
	randomStr = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, randomStr)

	if len(randomStr) < 6 {
		randomStr = randomStr + strings.Repeat("0", 6-len(randomStr))
	}

	return VendorCodePrefix + "-" + randomStr, nil
}
