/*
Package randx provides functions for generating random identifiers.

It builds chat message identifiers from a millisecond timestamp plus a Base62 suffix drawn
from crypto/rand, and document bin identifiers from UUIDs.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// MessageIDPrefix prefixes identifiers of user-authored chat messages.
	MessageIDPrefix = "msg-"

	// SystemMessageIDPrefix prefixes identifiers of system announcements.
	SystemMessageIDPrefix = "sys-"

	// MessageSuffixLength is the length of the random Base62 suffix of a message ID.
	MessageSuffixLength = 8

	// BinIDLength is the length of a bin identifier (hex digits of a UUID).
	BinIDLength = 20
)

// base62 returns n random Base62 characters using crypto/rand.
func base62(n int) (string, error) {
	result := make([]byte, n)

	for i := range n {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %v", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// MessageID returns "msg-" followed by the epoch milliseconds of now and a random suffix.
// Two IDs minted in the same millisecond collide only if their suffixes match.
func MessageID(now time.Time) string {
	suffix, err := base62(MessageSuffixLength)
	if err != nil {
		// crypto/rand failed; nanoseconds still separate IDs within the millisecond.
		suffix = strconv.Itoa(now.Nanosecond())
	}

	return MessageIDPrefix + strconv.FormatInt(now.UnixMilli(), 10) + suffix
}

// SystemMessageID returns "sys-" followed by the epoch milliseconds of now.
func SystemMessageID(now time.Time) string {
	return SystemMessageIDPrefix + strconv.FormatInt(now.UnixMilli(), 10)
}

// BinID generates a new document bin identifier: the first BinIDLength hex digits of a UUID v4.
func BinID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:BinIDLength]
}

// IsValidBinID checks that id has BinIDLength characters, all of them Base62.
func IsValidBinID(id string) bool {
	if len(id) != BinIDLength {
		return false
	}

	for _, char := range id {
		if !strings.ContainsRune(Base62Chars, char) {
			return false
		}
	}

	return true
}
