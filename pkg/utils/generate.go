package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// ==================== UUID ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

// ==================== BOOKING REFERENCE ====================

// GenerateBookingRef builds the human-readable booking reference from the
// booking date and today's sequence number.
// Format: GURU-SP-YYYYMMDD-NNN
func GenerateBookingRef(t time.Time, sequence int64) string {
	return fmt.Sprintf("GURU-SP-%s-%03d", t.Format("20060102"), sequence)
}

// ==================== SETTLEMENT TOKEN ====================

// GenerateSettlementToken returns a short opaque token handed to the front
// desk when extra time is settled in cash.
func GenerateSettlementToken() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	rand.New(rand.NewSource(time.Now().UnixNano()))

	token := make([]byte, 8)
	for i := range token {
		token[i] = alphabet[rand.Intn(len(alphabet))]
	}

	return string(token)
}
