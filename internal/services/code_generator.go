package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// codeRange spans the 5-digit visitor codes 10000–99999.
var codeRange = big.NewInt(90000)

// codeOffset is the lowest 5-digit code.
const codeOffset = 10000

// GenerateUniqueCode draws uniform 5-digit decimal codes until one does
// not collide with an existing visitor id. The code doubles as the QR
// payload. Collision probability is low at realistic volumes, so the
// loop has no retry bound.
func GenerateUniqueCode(exists func(code string) bool) (string, error) {
	for {
		n, err := rand.Int(rand.Reader, codeRange)
		if err != nil {
			return "", fmt.Errorf("failed to generate visitor code: %w", err)
		}
		code := fmt.Sprintf("%05d", n.Int64()+codeOffset)
		if !exists(code) {
			return code, nil
		}
	}
}
