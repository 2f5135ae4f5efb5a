package util

import (
	"math/rand/v2"
)

// GenerateRandomNumber returns a random integer in [min, max].
// It panics if max < min.
func GenerateRandomNumber(min, max int) int {
	return min + rand.IntN(max-min+1)
}
