package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRandomNumber(t *testing.T) {
	for i := 0; i < 1000; i++ {
		n := GenerateRandomNumber(100000, 999999)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
	assert.Equal(t, 7, GenerateRandomNumber(7, 7))
}
