package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrZero(t *testing.T) {
	assert.Equal(t, int64(0), OrZero[int64](nil))
	assert.Equal(t, "log", OrZero(Ptr("log")))
}

func TestPtrEquals(t *testing.T) {
	assert.True(t, PtrEquals(Ptr(int64(3)), 3))
	assert.False(t, PtrEquals(Ptr(int64(3)), 4))
	assert.False(t, PtrEquals(nil, int64(3)))
}

func TestNilIfBlank(t *testing.T) {
	tests := []struct {
		in   string
		want *string
	}{
		{in: "", want: nil},
		{in: "  \t", want: nil},
		{in: " https://logs.example/1 ", want: Ptr("https://logs.example/1")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NilIfBlank(tt.in), "input %q", tt.in)
	}
}
