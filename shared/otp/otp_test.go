package otp_test

import (
	"bytes"
	"crypto/rand"
	"kumbam/shared/otp"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	generator := otp.NewWithSource(6, rand.Reader)
	pattern := regexp.MustCompile(`^\d{6}$`)

	seen := map[string]struct{}{}

	for range 50 {
		code, err := generator.Generate()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)

		seen[code] = struct{}{}
	}

	assert.Greater(t, len(seen), 1, "codes should not repeat every time")
}

func TestGenerate_DefaultLength(t *testing.T) {
	code, err := otp.NewWithSource(0, rand.Reader).Generate()
	require.NoError(t, err)
	assert.Len(t, code, otp.DefaultLength)
}

func TestGenerate_ZeroPadded(t *testing.T) {
	// an all-zero entropy source yields the smallest code
	code, err := otp.NewWithSource(6, bytes.NewReader(make([]byte, 64))).Generate()
	require.NoError(t, err)
	assert.Equal(t, "000000", code)
}

func TestGenerate_SourceFailure(t *testing.T) {
	_, err := otp.NewWithSource(6, bytes.NewReader(nil)).Generate()
	assert.Error(t, err)
}
