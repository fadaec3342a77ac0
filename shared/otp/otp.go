// Package otp produces numeric one-time codes for email verification.
package otp

//go:generate go run go.uber.org/mock/mockgen -source=./otp.go -destination=./mocks/otp_mock.go -package=mocks

import (
	"crypto/rand"
	"fmt"
	"io"
	"kumbam/config"
	"math/big"
)

const DefaultLength = 6

type Generator interface {
	Generate() (string, error)
}

type generatorImpl struct {
	length int
	source io.Reader
}

func New(cfg *config.Config) Generator {
	return NewWithSource(cfg.OTP.Length, rand.Reader)
}

// NewWithSource builds a Generator reading entropy from source. Lengths below one
// fall back to DefaultLength.
func NewWithSource(length int, source io.Reader) Generator {
	if length < 1 {
		length = DefaultLength
	}

	return &generatorImpl{
		length: length,
		source: source,
	}
}

// Generate returns a zero-padded decimal code, uniformly distributed over its range.
func (g *generatorImpl) Generate() (string, error) {
	upper := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(g.length)), nil)

	n, err := rand.Int(g.source, upper)
	if err != nil {
		return "", fmt.Errorf("failed to read random source: %w", err)
	}

	return fmt.Sprintf("%0*d", g.length, n), nil
}
