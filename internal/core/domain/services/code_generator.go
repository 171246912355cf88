package services

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"dispatch/internal/core/domain/model/job"
)

var codeSpace = big.NewInt(1_000_000)

// CodeGenerator produces pickup code values.
type CodeGenerator interface {
	Generate() (string, error)
}

// RandomCodeGenerator draws six digits uniformly from a cryptographic source.
// Leading zeros are kept.
type RandomCodeGenerator struct {
	source io.Reader
}

func NewRandomCodeGenerator() RandomCodeGenerator {
	return RandomCodeGenerator{source: rand.Reader}
}

// NewRandomCodeGeneratorFrom reads randomness from source instead of crypto/rand.
func NewRandomCodeGeneratorFrom(source io.Reader) RandomCodeGenerator {
	return RandomCodeGenerator{source: source}
}

func (g RandomCodeGenerator) Generate() (string, error) {
	source := g.source
	if source == nil {
		source = rand.Reader
	}
	n, err := rand.Int(source, codeSpace)
	if err != nil {
		return "", fmt.Errorf("generate pickup code: %w", err)
	}
	return fmt.Sprintf("%0*d", job.PickupCodeLength, n.Int64()), nil
}
