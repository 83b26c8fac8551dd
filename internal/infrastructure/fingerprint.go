package infrastructure

import (
	"encoding/binary"
	"encoding/hex"
	"math"

	"golang.org/x/crypto/sha3"

	"parallel-reduction/internal/domain"
)

// FingerprintNumbers identifies a byte workload in run records.
func FingerprintNumbers(numbers []byte) string {
	sum := sha3.Sum256(numbers)
	return hex.EncodeToString(sum[:8])
}

// FingerprintPoints hashes the IEEE-754 bits of every coordinate.
func FingerprintPoints(points []domain.Point) string {
	h := sha3.New256()
	var buf [16]byte
	for _, p := range points {
		binary.LittleEndian.PutUint64(buf[:8], math.Float64bits(p.X))
		binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(p.Y))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil)[:8])
}

// SHA3Fingerprinter implements domain.Fingerprinter.
type SHA3Fingerprinter struct{}

func (SHA3Fingerprinter) Points(points []domain.Point) string { return FingerprintPoints(points) }

func (SHA3Fingerprinter) Numbers(numbers []byte) string { return FingerprintNumbers(numbers) }
