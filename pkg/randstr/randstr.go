package randstr

import (
	"crypto/rand"
	"math/big"
)

var (
	UppercaseAlphanumeric = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")
)

type generator struct {
	letters []byte
	max     *big.Int
}

func New(letters []byte) *generator {
	return &generator{
		letters: letters,
		max:     big.NewInt(int64(len(letters))),
	}
}

func (g generator) GenerateRandomString(length int) string {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, g.max)
		if err != nil {
			// crypto/rand never fails on supported platforms
			panic(err)
		}
		b[i] = g.letters[n.Int64()]
	}

	return string(b)
}
