// Package ordernum generates order numbers and product SKUs.
package ordernum

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"time"
)

const (
	PrefixOrder = "TS"
	PrefixGuest = "TSG"
	PrefixSKU   = "TS"

	orderSuffixLen = 6
	skuSuffixLen   = 5

	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

type Generator struct {
	Now  func() time.Time
	Rand io.Reader
}

func New() *Generator {
	return &Generator{Now: time.Now, Rand: rand.Reader}
}

func (g *Generator) Order() (string, error) {
	return g.build(PrefixOrder, orderSuffixLen)
}

func (g *Generator) Guest() (string, error) {
	return g.build(PrefixGuest, orderSuffixLen)
}

func (g *Generator) SKU() (string, error) {
	return g.build(PrefixSKU, skuSuffixLen)
}

func (g *Generator) build(prefix string, n int) (string, error) {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	r := g.Rand
	if r == nil {
		r = rand.Reader
	}

	suffix, err := randomSuffix(r, n)
	if err != nil {
		return "", fmt.Errorf("order number suffix: %w", err)
	}
	return prefix + strconv.FormatInt(now().UnixMilli(), 10) + suffix, nil
}

func randomSuffix(r io.Reader, n int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, n)
	for i := range b {
		v, err := rand.Int(r, max)
		if err != nil {
			return "", err
		}
		b[i] = alphabet[v.Int64()]
	}
	return string(b), nil
}
