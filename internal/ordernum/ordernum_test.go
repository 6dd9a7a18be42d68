package ordernum

import (
	"bytes"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func fixedNow() time.Time { return time.UnixMilli(1700000000123) }

func TestGeneratorFormats(t *testing.T) {
	t.Parallel()
	g := &Generator{Now: fixedNow}

	tests := []struct {
		name string
		gen  func() (string, error)
		re   string
	}{
		{"order", g.Order, `^TS1700000000123[0-9A-Z]{6}$`},
		{"guest", g.Guest, `^TSG1700000000123[0-9A-Z]{6}$`},
		{"sku", g.SKU, `^TS1700000000123[0-9A-Z]{5}$`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.gen()
			require.NoError(t, err)
			assert.Regexp(t, regexp.MustCompile(tt.re), got)
		})
	}
}

func TestGeneratorDeterministicWithReader(t *testing.T) {
	t.Parallel()
	seed := bytes.Repeat([]byte{0x01}, 64)
	a := &Generator{Now: fixedNow, Rand: bytes.NewReader(seed)}
	b := &Generator{Now: fixedNow, Rand: bytes.NewReader(seed)}

	x, err := a.Order()
	require.NoError(t, err)
	y, err := b.Order()
	require.NoError(t, err)
	assert.Equal(t, x, y)
}

func TestGeneratorRandomFailure(t *testing.T) {
	t.Parallel()
	g := &Generator{Now: fixedNow, Rand: failingReader{}}
	_, err := g.Order()
	require.Error(t, err)
}

func TestGeneratorMostlyUnique(t *testing.T) {
	t.Parallel()
	g := New()
	seen := make(map[string]struct{}, 500)
	for i := 0; i < 500; i++ {
		n, err := g.Order()
		require.NoError(t, err)
		seen[n] = struct{}{}
	}
	assert.Len(t, seen, 500)
}
