package registry

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUnknown = errors.New("unknown")

func upper(s string) (string, error) { return strings.ToUpper(s), nil }

func TestCreate(t *testing.T) {
	r := New[string, string]("codec", errUnknown)
	r.Register("upper", upper)
	r.Register("fail", func(string) (string, error) { return "", errors.New("boom") })

	got, err := r.Create("upper", "gpu")
	require.NoError(t, err)
	assert.Equal(t, "GPU", got)

	_, err = r.Create("fail", "gpu")
	assert.EqualError(t, err, "boom")

	_, err = r.Create("lower", "gpu")
	assert.ErrorIs(t, err, errUnknown)
	assert.EqualError(t, err, `unknown: codec type "lower"`)
}

func TestRegisterReplaces(t *testing.T) {
	r := New[string, string]("codec", errUnknown)
	r.Register("x", upper)
	r.Register("x", func(s string) (string, error) { return s + s, nil })

	got, err := r.Create("x", "ab")
	require.NoError(t, err)
	assert.Equal(t, "abab", got)
	assert.Equal(t, []string{"x"}, r.Names())
}

func TestNamesSorted(t *testing.T) {
	r := New[string, string]("codec", errUnknown)
	assert.Empty(t, r.Names())
	for _, name := range []string{"parquet", "csv", "arrow"} {
		r.Register(name, upper)
	}
	assert.Equal(t, []string{"arrow", "csv", "parquet"}, r.Names())
}

func TestConcurrentUse(t *testing.T) {
	r := New[string, string]("codec", errUnknown)
	r.Register("upper", upper)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Register(strings.Repeat("x", i+1), upper)
		}()
		go func() {
			defer wg.Done()
			_, err := r.Create("upper", "a")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Len(t, r.Names(), 9)
}
