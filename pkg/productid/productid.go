// Package productid allocates catalog identifiers of the form <letters><digits>.
package productid

import (
	"errors"
	"fmt"
	"regexp"
)

// DefaultSeed is incremented when there is no previous identifier, so the first
// allocated identifier is TBP10001.
const DefaultSeed = "TBP10000"

var ErrMalformed = errors.New("identifier does not match <letters><digits>")

var pattern = regexp.MustCompile(`^([A-Za-z]+)([0-9]+)$`)

type Allocator struct {
	Seed string
}

// Next returns lastID with its numeric suffix incremented by one. The digit width is
// kept, growing only on carry out of the leading digit. An empty lastID allocates
// from the seed. The allocator is stateless and trusts its input, so callers must pass
// the most recent authoritative identifier.
func (a Allocator) Next(lastID string) (string, error) {
	if lastID == "" {
		seed := a.Seed
		if seed == "" {
			seed = DefaultSeed
		}
		next, err := increment(seed)
		if err != nil {
			return "", fmt.Errorf("seed: %w", err)
		}
		return next, nil
	}
	return increment(lastID)
}

// Valid reports whether id has the <letters><digits> shape.
func Valid(id string) bool {
	return pattern.MatchString(id)
}

func increment(id string) (string, error) {
	m := pattern.FindStringSubmatch(id)
	if m == nil {
		return "", fmt.Errorf("%q: %w", id, ErrMalformed)
	}
	prefix, digits := m[1], []byte(m[2])

	i := len(digits) - 1
	for ; i >= 0; i-- {
		if digits[i] < '9' {
			digits[i]++
			break
		}
		digits[i] = '0'
	}
	if i < 0 {
		digits = append([]byte{'1'}, digits...)
	}
	return prefix + string(digits), nil
}
