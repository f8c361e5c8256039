package coupon

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource always returns the same index.
type fixedSource int

func (f fixedSource) IntN(n int) int { return int(f) % n }

// seqSource returns 0, 1, 2, ... wrapping at n.
type seqSource struct {
	next int
}

func (s *seqSource) IntN(n int) int {
	v := s.next % n
	s.next++
	return v
}

func TestGenerate_ExampleTimestamp(t *testing.T) {
	now := time.Date(2026, time.February, 4, 13, 25, 0, 0, time.Local)

	code := Generate(now, fixedSource(0))

	assert.Equal(t, "A000-0002-0040-2513", code)
}

func TestGenerate_FixedPositions(t *testing.T) {
	now := time.Date(2026, time.February, 4, 13, 25, 0, 0, time.Local)

	code := Generate(now, nil)
	require.Len(t, code, Length)

	blocks := strings.Split(code, "-")
	require.Len(t, blocks, 4)

	assert.Equal(t, "A", blocks[0][:1], "year digit: 2026 mod 36 = 10")
	assert.Equal(t, "02", blocks[1][2:], "month suffix")
	assert.Equal(t, "04", blocks[2][1:3], "day in the middle")
	assert.Equal(t, "2513", blocks[3], "minute then hour")
}

func TestGenerate_RandomPositionsFollowSource(t *testing.T) {
	now := time.Date(2025, time.December, 31, 23, 59, 0, 0, time.UTC)

	code := Generate(now, &seqSource{})

	// 2025 mod 36 = 9; random draws are 0..6 in order.
	assert.Equal(t, "9012-3412-5316-5923", code)
}

func TestGenerate_PaddedFields(t *testing.T) {
	// 2015 mod 36 = 35
	now := time.Date(2015, time.March, 7, 0, 5, 0, 0, time.UTC)

	code := Generate(now, fixedSource(35))

	assert.Equal(t, "ZZZZ-ZZ03-Z07Z-0500", code)
}

func TestGenerate_YearDigit(t *testing.T) {
	testCases := []struct {
		year     int
		expected string
	}{
		{year: 2016, expected: "0"},
		{year: 2025, expected: "9"},
		{year: 2026, expected: "A"},
		{year: 2051, expected: "Z"},
		{year: 2052, expected: "0"},
	}

	for _, tc := range testCases {
		code := Generate(time.Date(tc.year, time.January, 1, 0, 0, 0, 0, time.UTC), fixedSource(0))
		assert.Equal(t, tc.expected, code[:1], "year %d", tc.year)
	}
}

func TestGenerate_AlwaysMatchesPattern(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	start := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 2000; i++ {
		now := start.Add(time.Duration(rnd.IntN(20*365*24)) * time.Hour).Add(time.Duration(rnd.IntN(60)) * time.Minute)
		code := Generate(now, rnd)

		require.True(t, Valid(code), "code %q for %s", code, now)
		assert.Equal(t, now.Format("01"), code[7:9])
		assert.Equal(t, now.Format("02"), code[11:13])
		assert.Equal(t, now.Format("0415"), code[15:])
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("A1B2-C302-D04E-2513"))
	assert.False(t, Valid("a1b2-c302-d04e-2513"), "lower case is not produced")
	assert.False(t, Valid("A1B2C302D04E2513"))
	assert.False(t, Valid("A1B2-C302-D04E-251"))
	assert.False(t, Valid(""))
}
