// Package coupon formats the promotional codes spliced into outbound messaging links.
//
// A code is four 4-character blocks joined by "-":
//
//	Y R R R - R R M M - R D D R - m m h h
//
// Y is year mod 36 as one base-36 digit, MM the month, DD the day, mm the minute and
// hh the hour (24h). R positions are random symbols from 0-9A-Z. Codes are promotional,
// not transactional: collisions are possible and acceptable.
package coupon

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Alphabet holds the 36 symbols a code is drawn from.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Length is the fixed length of every code.
const Length = 19

// Pattern matches a well-formed code.
var Pattern = regexp.MustCompile(`^[0-9A-Z]{4}-[0-9A-Z]{4}-[0-9A-Z]{4}-[0-9A-Z]{4}$`)

// Source draws uniform integers in [0, n).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

type defaultSource struct{}

func (defaultSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource draws from the process-wide math/rand/v2 generator.
var DefaultSource Source = defaultSource{}

// Generate builds a code from the wall-clock fields of now.
// The caller is responsible for converting now into the business location.
// A nil rnd uses DefaultSource.
func Generate(now time.Time, rnd Source) string {
	if rnd == nil {
		rnd = DefaultSource
	}

	var b strings.Builder
	b.Grow(Length)

	// Block 1: year digit + 3 random
	b.WriteString(yearDigit(now.Year()))
	writeRandom(&b, rnd, 3)
	b.WriteByte('-')

	// Block 2: 2 random + month
	writeRandom(&b, rnd, 2)
	fmt.Fprintf(&b, "%02d", int(now.Month()))
	b.WriteByte('-')

	// Block 3: random + day + random
	writeRandom(&b, rnd, 1)
	fmt.Fprintf(&b, "%02d", now.Day())
	writeRandom(&b, rnd, 1)
	b.WriteByte('-')

	// Block 4: minute precedes hour
	fmt.Fprintf(&b, "%02d%02d", now.Minute(), now.Hour())

	return b.String()
}

// Valid reports whether code has the shape produced by Generate.
func Valid(code string) bool {
	return len(code) == Length && Pattern.MatchString(code)
}

func yearDigit(year int) string {
	m := year % 36
	if m < 0 {
		m += 36
	}
	return strings.ToUpper(strconv.FormatInt(int64(m), 36))
}

func writeRandom(b *strings.Builder, rnd Source, n int) {
	for i := 0; i < n; i++ {
		b.WriteByte(Alphabet[rnd.IntN(len(Alphabet))])
	}
}
