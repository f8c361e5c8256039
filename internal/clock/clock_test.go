package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockClock(t *testing.T) {
	start := time.Date(2026, time.February, 4, 13, 25, 0, 0, time.UTC)
	c := NewMockClock(start)

	assert.Equal(t, start, c.Now())

	c.Advance(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second), c.Now())

	later := start.Add(24 * time.Hour)
	c.Set(later)
	assert.Equal(t, later, c.Now())
}

func TestRealClock(t *testing.T) {
	before := time.Now()
	now := RealClock{}.Now()

	assert.False(t, now.Before(before))
}

func TestTimezoneDatabaseEmbedded(t *testing.T) {
	loc, err := time.LoadLocation("America/Mexico_City")

	assert.NoError(t, err)
	assert.Equal(t, "America/Mexico_City", loc.String())
}
