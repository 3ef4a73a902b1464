package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffStaysWithinJitteredCap(t *testing.T) {
	b := newBackoff(time.Second, 16*time.Second)
	for i := 0; i < 10; i++ {
		d := b.next()
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, time.Duration(float64(16*time.Second)*1.2)+1)
	}
}

func TestBackoffResetStartsOverAtBase(t *testing.T) {
	b := newBackoff(time.Second, 60*time.Second)
	b.next()
	b.next()
	b.next()
	b.reset()
	d := b.next()
	// first draw after reset should be roughly base, i.e. well under cap.
	assert.Less(t, d, 2*time.Second)
}

func TestBackoffNeverNegative(t *testing.T) {
	b := newBackoff(time.Second, 60*time.Second)
	for i := 0; i < 50; i++ {
		assert.GreaterOrEqual(t, b.next(), time.Duration(0))
	}
}
