package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExponentialBackoff_Growth(t *testing.T) {
	b := ExponentialBackoff(time.Second, WithJitter(0))

	assert.Equal(t, 1*time.Second, b.Next(1))
	assert.Equal(t, 2*time.Second, b.Next(2))
	assert.Equal(t, 4*time.Second, b.Next(3))
	assert.Equal(t, 8*time.Second, b.Next(4))
}

func TestExponentialBackoff_MaxDelayCap(t *testing.T) {
	b := ExponentialBackoff(time.Second, WithJitter(0), WithMaxDelay(5*time.Second))

	assert.Equal(t, 5*time.Second, b.Next(10))
}

func TestExponentialBackoff_CustomMultiplier(t *testing.T) {
	b := ExponentialBackoff(time.Second, WithJitter(0), WithMultiplier(3))

	assert.Equal(t, 1*time.Second, b.Next(1))
	assert.Equal(t, 3*time.Second, b.Next(2))
	assert.Equal(t, 9*time.Second, b.Next(3))
}

func TestExponentialBackoff_JitterBounds(t *testing.T) {
	b := ExponentialBackoff(time.Second, WithJitter(0.5), WithMaxDelay(time.Hour))

	for i := 0; i < 100; i++ {
		delay := b.Next(2)
		assert.GreaterOrEqual(t, delay, 1*time.Second)
		assert.LessOrEqual(t, delay, 3*time.Second)
	}
}

func TestConstantBackoff(t *testing.T) {
	b := ConstantBackoff(2*time.Second, WithJitter(0))

	assert.Equal(t, 2*time.Second, b.Next(1))
	assert.Equal(t, 2*time.Second, b.Next(5))
}

func TestNoBackoff(t *testing.T) {
	b := NoBackoff()

	assert.Equal(t, time.Duration(0), b.Next(1))
	assert.Equal(t, time.Duration(0), b.Next(10))
}

func TestBackoff_NonPositiveAttempt(t *testing.T) {
	assert.Equal(t, time.Duration(0), ExponentialBackoff(time.Second).Next(0))
	assert.Equal(t, time.Duration(0), ConstantBackoff(time.Second).Next(-1))
}
