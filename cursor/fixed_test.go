package cursor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixed(t *testing.T) {
	assert.Equal(t, 10, FixedInt(10).Int())
	assert.Equal(t, 0, FixedInt(10).Frac())
	assert.Equal(t, 10.5, FixedFloat(10.5).Float())
	assert.Equal(t, 128, FixedFloat(10.5).Frac())

	// Int rounds towards negative infinity.
	assert.Equal(t, -3, (FixedInt(-3) + Fixed(128)).Int())
}
