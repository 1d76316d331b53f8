package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, Money(49900), ToMinorUnits(499))
	assert.Equal(t, Money(0), ToMinorUnits(0))
}

func TestParseCadence(t *testing.T) {
	c, err := ParseCadence("monthly")
	require.NoError(t, err)
	assert.Equal(t, CadenceMonthly, c)
	assert.Equal(t, 12, c.Cycles())

	c, err = ParseCadence(" yearly ")
	require.NoError(t, err)
	assert.Equal(t, CadenceYearly, c)
	assert.Equal(t, 1, c.Cycles())

	for _, bad := range []string{"weekly", "", "Monthly", "annual"} {
		_, err := ParseCadence(bad)
		assert.ErrorIs(t, err, ErrUnknownCadence, "planID=%q", bad)
	}
}
