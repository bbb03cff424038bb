package profile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumener/lumener/internal/curve"
	"github.com/lumener/lumener/internal/models"
	"github.com/lumener/lumener/internal/profile"
)

func Test_Evaluate(t *testing.T) {

	t.Run("dimmable: target carries the curve output as brightness", func(t *testing.T) {
		t.Parallel()
		// arrange
		table, _ := curve.Build([]curve.Breakpoint{{Control: 80, Output: 100}})
		p := profile.New("001", "lamp", models.CapabilityDimmable, table)

		// act
		target := p.Evaluate(40)

		// assert
		assert.True(t, target.On)
		if assert.NotNil(t, target.Brightness) {
			assert.Equal(t, 50, *target.Brightness)
		}
	})

	t.Run("dimmable: zero output means off with no brightness", func(t *testing.T) {
		t.Parallel()
		table, _ := curve.Build([]curve.Breakpoint{{Control: 60, Output: 0}})
		p := profile.New("001", "lamp", models.CapabilityDimmable, table)

		target := p.Evaluate(30)

		assert.False(t, target.On)
		assert.Nil(t, target.Brightness)
	})

	t.Run("onoff: on exactly when the curve output is nonzero", func(t *testing.T) {
		t.Parallel()
		table, _ := curve.Build([]curve.Breakpoint{{Control: 20, Output: 0}, {Control: 50, Output: 30}, {Control: 100, Output: 0}})
		p := profile.New("001", "switch", models.CapabilityOnOff, table)

		for _, c := range []int{0, 20, 100} {
			assert.False(t, p.Evaluate(c).On, "control %d", c)
		}
		for c := 21; c <= 99; c++ {
			target := p.Evaluate(c)
			assert.True(t, target.On, "control %d", c)
			assert.Nil(t, target.Brightness)
		}
	})

}
