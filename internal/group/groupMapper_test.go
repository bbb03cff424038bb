package group_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lumener/lumener/internal/curve"
	"github.com/lumener/lumener/internal/group"
	"github.com/lumener/lumener/internal/models"
	"github.com/lumener/lumener/internal/profile"
)

func buildProfile(t *testing.T, id string, capability models.Capability, points []curve.Breakpoint) profile.Profile {
	t.Helper()
	table, err := curve.Build(points)
	assert.NoError(t, err)
	return profile.New(id, id, capability, table)
}

func observed(on bool, brightness int, at time.Time) models.Observation {
	if !on {
		return models.Observation{On: false, Time: at}
	}
	return models.Observation{On: true, Brightness: &brightness, Time: at}
}

func Test_NewMapper(t *testing.T) {

	t.Run("should reject duplicate member ids", func(t *testing.T) {
		t.Parallel()
		a := buildProfile(t, "001", models.CapabilityDimmable, nil)

		_, err := group.NewMapper([]profile.Profile{a, a})

		assert.Error(t, err)
	})

}

func Test_Forward(t *testing.T) {

	t.Run("should evaluate every member independently", func(t *testing.T) {
		t.Parallel()
		// arrange
		mapper, _ := group.NewMapper([]profile.Profile{
			buildProfile(t, "main", models.CapabilityDimmable, []curve.Breakpoint{{Control: 80, Output: 100}}),
			buildProfile(t, "accent", models.CapabilityDimmable, []curve.Breakpoint{{Control: 60, Output: 0}}),
			buildProfile(t, "strip", models.CapabilityOnOff, []curve.Breakpoint{{Control: 50, Output: 0}}),
		})

		// act
		targets := mapper.Forward(40)

		// assert
		assert.Len(t, targets, 3)
		if assert.NotNil(t, targets["main"].Brightness) {
			assert.Equal(t, 50, *targets["main"].Brightness)
		}
		assert.False(t, targets["accent"].On)
		assert.False(t, targets["strip"].On)
	})

}

func Test_InferControl(t *testing.T) {

	now := time.Now()

	t.Run("single dimmable member with identity curve", func(t *testing.T) {
		t.Parallel()
		mapper, _ := group.NewMapper([]profile.Profile{
			buildProfile(t, "001", models.CapabilityDimmable, nil),
		})

		control, err := mapper.InferControl(map[string]models.Observation{
			"001": observed(true, 70, now),
		}, -1)

		assert.NoError(t, err)
		assert.Equal(t, 70, control)
	})

	t.Run("dimmable member observed off counts as output zero", func(t *testing.T) {
		t.Parallel()
		mapper, _ := group.NewMapper([]profile.Profile{
			buildProfile(t, "001", models.CapabilityDimmable, []curve.Breakpoint{{Control: 60, Output: 0}}),
		})

		control, err := mapper.InferControl(map[string]models.Observation{
			"001": observed(false, 0, now),
		}, -1)

		assert.NoError(t, err)
		assert.Equal(t, 0, control)
	})

	t.Run("onoff member observed on gives no evidence", func(t *testing.T) {
		t.Parallel()
		mapper, _ := group.NewMapper([]profile.Profile{
			buildProfile(t, "001", models.CapabilityOnOff, nil),
		})

		_, err := mapper.InferControl(map[string]models.Observation{
			"001": observed(true, 0, now),
		}, -1)

		assert.ErrorIs(t, err, group.ErrUnknown)
	})

	t.Run("onoff member observed off maps to the smallest off control value", func(t *testing.T) {
		t.Parallel()
		mapper, _ := group.NewMapper([]profile.Profile{
			buildProfile(t, "001", models.CapabilityOnOff, []curve.Breakpoint{{Control: 60, Output: 0}}),
		})

		control, err := mapper.InferControl(map[string]models.Observation{
			"001": observed(false, 0, now),
		}, -1)

		assert.NoError(t, err)
		assert.Equal(t, 0, control)
	})

	t.Run("dimmable evidence beats onoff evidence", func(t *testing.T) {
		t.Parallel()
		mapper, _ := group.NewMapper([]profile.Profile{
			buildProfile(t, "dim", models.CapabilityDimmable, nil),
			buildProfile(t, "bin", models.CapabilityOnOff, nil),
		})

		control, err := mapper.InferControl(map[string]models.Observation{
			"dim": observed(true, 45, now),
			"bin": observed(false, 0, now.Add(time.Second)),
		}, -1)

		assert.NoError(t, err)
		assert.Equal(t, 45, control)
	})

	t.Run("disagreeing dimmable members: most recently changed wins", func(t *testing.T) {
		t.Parallel()
		mapper, _ := group.NewMapper([]profile.Profile{
			buildProfile(t, "old", models.CapabilityDimmable, nil),
			buildProfile(t, "new", models.CapabilityDimmable, nil),
		})

		control, err := mapper.InferControl(map[string]models.Observation{
			"old": observed(true, 30, now),
			"new": observed(true, 80, now.Add(time.Second)),
		}, -1)

		assert.NoError(t, err)
		assert.Equal(t, 80, control)
	})

	t.Run("members agreeing within tolerance: first configured wins", func(t *testing.T) {
		t.Parallel()
		mapper, _ := group.NewMapper([]profile.Profile{
			buildProfile(t, "a", models.CapabilityDimmable, nil),
			buildProfile(t, "b", models.CapabilityDimmable, nil),
		})

		control, err := mapper.InferControl(map[string]models.Observation{
			"a": observed(true, 50, now),
			"b": observed(true, 51, now.Add(time.Second)),
		}, -1)

		assert.NoError(t, err)
		assert.Equal(t, 50, control)
	})

	t.Run("no observations: should report unknown", func(t *testing.T) {
		t.Parallel()
		mapper, _ := group.NewMapper([]profile.Profile{
			buildProfile(t, "001", models.CapabilityDimmable, nil),
		})

		_, err := mapper.InferControl(map[string]models.Observation{}, 50)

		assert.ErrorIs(t, err, group.ErrUnknown)
	})

}
