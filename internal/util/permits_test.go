package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/frameforge/mediacore/internal/util"
)

func TestCapWorkersNeverExceedsRequested(t *testing.T) {
	actual, capped := util.CapWorkers(4, 1920, 1080)
	assert.LessOrEqual(t, actual, 4)
	if capped {
		assert.Less(t, actual, 4)
	} else {
		assert.Equal(t, 4, actual)
	}
}

func TestCapWorkersAtLeastOne(t *testing.T) {
	actual, _ := util.CapWorkers(1000000, 7680, 4320)
	assert.GreaterOrEqual(t, actual, 1)
}

func TestCapWorkersHandlesUnknownDimensions(t *testing.T) {
	actual, _ := util.CapWorkers(2, 0, 0)
	assert.GreaterOrEqual(t, actual, 1)
	assert.LessOrEqual(t, actual, 2)
}

func TestLogicalCoresIsPositive(t *testing.T) {
	assert.Greater(t, util.LogicalCores(), 0)
}

func TestPhysicalCoresIsPositive(t *testing.T) {
	assert.Greater(t, util.PhysicalCores(), 0)
	assert.LessOrEqual(t, util.PhysicalCores(), util.LogicalCores())
}
