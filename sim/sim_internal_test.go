package sim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/adaptive-tls-oss/engine"
	"github.com/tsinghua-fib-lab/adaptive-tls-oss/utils/config"
)

func TestAddVehicleBalancesLanes(t *testing.T) {
	s := New(config.Sim{LanesPerRoad: 2}, "tls0", 30)

	for i := 0; i < 100; i++ {
		s.addVehicle(fmt.Sprintf("v%d", i), defaultClass, engine.DirectionNS, true)
	}

	counts := make(map[string]int)
	for _, v := range s.vehicles {
		counts[v.laneID]++
	}
	// 占用加权选道具有自平衡性：两条车道都被使用且负载接近
	assert.Len(t, counts, 2)
	assert.InDelta(t, 50, counts["NS_in_0"], 25)
	assert.InDelta(t, 50, counts["NS_in_1"], 25)
}
