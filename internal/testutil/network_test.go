package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildTriangleHasExpectedTopology(t *testing.T) {
	tri := BuildTriangle(t)
	assert.Equal(t, 3, tri.Net.NumNodes())
	assert.Equal(t, 3, tri.Net.NumBranches())
	assert.Equal(t, float64(50), tri.Net.Generator(tri.Gen).P0)
	assert.Equal(t, float64(50), tri.Net.Load(tri.Load).Value)
}

func TestBuildTwoZoneHVDCBalancesAcrossLink(t *testing.T) {
	e2 := BuildTwoZoneHVDC(t)
	assert.Equal(t, 2, e2.Net.NumZones())
	hv := e2.Net.HVDC(e2.HVDC)
	assert.Equal(t, 100.0, hv.SetPoint)
}

func TestBuildLostPocketIsolatesGeneratorAndLoad(t *testing.T) {
	e4 := BuildLostPocket(t)
	assert.Equal(t, 30.0, e4.Net.Generator(e4.PocketGen).P0)
	assert.Equal(t, 10.0, e4.Net.Load(e4.PocketLoad).Value)
	assert.Len(t, e4.Net.Node(e4.P).Branches, 1)
}
