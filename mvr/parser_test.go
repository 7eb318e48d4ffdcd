// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mvr

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sceneXML = `<?xml version="1.0" encoding="UTF-8"?>
<GeneralSceneDescription verMajor="1" verMinor="5">
  <Scene>
    <Layers>
      <Layer name="Truss" uuid="A0C9E8B4-1F3D-4C2E-9B7A-0D1E2F3A4B5C">
        <ChildList>
          <Fixture name="Spot 1" uuid="6F1C2D3E-4A5B-4C6D-8E7F-901A2B3C4D5E">
            <Matrix>{1,0,0}{0,1,0}{0,0,1}{1000,2000,3000}</Matrix>
            <GDTFSpec>Robe@Spot.gdtf</GDTFSpec>
            <GDTFMode>Mode 1</GDTFMode>
            <CustomCommands>
              <CustomCommand>Body_Pan,f 50</CustomCommand>
              <CustomCommand>Yoke_Tilt,f 25</CustomCommand>
            </CustomCommands>
            <Classing>5A3B2C1D-0000-4000-8000-000000000001</Classing>
            <Addresses>
              <Address break="0">45</Address>
            </Addresses>
            <fixtureId>12</fixtureId>
            <UnitNumber>3</UnitNumber>
            <CustomId>x</CustomId>
            <CastShadow>true</CastShadow>
            <Color>0.3127,0.3290,100.0</Color>
          </Fixture>
          <GroupObject name="Group">
            <ChildList>
              <Fixture name="Wash" uuid="not-a-uuid">
                <GDTFSpec>Wash</GDTFSpec>
                <FixtureID>7</FixtureID>
                <fixtureId>8</fixtureId>
              </Fixture>
            </ChildList>
          </GroupObject>
        </ChildList>
      </Layer>
      <Layer name="Empty" uuid="B0C9E8B4-1F3D-4C2E-9B7A-0D1E2F3A4B5C">
        <ChildList/>
      </Layer>
      <Layer name="NoList" uuid="C0C9E8B4-1F3D-4C2E-9B7A-0D1E2F3A4B5C"/>
    </Layers>
  </Scene>
</GeneralSceneDescription>`

const deviceXML = `<GDTF DataVersion="1.2">
  <FixtureType Name="Spot">
    <PhysicalDescriptions/>
    <Models><Model Name="Base" File="Base"/></Models>
    <Geometries><Geometry Name="Base" Model="Base"/></Geometries>
  </FixtureType>
</GDTF>`

func zipFiles(t *testing.T, files ...[2]string) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f[0])
		require.NoError(t, err)
		_, err = w.Write([]byte(f[1]))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func venue(t *testing.T, scene string) []byte {
	device := zipFiles(t, [2]string{"description.xml", deviceXML})
	return zipFiles(t,
		[2]string{SceneFile, scene},
		[2]string{"Robe@Spot.gdtf", string(device)},
		[2]string{"Base.3ds", "ignored"},
		[2]string{"other.xml", "<ignored/>"},
	)
}

func TestParseBytes(t *testing.T) {
	p := NewParser(nil)
	vs := p.ParseBytes(venue(t, sceneXML), "Stage.mvr")

	assert.Equal(t, "1.5", vs.Version)
	require.Len(t, vs.Layers, 1)
	ly := vs.Layers[0]
	assert.Equal(t, "Truss", ly.Name)
	require.Len(t, ly.Fixtures, 2)
	assert.Equal(t, 2, vs.NumFixtures())

	fx := ly.Fixtures[0]
	assert.Equal(t, "Spot 1", fx.Name)
	assert.Equal(t, "Robe@Spot.gdtf", fx.DeviceArchiveReference)
	assert.Equal(t, "Mode 1", fx.DeviceMode)
	assert.Equal(t, []string{"Body_Pan,f 50", "Yoke_Tilt,f 25"}, fx.CustomCommands)
	assert.Equal(t, []string{"45"}, fx.Addresses)
	assert.Equal(t, uint32(12), fx.FixtureID)
	assert.Equal(t, uint32(3), fx.UnitNumber)
	assert.Equal(t, uint32(0), fx.CustomID)
	assert.True(t, fx.CastShadows)
	assert.Equal(t, [3]float32{1000, 2000, 3000}, fx.Transform[3])
	assert.Equal(t, [3]float32{0, 1, 0}, fx.Transform[1])
	require.Len(t, fx.Color, 3)
	assert.InDelta(t, 0.3127, fx.Color[0], 1e-6)

	wash := ly.Fixtures[1]
	assert.Equal(t, "Wash", wash.Name)
	assert.Equal(t, uint32(7), wash.FixtureID)

	// the only diagnostic is the invalid uuid
	require.Equal(t, 1, p.Errors.Len())
	d, _ := p.Errors.PopError()
	assert.Contains(t, d.Message, "not-a-uuid")
}

func TestDeviceSpecification(t *testing.T) {
	p := NewParser(nil)
	p.ParseBytes(venue(t, sceneXML), "Stage.mvr")
	p.Errors.Drain()

	assert.Equal(t, []string{"Robe@Spot.gdtf"}, p.DeviceNames())
	assert.True(t, p.HasDevice("Robe@Spot"))

	ds := p.DeviceSpecification("Robe@Spot")
	assert.Equal(t, "Spot", ds.Name)
	assert.Equal(t, "Robe@Spot.gdtf", ds.SpecArchiveName)
	require.Len(t, ds.GeometryNodes, 1)

	// lookups return copies
	ds.GeometryNodes[0].Name = "changed"
	ds.Models = nil
	again := p.DeviceSpecification("Robe@Spot.gdtf")
	assert.Equal(t, "Base", again.GeometryNodes[0].Name)
	assert.Len(t, again.Models, 1)
	assert.False(t, p.Errors.HasError())

	miss := p.DeviceSpecification("Robe@Spt")
	assert.True(t, miss.IsEmpty())
	require.True(t, p.Errors.HasError())
	d, _ := p.Errors.PopError()
	assert.Contains(t, d.Message, "Robe@Spot.gdtf")
}

func TestDeviceSpecificationCache(t *testing.T) {
	dev := zipFiles(t, [2]string{"description.xml", strings.Replace(deviceXML, `Name="Spot"`, `Name="Foo"`, 1)})
	data := zipFiles(t,
		[2]string{SceneFile, sceneXML},
		[2]string{"Foo.gdtf", string(dev)},
	)
	p := NewParser(nil)
	p.ParseBytes(data, "Foo.mvr")
	assert.Equal(t, "Foo", p.DeviceSpecification("Foo").Name)
	assert.True(t, p.DeviceSpecification("Bar").IsEmpty())

	empty := NewParser(nil)
	assert.True(t, empty.DeviceSpecification("Bar").IsEmpty())
	assert.Equal(t, 1, empty.Errors.Len())
}

func TestParseVersionMismatch(t *testing.T) {
	p := NewParser(nil)
	scene := strings.Replace(sceneXML, `verMinor="5"`, `verMinor="4"`, 1)
	vs := p.ParseBytes(venue(t, scene), "Stage.mvr")
	assert.Equal(t, "1.4", vs.Version)
	assert.Len(t, vs.Layers, 1)
	var msgs []string
	for _, d := range p.Errors.Drain() {
		msgs = append(msgs, d.Message)
	}
	assert.Contains(t, msgs, "tested with version 1.5, this document is version 1.4")
}

func TestParseFailures(t *testing.T) {
	p := NewParser(nil)
	vs := p.ParseBytes([]byte("junk"), "Junk.mvr")
	assert.Empty(t, vs.Layers)
	assert.Equal(t, 1, p.Errors.Len())

	vs = p.ParseBytes(zipFiles(t, [2]string{"scene.xml", sceneXML}), "Renamed.mvr")
	assert.Empty(t, vs.Layers)
	assert.Equal(t, 2, p.Errors.Len())

	vs = p.ParseBytes(zipFiles(t, [2]string{SceneFile, "<GeneralSceneDescription"}), "Bad.mvr")
	assert.Empty(t, vs.Layers)
	assert.Equal(t, 3, p.Errors.Len())

	vs = p.ParseFile(filepath.Join(t.TempDir(), "Missing.mvr"))
	assert.Empty(t, vs.Layers)
	assert.Equal(t, 4, p.Errors.Len())
}

func TestParseFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "Stage.mvr")
	require.NoError(t, os.WriteFile(fn, venue(t, sceneXML), 0o644))
	p := NewParser(nil)
	vs := p.ParseFile(fn)
	assert.Len(t, vs.Layers, 1)
	assert.True(t, p.HasDevice("Robe@Spot.gdtf"))
}

func TestDeviceKey(t *testing.T) {
	assert.Equal(t, "Foo.gdtf", DeviceKey("Foo"))
	assert.Equal(t, "Foo.gdtf", DeviceKey("Foo.gdtf"))
	assert.Equal(t, ".gdtf", DeviceKey(""))
}
