// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package format

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"cogentcore.org/lighting/diag"
	"cogentcore.org/lighting/emit"
	"cogentcore.org/lighting/gdtf"
	"cogentcore.org/lighting/mvr"
	"cogentcore.org/lighting/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deviceXML = `<GDTF DataVersion="1.2"><FixtureType Name="Spot" Manufacturer="Robe">
  <PhysicalDescriptions/>
  <Models><Model Name="Base" File="Base"/><Model Name="Beam" Height="0.2"/></Models>
  <Geometries>
    <Geometry Name="Base" Model="Base">
      <Beam Name="Beam" Model="Beam" BeamRadius="0.05"/>
    </Geometry>
  </Geometries>
</FixtureType></GDTF>`

const sceneXML = `<GeneralSceneDescription verMajor="1" verMinor="5"><Scene><Layers>
  <Layer name="Truss" uuid="8B3E6F0A-1F2B-4C1D-9E5C-2A1B3C4D5E6F"><ChildList>
    <Fixture name="Spot 1" uuid="5B8D2E74-0C3A-4F6B-8D1E-9A2B3C4D5E6F">
      <Matrix>{1,0,0}{0,1,0}{0,0,1}{1000,0,0}</Matrix>
      <GDTFSpec>Robe@Spot</GDTFSpec>
    </Fixture>
  </ChildList></Layer>
</Layers></Scene></GeneralSceneDescription>`

func writeZip(t *testing.T, path string, files map[string][]byte) {
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	zw := zip.NewWriter(f)
	for name, data := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}

func deviceBytes(t *testing.T) []byte {
	p := filepath.Join(t.TempDir(), "dev.gdtf")
	writeZip(t, p, map[string][]byte{"description.xml": []byte(deviceXML)})
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	return data
}

type namedHandler struct {
	name string
	exts []string
}

func (h *namedHandler) Name() string         { return h.name }
func (h *namedHandler) Extensions() []string { return h.exts }
func (h *namedHandler) Convert(ctx context.Context, path string, sink scene.Sink) ([]diag.Diagnostic, error) {
	return []diag.Diagnostic{{Severity: diag.Warning, Source: path, Message: h.name}}, nil
}

func TestRegistry(t *testing.T) {
	a := &namedHandler{name: "a", exts: []string{".A", ".b"}}
	b := &namedHandler{name: "b", exts: []string{".b"}}
	rg := NewRegistry(a, b)

	assert.Equal(t, []string{".a", ".b"}, rg.Extensions())
	assert.Len(t, rg.Handlers(), 2)

	h, ok := rg.Lookup("dir/file.a")
	assert.True(t, ok)
	assert.Equal(t, "a", h.Name())
	h, ok = rg.Lookup("FILE.B")
	assert.True(t, ok)
	assert.Equal(t, "b", h.Name())
	assert.False(t, rg.Supports("file.c"))

	diags, err := rg.Convert(context.Background(), "x.a", scene.NewStage())
	require.NoError(t, err)
	assert.Equal(t, "a", diags[0].Message)

	_, err = rg.Convert(context.Background(), "x.c", scene.NewStage())
	assert.ErrorIs(t, err, ErrUnsupported)

	_, _, err = rg.Inspect(context.Background(), "x.a")
	assert.Error(t, err)
}

func TestDefaultRegistry(t *testing.T) {
	rg := DefaultRegistry(nil, nil)
	assert.Equal(t, []string{".gdtf", ".mvr"}, rg.Extensions())
	assert.True(t, rg.Supports("Robe@Spot.GDTF"))
	assert.True(t, rg.Supports("venue.mvr"))
	assert.False(t, rg.Supports("Base.3ds"))
}

func TestConvertDevice(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "Robe@Spot.gdtf")
	writeZip(t, p, map[string][]byte{"description.xml": []byte(deviceXML)})

	rg := DefaultRegistry(nil, nil)
	st := scene.NewStage()
	diags, err := rg.Convert(context.Background(), p, st)
	require.NoError(t, err)
	assert.False(t, HasErrors(diags))
	assert.Equal(t, emit.DefaultDevicePath, st.DefaultPrim)
	assert.NotNil(t, st.Prim("/default_prim/Base/Beam/Beam"))

	spec, _, err := rg.Inspect(context.Background(), p)
	require.NoError(t, err)
	ds, ok := spec.(*gdtf.DeviceSpecification)
	require.True(t, ok)
	assert.Equal(t, "Robe", ds.Manufacturer)
}

func TestConvertVenue(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "venue.mvr")
	writeZip(t, p, map[string][]byte{
		mvr.SceneFile:    []byte(sceneXML),
		"Robe@Spot.gdtf": deviceBytes(t),
	})

	rg := DefaultRegistry(nil, nil)
	st := scene.NewStage()
	diags, err := rg.Convert(context.Background(), p, st)
	require.NoError(t, err)
	assert.Empty(t, diags)
	fx := "/mvr_payload/Truss/Spot_15B8D2E74_0C3A_4F6B_8D1E_9A2B3C4D5E6F"
	require.NotNil(t, st.Prim(fx))
	assert.NotNil(t, st.Prim(fx+"/Base/Beam/Beam"))

	spec, _, err := rg.Inspect(context.Background(), p)
	require.NoError(t, err)
	vs, ok := spec.(*mvr.VenueSpecification)
	require.True(t, ok)
	assert.Equal(t, 1, vs.NumFixtures())
}

func TestConvertMissingFile(t *testing.T) {
	rg := DefaultRegistry(nil, nil)
	diags, err := rg.Convert(context.Background(), filepath.Join(t.TempDir(), "none.gdtf"), scene.NewStage())
	require.NoError(t, err)
	assert.True(t, HasErrors(diags))
}

func TestConvertCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rg := DefaultRegistry(nil, nil)
	_, err := rg.Convert(ctx, "x.mvr", scene.NewStage())
	assert.ErrorIs(t, err, context.Canceled)
}
