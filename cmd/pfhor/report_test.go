package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/models"
	"github.com/taigrr/pfhor/pkg/world"
)

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	if err := printReport(&buf, "frame", []row{{"entries", 12}, {"pixels", 4096}}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"frame", "entries", "12", "pixels", "4096"} {
		if !strings.Contains(out, want) {
			t.Errorf("%q missing from report:\n%s", want, out)
		}
	}
}

func TestMapRows(t *testing.T) {
	m := mapdata.Demo()
	rows := mapRows(m)
	got := make(map[string]any, len(rows))
	for _, r := range rows {
		got[r.Key] = r.Value
	}
	if got["polygons"] != len(m.Polygons) {
		t.Errorf("polygons = %v, want %d", got["polygons"], len(m.Polygons))
	}
	if p, ok := got["portals"].(int); !ok || p == 0 {
		t.Errorf("portals = %v, want > 0", got["portals"])
	}
}

func TestDumpPolygon(t *testing.T) {
	m := mapdata.Demo()
	var buf bytes.Buffer
	if err := dumpPolygon(&buf, m, 0); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "polygon 0\n") || !strings.Contains(out, "FloorHeight") {
		t.Errorf("unexpected dump:\n%s", out)
	}
	if strings.Contains(out, "0xc0") {
		t.Error("dump contains pointer addresses")
	}
	if err := dumpPolygon(&buf, m, len(m.Polygons)); err == nil {
		t.Error("expected error for out of range polygon")
	}
}

func TestInspectModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.glb")
	mesh := models.FromWorld(world.New(mapdata.Demo(), nil))
	if err := models.SaveGLB(mesh, path); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := inspectModel(&buf, path); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "triangles") {
		t.Errorf("unexpected report:\n%s", buf.String())
	}
}
