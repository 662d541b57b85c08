package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/taigrr/pfhor/pkg/assets"
	"github.com/taigrr/pfhor/pkg/mapdata"
	"github.com/taigrr/pfhor/pkg/models"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func newInspectCmd(a *app) *cobra.Command {
	var dump int
	cmd := &cobra.Command{
		Use:   "inspect [map|model.glb]",
		Short: "Validate a level or model and summarise its contents",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				switch strings.ToLower(filepath.Ext(args[0])) {
				case ".glb", ".gltf":
					return inspectModel(out, args[0])
				}
			}
			m, err := loadMap(args)
			if err != nil {
				return err
			}
			if err := mapdata.Validate(m); err != nil {
				return err
			}
			a.log.WithField("map", m.Name).Debug("map valid")
			if err := printReport(out, mapTitle(m), mapRows(m)); err != nil {
				return err
			}
			if dump >= 0 {
				return dumpPolygon(out, m, dump)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&dump, "dump", -1, "dump the polygon with this index and its sides")
	return cmd
}

func mapTitle(m *mapdata.Map) string {
	if m.Name == "" {
		return "map"
	}
	return m.Name
}

func mapRows(m *mapdata.Map) []row {
	portals := 0
	for _, l := range m.Lines {
		if l.Portal() {
			portals++
		}
	}
	return []row{
		{"points", len(m.Points)},
		{"lines", len(m.Lines)},
		{"portals", portals},
		{"sides", len(m.Sides)},
		{"polygons", len(m.Polygons)},
		{"lights", len(m.Lights)},
		{"media", len(m.Liquids)},
		{"textures", len(assets.Descriptors(m))},
	}
}

func dumpPolygon(w io.Writer, m *mapdata.Map, i int) error {
	if i >= len(m.Polygons) {
		return fmt.Errorf("dump: polygon %d out of range [0,%d)", i, len(m.Polygons))
	}
	p := m.Polygon(i)
	fmt.Fprintf(w, "polygon %d\n", i)
	dumpConfig.Fdump(w, p)
	for wall, s := range p.Sides {
		if s == mapdata.None {
			continue
		}
		fmt.Fprintf(w, "side %d (wall %d)\n", s, wall)
		dumpConfig.Fdump(w, m.Side(s))
	}
	return nil
}

func inspectModel(w io.Writer, path string) error {
	mesh, err := models.LoadGLB(path)
	if err != nil {
		return err
	}
	size := mesh.Size()
	rows := []row{
		{"vertices", mesh.VertexCount()},
		{"triangles", mesh.TriangleCount()},
		{"materials", mesh.MaterialCount()},
		{"size", fmt.Sprintf("%.0f × %.0f × %.0f", size.X, size.Y, size.Z)},
	}
	for i := range mesh.MaterialCount() {
		mat := mesh.GetMaterial(i)
		rows = append(rows, row{fmt.Sprintf("material %d", i), mat.Name})
	}
	return printReport(w, filepath.Base(path), rows)
}
