package main

import (
	"github.com/spf13/cobra"

	"github.com/taigrr/pfhor/pkg/models"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		output string
		ticks  int
	)
	cmd := &cobra.Command{
		Use:   "export [map]",
		Short: "Export level geometry as binary glTF",
		Long: `Export the level's floors, ceilings, walls and liquid surfaces as a
binary glTF file. One map unit of 1024 becomes one metre and the up axis
becomes +Y.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadMap(args)
			if err != nil {
				return err
			}
			w := a.newWorld(m)
			w.AdvanceTicks(ticks)
			mesh := models.FromWorld(w)
			if err := models.SaveGLB(mesh, output); err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), output, []row{
				{"vertices", mesh.VertexCount()},
				{"triangles", mesh.TriangleCount()},
				{"materials", mesh.MaterialCount()},
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "level.glb", "output file")
	cmd.Flags().IntVar(&ticks, "ticks", 0, "game ticks to run before sampling liquid heights")
	return cmd
}
