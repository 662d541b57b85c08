// pfhor - portal renderer for Marathon-style levels.
//
// Commands:
//
//	view     Walk a level in the terminal
//	render   Render one frame to PNG, or report GPU batching
//	export   Write the level geometry as GLB
//	inspect  Validate a level or GLB and print its contents
//
// Without a map argument every command uses the built-in demo level.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

func main() {
	if err := fang.Execute(context.Background(), newRootCmd()); err != nil {
		os.Exit(1)
	}
}
