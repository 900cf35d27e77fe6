// voxedit is the command-line front end of the voxel editor. With
// arguments it runs a single command and exits non-zero on failure; with
// none it reads commands from stdin.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/voxelforge/voxelforge"
	"github.com/voxelforge/voxelforge/cli"
	"github.com/voxelforge/voxelforge/vox/edit"
)

func main() {
	size := flag.Float64("size", float64(5.0), "workspace edge length in meters (2 to 8)")
	res := flag.String("res", "1cm", "initial active resolution")
	strict := flag.Bool("strict", false, "require placements aligned to the resolution grid")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	resolution, err := cli.ParseResolution(*res)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app := voxelforge.NewApp().UseModules(
		voxelforge.LoggingModule{Prefix: "voxedit", Debug: *debug},
		voxelforge.EditorModule{
			Workspace:  mgl32.Vec3{float32(*size), float32(*size), float32(*size)},
			Resolution: resolution,
			StrictGrid: *strict,
		},
		voxelforge.CLIModule{},
	).Build()

	session := voxelforge.ResourceFor[edit.Session](app)
	registry := voxelforge.ResourceFor[cli.Registry](app)

	if args := flag.Args(); len(args) > 0 {
		if !runOne(registry, session, args[0], args[1:]) {
			os.Exit(1)
		}
		return
	}

	repl(registry, session)
}

func runOne(registry *cli.Registry, session *edit.Session, name string, args []string) bool {
	msg, err := registry.Execute(session, os.Stdout, name, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return false
	}
	fmt.Println(msg)
	return true
}

func repl(registry *cli.Registry, session *edit.Session) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "quit", "exit":
			return
		case "help":
			registry.Help(os.Stdout)
			continue
		}
		runOne(registry, session, fields[0], fields[1:])
	}
}
