package voxelforge

import "github.com/voxelforge/voxelforge/cli"

// CLIModule installs the command registry with the editing commands.
type CLIModule struct{}

func (m CLIModule) Install(app *App) {
	reg := cli.NewRegistry()
	reg.Register(cli.EditCommands()...)
	app.AddResources(reg)
}
