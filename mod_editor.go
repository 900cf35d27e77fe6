package voxelforge

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/voxelforge/voxelforge/vox/coord"
	"github.com/voxelforge/voxelforge/vox/edit"
	"github.com/voxelforge/voxelforge/vox/place"
)

// EditorModule installs the editing session. Zero values fall back to the
// default workspace, 1 cm resolution, and unbounded history.
type EditorModule struct {
	Workspace    mgl32.Vec3
	Resolution   coord.Resolution
	HistoryLimit int
	StrictGrid   bool
}

func (m EditorModule) Install(app *App) {
	mode := place.FreeIncrement
	if m.StrictGrid {
		mode = place.StrictGrid
	}
	session, err := edit.NewSession(edit.Config{
		Workspace:        m.Workspace,
		ActiveResolution: m.Resolution,
		HistoryLimit:     m.HistoryLimit,
		Mode:             mode,
		Log:              AppLogger(app),
	})
	if err != nil {
		panic("editor module: " + err.Error())
	}
	app.AddResources(session)
}
