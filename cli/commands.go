package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/voxelforge/voxelforge/vox/coord"
	"github.com/voxelforge/voxelforge/vox/edit"
	"github.com/voxelforge/voxelforge/vox/history"
	"github.com/voxelforge/voxelforge/vox/project"
	"github.com/voxelforge/voxelforge/vox/store"
)

// EditCommands returns the registrations for the editing surface.
func EditCommands() []Registration {
	return []Registration{
		{
			Name:        "place",
			Description: "Place a voxel at position (coordinates must include units: cm or m)",
			Aliases:     []string{"add", "set"},
			Args: []ArgSpec{
				{Name: "x", Description: "X coordinate with units (e.g. 100cm or 1m)"},
				{Name: "y", Description: "Y coordinate with units (e.g. 50cm or 0.5m)"},
				{Name: "z", Description: "Z coordinate with units (e.g. -100cm or -1m)"},
			},
			Handler: func(ctx *Context) (string, error) {
				p, err := ParseTriple(ctx.Args)
				if err != nil {
					return "", err
				}
				if err := ctx.Session.Place(p, ctx.Session.ActiveResolution()); err != nil {
					return "", fmt.Errorf("cannot place voxel: %w", err)
				}
				return fmt.Sprintf("Voxel placed at (%d, %d, %d)", p.X, p.Y, p.Z), nil
			},
		},
		{
			Name:        "delete",
			Description: "Delete a voxel at position (coordinates must include units: cm or m)",
			Aliases:     []string{"remove", "del"},
			Args: []ArgSpec{
				{Name: "x", Description: "X coordinate with units"},
				{Name: "y", Description: "Y coordinate with units"},
				{Name: "z", Description: "Z coordinate with units"},
			},
			Handler: func(ctx *Context) (string, error) {
				p, err := ParseTriple(ctx.Args)
				if err != nil {
					return "", err
				}
				if err := ctx.Session.Remove(p, ctx.Session.ActiveResolution()); err != nil {
					if errors.Is(err, edit.ErrNotFound) {
						return "", errors.New("no voxel at specified position")
					}
					return "", err
				}
				return fmt.Sprintf("Voxel deleted at (%d, %d, %d)", p.X, p.Y, p.Z), nil
			},
		},
		{
			Name:        "fill",
			Description: "Fill a box region with voxels at the active resolution",
			Args: []ArgSpec{
				{Name: "x1", Description: "Start X with units"},
				{Name: "y1", Description: "Start Y with units"},
				{Name: "z1", Description: "Start Z with units"},
				{Name: "x2", Description: "End X with units"},
				{Name: "y2", Description: "End Y with units"},
				{Name: "z2", Description: "End Z with units"},
			},
			Handler: func(ctx *Context) (string, error) {
				if len(ctx.Args) < 6 {
					return "", fmt.Errorf("%w: fill needs six coordinates", ErrInvalidInput)
				}
				from, err := ParseTriple(ctx.Args[:3])
				if err != nil {
					return "", fmt.Errorf("invalid start coordinates: %w", err)
				}
				to, err := ParseTriple(ctx.Args[3:6])
				if err != nil {
					return "", fmt.Errorf("invalid end coordinates: %w", err)
				}
				if from.Y < 0 || to.Y < 0 {
					return "", errors.New("fill failed: Y coordinates must be >= 0 (cannot place voxels below ground plane)")
				}

				// Count insertions through the change-event stream rather
				// than trusting the region volume; skipped cells don't
				// produce events.
				filled := 0
				sub := ctx.Session.Store().Subscribe(func(ev store.Event) {
					if !ev.Was && ev.Now {
						filled++
					}
				})
				defer sub.Close()

				err = ctx.Session.Fill(
					mgl32.Vec3(from.ToWorld()), mgl32.Vec3(to.ToWorld()),
					ctx.Session.ActiveResolution(), true,
				)
				if err != nil {
					if errors.Is(err, history.ErrNoEffect) {
						return "", errors.New("fill failed: no cells changed")
					}
					return "", fmt.Errorf("fill failed: %w", err)
				}
				return fmt.Sprintf("Filled %d voxels", filled), nil
			},
		},
		{
			Name:        "undo",
			Description: "Undo last operation",
			Aliases:     []string{"u"},
			Handler: func(ctx *Context) (string, error) {
				if err := ctx.Session.Undo(); err != nil {
					return "", errors.New("nothing to undo")
				}
				return "Undone", nil
			},
		},
		{
			Name:        "redo",
			Description: "Redo last undone operation",
			Aliases:     []string{"r"},
			Handler: func(ctx *Context) (string, error) {
				if err := ctx.Session.Redo(); err != nil {
					return "", errors.New("nothing to redo")
				}
				return "Redone", nil
			},
		},
		{
			Name:        "resolution",
			Description: "Show or set the active voxel size in cm",
			Args:        []ArgSpec{{Name: "size", Description: "Edge length in cm (1, 2, 4, ... 512)"}},
			Handler: func(ctx *Context) (string, error) {
				if len(ctx.Args) == 0 {
					return "Active resolution: " + ctx.Session.ActiveResolution().Name(), nil
				}
				r, err := ParseResolution(ctx.Args[0])
				if err != nil {
					return "", err
				}
				if err := ctx.Session.SetActiveResolution(r); err != nil {
					return "", err
				}
				return "Active resolution set to " + r.Name(), nil
			},
		},
		{
			Name:        "workspace",
			Description: "Show or set the workspace size in meters",
			Args: []ArgSpec{
				{Name: "sx", Description: "Width in meters (2 to 8)"},
				{Name: "sy", Description: "Height in meters (2 to 8)"},
				{Name: "sz", Description: "Depth in meters (2 to 8)"},
			},
			Handler: func(ctx *Context) (string, error) {
				size := ctx.Session.Store().WorkspaceSize()
				if len(ctx.Args) == 0 {
					return fmt.Sprintf("Workspace: %.2f x %.2f x %.2f m", size.X(), size.Y(), size.Z()), nil
				}
				if len(ctx.Args) < 3 {
					return "", fmt.Errorf("%w: workspace needs three sizes in meters", ErrInvalidInput)
				}
				var dims [3]float32
				for i := range dims {
					v, err := ParseMeters(ctx.Args[i])
					if err != nil {
						return "", err
					}
					dims[i] = v
				}
				newSize := mgl32.Vec3{dims[0], dims[1], dims[2]}
				if err := ctx.Session.ResizeWorkspace(newSize); err != nil {
					return "", fmt.Errorf("cannot resize workspace: %w", err)
				}
				return fmt.Sprintf("Workspace resized to %.2f x %.2f x %.2f m", dims[0], dims[1], dims[2]), nil
			},
		},
		{
			Name:        "new",
			Description: "Start a new project, discarding voxels and history",
			Handler: func(ctx *Context) (string, error) {
				ctx.Session.Reset()
				return "New project", nil
			},
		},
		{
			Name:        "save",
			Description: "Save the project to a file",
			Args:        []ArgSpec{{Name: "file", Description: "Output path"}},
			Handler: func(ctx *Context) (string, error) {
				if len(ctx.Args) < 1 {
					return "", fmt.Errorf("%w: save needs a file path", ErrInvalidInput)
				}
				f, err := os.Create(ctx.Args[0])
				if err != nil {
					return "", err
				}
				defer f.Close()
				if err := ctx.Session.Snapshot().WriteTo(f); err != nil {
					return "", err
				}
				return "Saved " + ctx.Args[0], nil
			},
		},
		{
			Name:        "load",
			Description: "Load a project from a file",
			Args:        []ArgSpec{{Name: "file", Description: "Input path"}},
			Handler: func(ctx *Context) (string, error) {
				if len(ctx.Args) < 1 {
					return "", fmt.Errorf("%w: load needs a file path", ErrInvalidInput)
				}
				f, err := os.Open(ctx.Args[0])
				if err != nil {
					return "", err
				}
				defer f.Close()
				snap, err := project.ReadFrom(f)
				if err != nil {
					return "", err
				}
				if err := ctx.Session.RestoreSnapshot(snap); err != nil {
					return "", err
				}
				return "Loaded " + ctx.Args[0], nil
			},
		},
		{
			Name:        "status",
			Description: "Show voxel counts per resolution",
			Handler: func(ctx *Context) (string, error) {
				st := ctx.Session.Store()
				for _, r := range coord.Resolutions() {
					if n := st.CountAt(r); n > 0 {
						fmt.Fprintf(ctx.Out, "  %-6s %d\n", r.Name(), n)
					}
				}
				return fmt.Sprintf("%d voxels total", st.Count()), nil
			},
		},
	}
}
