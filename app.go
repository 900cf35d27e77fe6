// Package voxelforge assembles an editing application from installable
// modules. Modules contribute resources (the session, the command
// registry, the logger); the App is a typed registry that hands them back
// to whoever needs them.
package voxelforge

import (
	"fmt"
	"reflect"
)

// Module installs resources into the application.
type Module interface {
	Install(app *App)
}

// App holds the application's resources, keyed by concrete type. At most
// one resource of a type may be installed.
type App struct {
	resources map[reflect.Type]any
	modules   []Module
	built     bool
}

func NewApp() *App {
	return &App{
		resources: make(map[reflect.Type]any),
	}
}

func (app *App) UseModules(modules ...Module) *App {
	app.modules = append(app.modules, modules...)
	return app
}

// Build installs every module in registration order.
func (app *App) Build() *App {
	if app.built {
		return app
	}
	app.built = true
	for _, module := range app.modules {
		module.Install(app)
	}
	return app
}

// AddResources registers resources. Installing two resources of the same
// type is a programming error and panics, as the first one would be
// silently shadowed otherwise.
func (app *App) AddResources(resources ...any) *App {
	for _, resource := range resources {
		t := reflect.TypeOf(resource)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		if _, ok := app.resources[t]; ok {
			panic(fmt.Sprintf("%s is already in resources", t))
		}
		app.resources[t] = resource
	}
	return app
}

// ResourceFor returns the installed resource of type T, or nil when no
// module provided one.
func ResourceFor[T any](app *App) *T {
	if app == nil {
		return nil
	}
	var zero T
	if r, ok := app.resources[reflect.TypeOf(zero)]; ok {
		if typed, ok := r.(*T); ok {
			return typed
		}
	}
	return nil
}
