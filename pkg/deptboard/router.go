package deptboard

import (
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-deptboard/components/deptstate/gorouter"
)

// Register mounts the dashboard on a go-router router.
func Register[T any](app *App, r router.Router[T], basePath string) error {
	return gorouter.Register(gorouter.Config[T]{
		Router:   r,
		Pages:    app.pages,
		Sidebar:  app.sidebar,
		BasePath: basePath,
	})
}
