package api

import (
	"github.com/lysyi3m/sheet-catalog/app/catalog"
	"github.com/lysyi3m/sheet-catalog/app/render"
	"github.com/lysyi3m/sheet-catalog/app/tasks"
)

type GeneratorInterface interface {
	Run(ch render.Channel, records []catalog.Record) (string, error)
}

var _ GeneratorInterface = (*render.Generator)(nil)

// Reloader is the part of the scheduler the handlers need.
type Reloader interface {
	Reload() (string, error)
}

var _ Reloader = (tasks.TaskSchedulerInterface)(nil)

type Handler struct {
	store     *catalog.Store
	scheduler Reloader
	generator GeneratorInterface
	cards     render.CardOptions
	channel   render.Channel
}

type ItemsResponse struct {
	Items []render.Card `json:"items"`
	Count int           `json:"count"`
	Total int           `json:"total"`
	Error string        `json:"error,omitempty"`
}

type FiltersResponse struct {
	Categories []string `json:"categories"`
	Statuses   []string `json:"statuses"`
}
