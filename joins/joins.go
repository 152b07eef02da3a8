// Package joins answers "how do I join these tables" for an agent: one call,
// one tagged result, no Go errors.
package joins

import (
	"errors"
	"fmt"

	"github.com/Feresey/joinpath/catalog"
	"github.com/Feresey/joinpath/schema"
)

type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// NoConnection is the message of a Join whose target has no path from start.
const NoConnection = "no connection"

type Failure struct {
	Kind    schema.Kind `json:"kind"`
	Message string      `json:"message"`
}

// Join is the join chain to one requested table.
type Join struct {
	schema.Path
	Message string `json:"message,omitempty"`
}

// Result is either Status ok with one Join per requested table after the
// first, or Status error with Error set.
type Result struct {
	Status Status   `json:"status"`
	Error  *Failure `json:"error,omitempty"`

	Start string `json:"start,omitempty"`
	Joins []Join `json:"joins,omitempty"`
	// Внешние ключи, отброшенные при построении графа
	Dropped []string `json:"dropped,omitempty"`
}

func failed(err error) Result {
	f := &Failure{Message: err.Error()}
	var sErr *schema.Error
	if errors.As(err, &sErr) {
		f.Kind = sErr.Kind
		f.Message = sErr.Msg
	}
	return Result{Status: StatusError, Error: f}
}

func invalidInput(format string, args ...any) Result {
	return Result{
		Status: StatusError,
		Error: &Failure{
			Kind:    schema.KindInvalidInput,
			Message: fmt.Sprintf(format, args...),
		},
	}
}

// Find builds the graph of tables and resolves join chains from required[0]
// to every other required table.
func Find(tables []catalog.Table, required []string) Result {
	if len(tables) == 0 {
		return invalidInput("no tables supplied")
	}
	g, err := schema.Build(tables)
	if err != nil {
		return failed(err)
	}
	return FindInGraph(g, required)
}

// FindInGraph is Find over an already built graph.
func FindInGraph(g *schema.Graph, required []string) Result {
	if len(required) == 0 {
		return invalidInput("required table list is empty")
	}

	start := required[0]
	paths, err := g.ShortestPaths(start)
	if err != nil {
		return failed(err)
	}

	res := Result{
		Status: StatusOK,
		Start:  start,
		Joins:  make([]Join, 0, len(required)-1),
	}
	for _, target := range required[1:] {
		path, err := paths.PathTo(target)
		if err != nil {
			return failed(err)
		}
		join := Join{Path: path}
		if !path.Connected {
			join.Message = NoConnection
		}
		res.Joins = append(res.Joins, join)
	}
	for _, fk := range g.Dropped() {
		res.Dropped = append(res.Dropped, fk.String())
	}
	return res
}
