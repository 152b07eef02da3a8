package schema

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// Direction describes how a table was reached from its predecessor.
type Direction int

const (
	DirectionNone Direction = iota
	// Предыдущая таблица ссылается на текущую
	DirectionForward
	// Текущая таблица ссылается на предыдущую
	DirectionBackward
)

func (d Direction) String() string {
	switch d {
	case DirectionForward:
		return "forward"
	case DirectionBackward:
		return "backward"
	default:
		return "none"
	}
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(text []byte) error {
	switch string(text) {
	case "forward":
		*d = DirectionForward
	case "backward":
		*d = DirectionBackward
	case "none", "":
		*d = DirectionNone
	default:
		return fmt.Errorf("unknown direction %q", text)
	}
	return nil
}

// Flip returns the direction of the same step walked the other way.
func (d Direction) Flip() Direction {
	switch d {
	case DirectionForward:
		return DirectionBackward
	case DirectionBackward:
		return DirectionForward
	default:
		return DirectionNone
	}
}

// Unreachable is the distance of a table with no path from the start table.
const Unreachable = -1

type PathNode struct {
	// Количество переходов от начальной таблицы или Unreachable
	Distance int
	// Внешний ключ, по которому нашли таблицу
	Edge      *ForeignKey
	Direction Direction
	// Имя предыдущей таблицы на пути
	Prev string
}

func (n PathNode) Reachable() bool { return n.Distance != Unreachable }

// ShortestPaths holds the minimum-hop path from Start to every table of the
// graph. The value is not modified after ShortestPaths returns it.
type ShortestPaths struct {
	Start string

	order []string
	nodes map[string]PathNode
}

// ShortestPaths runs a breadth-first search from start over foreign keys in
// both directions. Every key costs one hop, so the first discovery of a table
// is final. Ties go to the key met first: queue order, then outgoing keys
// before incoming keys, each in catalog order.
func (g *Graph) ShortestPaths(start string) (*ShortestPaths, error) {
	if len(g.Tables) == 0 {
		return nil, newError(KindInvalidInput, "schema has no tables")
	}
	if _, ok := g.Tables[start]; !ok {
		return nil, newError(KindInvalidInput, "unknown start table %q", start)
	}

	nodes := make(map[string]PathNode, len(g.Tables))
	for _, name := range g.order {
		nodes[name] = PathNode{Distance: Unreachable}
	}
	nodes[start] = PathNode{Distance: 0}

	finalized := mapset.NewThreadUnsafeSet[string]()
	queue := make([]string, 0, len(g.Tables))
	queue = append(queue, start)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if finalized.Contains(current) {
			continue
		}
		distance := nodes[current].Distance

		discover := func(next *Table, fk *ForeignKey, dir Direction) {
			if finalized.Contains(next.Name) || nodes[next.Name].Reachable() {
				return
			}
			nodes[next.Name] = PathNode{
				Distance:  distance + 1,
				Edge:      fk,
				Direction: dir,
				Prev:      current,
			}
			queue = append(queue, next.Name)
		}

		table := g.Tables[current]
		table.ForeignKeys.Each(func(fk *ForeignKey) {
			discover(fk.Reference, fk, DirectionForward)
		})
		table.ReferencedBy.Each(func(fk *ForeignKey) {
			discover(fk.Table, fk, DirectionBackward)
		})

		finalized.Add(current)
	}

	return &ShortestPaths{
		Start: start,
		order: g.TableNames(),
		nodes: nodes,
	}, nil
}

// Node returns the search result for a table.
func (p *ShortestPaths) Node(table string) (PathNode, bool) {
	n, ok := p.nodes[table]
	return n, ok
}

// Distance returns the number of hops to the table, Unreachable for
// disconnected or unknown tables.
func (p *ShortestPaths) Distance(table string) int {
	n, ok := p.nodes[table]
	if !ok {
		return Unreachable
	}
	return n.Distance
}

// Unreachable returns tables without a path from Start, in catalog order.
func (p *ShortestPaths) Unreachable() []string {
	var res []string
	for _, name := range p.order {
		if !p.nodes[name].Reachable() {
			res = append(res, name)
		}
	}
	return res
}

// Step is one join of a join chain.
type Step struct {
	FromTable  string    `json:"from_table"`
	FromColumn string    `json:"from_column"`
	ToTable    string    `json:"to_table"`
	ToColumn   string    `json:"to_column"`
	Direction  Direction `json:"direction"`
	// Имя внешнего ключа
	Constraint string `json:"constraint,omitempty"`
}

func newStep(fk *ForeignKey, dir Direction) Step {
	s := Step{
		Direction:  dir,
		Constraint: fk.Name,
	}
	if dir == DirectionBackward {
		s.FromTable, s.FromColumn = fk.Reference.Name, fk.ReferenceColumn
		s.ToTable, s.ToColumn = fk.Table.Name, fk.Column
	} else {
		s.FromTable, s.FromColumn = fk.Table.Name, fk.Column
		s.ToTable, s.ToColumn = fk.Reference.Name, fk.ReferenceColumn
	}
	return s
}

// Path is the join chain from the start table to Target.
type Path struct {
	Target    string `json:"target"`
	Connected bool   `json:"connected"`
	// Количество соединений или -1
	Distance int    `json:"distance"`
	Steps    []Step `json:"steps,omitempty"`
}

// PathTo extracts the join chain to target from the search result.
// A disconnected target yields a Path with Connected unset.
func (p *ShortestPaths) PathTo(target string) (Path, error) {
	node, ok := p.nodes[target]
	if !ok {
		return Path{}, newError(KindInvalidInput, "unknown table %q", target)
	}
	path := Path{
		Target:    target,
		Connected: node.Reachable(),
		Distance:  node.Distance,
	}
	if !path.Connected {
		return path, nil
	}

	steps := make([]Step, 0, node.Distance)
	for n := node; n.Edge != nil; n = p.nodes[n.Prev] {
		steps = append(steps, newStep(n.Edge, n.Direction))
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	path.Steps = steps
	return path, nil
}
