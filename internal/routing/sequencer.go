package routing

import (
	"container/heap"
	"fmt"
	"math"
)

// Strategy selects how the sequencer measures the cost to the next target
type Strategy string

const (
	// StrategyShortestPath runs Dijkstra over the neighbor graph, so targets
	// can be reached through intermediate points when edges are cut off
	StrategyShortestPath Strategy = "shortest_path"

	// StrategyNearestNeighbor only considers the direct edge to each target
	StrategyNearestNeighbor Strategy = "nearest_neighbor"
)

// ParseStrategy converts a config value into a Strategy. Empty means shortest path.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyShortestPath:
		return StrategyShortestPath, nil
	case StrategyNearestNeighbor:
		return StrategyNearestNeighbor, nil
	default:
		return "", fmt.Errorf("unknown route strategy %q", s)
	}
}

// DistanceOracle answers distance and adjacency queries between named points.
// *DistanceIndex implements it.
type DistanceOracle interface {
	Distance(a, b string) (float64, bool)
	Neighbors(name string, maxDistance float64) []Neighbor
}

// Sequence is the visiting order produced by the sequencer
type Sequence struct {
	// Path is every point traversed, starting with the start point. It can
	// contain intermediate points when the neighbor graph is sparse.
	Path []string
	// Visits lists the targets in the order they were reached
	Visits []string
	// TotalDistance is the cumulative travel distance in km
	TotalDistance float64
	// Unreached lists targets that could not be reached from the last visited point
	Unreached []string
}

// RouteSequencer orders targets by repeatedly travelling to the closest
// unvisited one
type RouteSequencer struct {
	strategy Strategy
}

// NewRouteSequencer creates a sequencer using the given strategy
func NewRouteSequencer(strategy Strategy) *RouteSequencer {
	if strategy == "" {
		strategy = StrategyShortestPath
	}
	return &RouteSequencer{strategy: strategy}
}

// Strategy returns the configured strategy
func (s *RouteSequencer) Strategy() Strategy {
	return s.strategy
}

// Sequence visits every target starting from start. Edges longer than
// maxDistance km are ignored. When no remaining target can be reached the
// walk stops and the rest are returned in Unreached. Ties go to the target
// listed first.
func (s *RouteSequencer) Sequence(start string, targets []string, oracle DistanceOracle, maxDistance float64) *Sequence {
	seq := &Sequence{
		Path:   []string{start},
		Visits: make([]string, 0, len(targets)),
	}

	remaining := make([]string, 0, len(targets))
	seen := make(map[string]bool, len(targets))
	for _, t := range targets {
		if !seen[t] {
			seen[t] = true
			remaining = append(remaining, t)
		}
	}

	current := start
	for len(remaining) > 0 {
		best := -1
		bestCost := math.Inf(1)
		var bestPath []string

		if s.strategy == StrategyNearestNeighbor {
			for i, t := range remaining {
				cost := directCost(oracle, current, t, maxDistance)
				if cost < bestCost {
					best, bestCost, bestPath = i, cost, []string{current, t}
					if t == current {
						bestPath = bestPath[:1]
					}
				}
			}
		} else {
			costs, prev := shortestPaths(oracle, current, maxDistance)
			for i, t := range remaining {
				cost, ok := costs[t]
				if ok && cost < bestCost {
					best, bestCost = i, cost
				}
			}
			if best >= 0 {
				bestPath = buildPath(prev, current, remaining[best])
			}
		}

		if best < 0 {
			break
		}

		next := remaining[best]
		seq.Path = append(seq.Path, bestPath[1:]...)
		seq.Visits = append(seq.Visits, next)
		seq.TotalDistance += bestCost
		current = next
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	if len(remaining) > 0 {
		seq.Unreached = remaining
	}
	return seq
}

func directCost(oracle DistanceOracle, from, to string, maxDistance float64) float64 {
	if from == to {
		return 0
	}
	d, ok := oracle.Distance(from, to)
	if !ok || d > maxDistance {
		return math.Inf(1)
	}
	return d
}

// shortestPaths runs Dijkstra from source and returns the cost and
// predecessor of every reachable point
func shortestPaths(oracle DistanceOracle, source string, maxDistance float64) (map[string]float64, map[string]string) {
	costs := map[string]float64{source: 0}
	prev := make(map[string]string)
	visited := make(map[string]bool)

	pq := &pathQueue{}
	heap.Push(pq, &pathItem{name: source, cost: 0})

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*pathItem)
		if visited[item.name] {
			continue
		}
		visited[item.name] = true

		for _, n := range oracle.Neighbors(item.name, maxDistance) {
			if visited[n.Name] {
				continue
			}
			cost := item.cost + n.Distance
			if old, ok := costs[n.Name]; !ok || cost < old {
				costs[n.Name] = cost
				prev[n.Name] = item.name
				heap.Push(pq, &pathItem{name: n.Name, cost: cost})
			}
		}
	}

	return costs, prev
}

func buildPath(prev map[string]string, source, target string) []string {
	path := []string{target}
	for node := target; node != source; {
		node = prev[node]
		path = append(path, node)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type pathItem struct {
	name string
	cost float64
}

// pathQueue is a min-heap on cost, ties broken by name for stable output
type pathQueue []*pathItem

func (q pathQueue) Len() int { return len(q) }

func (q pathQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return q[i].name < q[j].name
}

func (q pathQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *pathQueue) Push(x interface{}) {
	*q = append(*q, x.(*pathItem))
}

func (q *pathQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}
