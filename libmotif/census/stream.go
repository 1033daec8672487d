package census

import (
	"github.com/2x3systems/go2x3motif/libmotif/freq"
	"github.com/2x3systems/go2x3motif/libmotif/graph"
)

// Host is a graph submitted to a census stream, tagged with its position in the input.
type Host struct {
	Seq  int
	Expr string
	*graph.Graph
}

// GraphStream carries host graphs between pipeline stages.
// A stage owns every Host it pulls and either passes it on or reclaims it.
type GraphStream struct {
	Outlet chan Host
}

func NewGraphStream() *GraphStream {
	return &GraphStream{
		Outlet: make(chan Host, 1),
	}
}

// StreamExprs parses every expr and returns a stream that emits the resulting graphs in order.
// If any expr fails to parse, nothing is streamed and the error is returned.
func StreamExprs(exprs []string) (*GraphStream, error) {
	hosts := make([]Host, 0, len(exprs))
	for i, expr := range exprs {
		X, err := graph.NewGraphFromString(expr)
		if err != nil {
			for _, host := range hosts {
				host.Reclaim()
			}
			return nil, err
		}
		hosts = append(hosts, Host{Seq: i, Expr: expr, Graph: X})
	}

	next := NewGraphStream()
	go func() {
		for _, host := range hosts {
			next.Outlet <- host
		}
		next.Close()
	}()
	return next, nil
}

func (stream *GraphStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

func (stream *GraphStream) PushGraph(host Host) {
	stream.Outlet <- host
}

// PullAll drains and reclaims the stream, returning the number of graphs pulled.
func (stream *GraphStream) PullAll() int {
	count := 0
	for host := range stream.Outlet {
		count++
		host.Reclaim()
	}
	return count
}

// Tally is the census of one Host.  Classes is nil iff Err is set.
type Tally struct {
	Seq     int
	Expr    string
	Classes *freq.Table
	Err     error
}

type TallyStream struct {
	Outlet chan Tally
}

// Census returns a stream of the census of each graph pulled from this stream, in the order pulled.
func (stream *GraphStream) Census(c *Censor) *TallyStream {
	next := &TallyStream{
		Outlet: make(chan Tally, 1),
	}

	go func() {
		for host := range stream.Outlet {
			classes, err := c.Census(host.Graph)
			host.Reclaim()
			next.Outlet <- Tally{
				Seq:     host.Seq,
				Expr:    host.Expr,
				Classes: classes,
				Err:     err,
			}
		}
		close(next.Outlet)
	}()
	return next
}

// Collect drains the stream and returns its tallies.
func (stream *TallyStream) Collect() []Tally {
	var tallies []Tally
	for tally := range stream.Outlet {
		tallies = append(tallies, tally)
	}
	return tallies
}
