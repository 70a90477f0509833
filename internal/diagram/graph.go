// Package diagram draws the process map of a meeting with Graphviz or Mermaid.
package diagram

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/mdoc/internal/analysis"
)

var ErrEmptyGraph = errors.New("process map has no steps")

type Node struct {
	ID    string
	Label string
}

type Edge struct {
	From string
	To   string
}

// Graph is a directed process map with renderer-safe node ids.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// ProcessMap converts analysis steps into a Graph. Step ids are replaced by
// n1..nN; links to unknown ids are dropped. When no step declares a
// successor the steps are chained in order.
func ProcessMap(steps []analysis.ProcessStep) (Graph, error) {
	var g Graph
	ids := make(map[string]string, len(steps))

	for _, s := range steps {
		label := strings.TrimSpace(s.Label)
		if label == "" {
			continue
		}
		id := fmt.Sprintf("n%d", len(g.Nodes)+1)
		if s.ID != "" {
			if _, dup := ids[s.ID]; !dup {
				ids[s.ID] = id
			}
		}
		g.Nodes = append(g.Nodes, Node{ID: id, Label: label})
	}
	if len(g.Nodes) == 0 {
		return Graph{}, ErrEmptyGraph
	}

	seen := make(map[Edge]bool)
	for _, s := range steps {
		from, ok := ids[s.ID]
		if !ok {
			continue
		}
		for _, next := range s.Next {
			to, ok := ids[next]
			if !ok || to == from {
				continue
			}
			e := Edge{From: from, To: to}
			if !seen[e] {
				seen[e] = true
				g.Edges = append(g.Edges, e)
			}
		}
	}

	if len(g.Edges) == 0 {
		for i := 1; i < len(g.Nodes); i++ {
			g.Edges = append(g.Edges, Edge{From: g.Nodes[i-1].ID, To: g.Nodes[i].ID})
		}
	}
	return g, nil
}

// DOT renders the graph in Graphviz syntax.
func (g Graph) DOT() string {
	var b strings.Builder
	b.WriteString("digraph process {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=\"#E8F0FE\", fontname=\"Helvetica\"];\n")
	for _, n := range g.Nodes {
		fmt.Fprintf(&b, "  %s [label=\"%s\"];\n", n.ID, dotEscape(n.Label))
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&b, "  %s -> %s;\n", e.From, e.To)
	}
	b.WriteString("}\n")
	return b.String()
}

// Mermaid renders the graph as a Mermaid flowchart.
func (g Graph) Mermaid() string {
	var b strings.Builder
	b.WriteString("flowchart LR\n")
	for _, n := range g.Nodes {
		fmt.Fprintf(&b, "    %s[\"%s\"]\n", n.ID, mermaidEscape(n.Label))
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&b, "    %s --> %s\n", e.From, e.To)
	}
	return b.String()
}

func dotEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return strings.ReplaceAll(s, "\n", `\n`)
}

func mermaidEscape(s string) string {
	s = strings.ReplaceAll(s, `"`, "#quot;")
	return strings.ReplaceAll(s, "\n", "<br/>")
}
