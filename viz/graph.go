// ABOUTME: Graphviz rendering of the deal pipeline
// ABOUTME: Stages are chained in order; contract review branches to won and lost
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/harperreed/energycrm/models"
	"github.com/harperreed/energycrm/store"
)

// GraphGenerator renders graphs over one store snapshot.
type GraphGenerator struct {
	state store.State
}

func NewGraphGenerator(s store.State) *GraphGenerator {
	return &GraphGenerator{state: s}
}

// render creates a graph, lets build populate it and returns DOT text.
func (g *GraphGenerator) render(label string, build func(*cgraph.Graph) error) (string, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer graph.Close()

	graph.SetLabel(label)
	if err := build(graph); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}
	return buf.String(), nil
}

// GeneratePipelineGraph draws one node per stage with its deal count and value.
func (g *GraphGenerator) GeneratePipelineGraph() (string, error) {
	return g.render("Deal Pipeline", func(graph *cgraph.Graph) error {
		graph.SetRankDir(cgraph.LRRank)

		counts := map[models.Stage]int{}
		values := map[models.Stage]float64{}
		for _, d := range g.state.Deals {
			counts[d.Stage]++
			values[d.Stage] += d.Value
		}

		nodes := map[models.Stage]*cgraph.Node{}
		for _, stage := range models.Stages {
			node, err := graph.CreateNodeByName(string(stage))
			if err != nil {
				return fmt.Errorf("failed to create stage node: %w", err)
			}
			node.SetLabel(fmt.Sprintf("%s\n%d deals\n%s", stage.Label(), counts[stage], Money(values[stage])))
			node.SetShape("box")
			node.SetStyle("filled")
			node.SetFillColor(stageColor(stage))
			nodes[stage] = node
		}

		for i := 1; i < len(models.OpenStages); i++ {
			if _, err := graph.CreateEdgeByName("next", nodes[models.OpenStages[i-1]], nodes[models.OpenStages[i]]); err != nil {
				return fmt.Errorf("failed to create edge: %w", err)
			}
		}
		last := nodes[models.OpenStages[len(models.OpenStages)-1]]
		won, err := graph.CreateEdgeByName("won", last, nodes[models.StageClosedWon])
		if err != nil {
			return fmt.Errorf("failed to create edge: %w", err)
		}
		won.SetLabel("won")
		lost, err := graph.CreateEdgeByName("lost", last, nodes[models.StageClosedLost])
		if err != nil {
			return fmt.Errorf("failed to create edge: %w", err)
		}
		lost.SetLabel("lost")
		lost.SetStyle("dashed")
		return nil
	})
}

func stageColor(s models.Stage) string {
	switch s {
	case models.StageClosedWon:
		return "palegreen"
	case models.StageClosedLost:
		return "lightpink"
	case models.StageNegotiation, models.StageContractReview:
		return "lightyellow"
	default:
		return "lightblue"
	}
}
