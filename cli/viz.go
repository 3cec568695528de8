// ABOUTME: Visualization CLI commands
// ABOUTME: Handles viz dashboard and graph generation commands
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/harperreed/energycrm/crm"
	"github.com/harperreed/energycrm/viz"
)

// VizDashboardCommand prints the text dashboard.
func (a *App) VizDashboardCommand(_ context.Context, args []string) error {
	fs := a.flagSet("viz dashboard")
	if err := fs.Parse(args); err != nil {
		return err
	}

	stats := viz.GenerateDashboardStats(a.Svc.State(), a.Svc.Now())
	a.printf("%s", viz.RenderDashboard(stats))
	return nil
}

// VizGraphCommand renders one of the graphs: pipeline, company <id|name> or all.
func (a *App) VizGraphCommand(_ context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: viz graph <pipeline|company|all> [--output file]")
	}
	kind, rest := args[0], args[1:]

	fs := a.flagSet("viz graph " + kind)
	output := fs.String("output", "", "Output file (default: stdout)")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	st := a.Svc.State()
	generator := viz.NewGraphGenerator(st)

	var dot string
	var err error
	switch kind {
	case "pipeline":
		dot, err = generator.GeneratePipelineGraph()
	case "company":
		ref, idErr := requireID(fs, "company")
		if idErr != nil {
			return idErr
		}
		c, ok := crm.FindCompany(st, ref)
		if !ok {
			return fmt.Errorf("company not found: %s", ref)
		}
		dot, err = generator.GenerateCompanyGraph(c.ID)
	case "all":
		dot, err = generator.GenerateCompleteGraph()
	default:
		return fmt.Errorf("unknown graph type: %s", kind)
	}
	if err != nil {
		return err
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(dot), 0644); err != nil {
			return err
		}
		a.printf("✓ Graph written to %s\n", *output)
		return nil
	}

	a.println(dot)
	return nil
}
