// ABOUTME: Complete graph generation combining all entities
// ABOUTME: Draws companies, their contacts and deals, optionally limited to one company
package viz

import (
	"fmt"

	"github.com/goccy/go-graphviz/cgraph"

	"github.com/harperreed/energycrm/query"
)

// GenerateCompleteGraph creates a graph with all companies, contacts, and deals.
func (g *GraphGenerator) GenerateCompleteGraph() (string, error) {
	return g.render("Energy CRM", func(graph *cgraph.Graph) error {
		return g.addEntities(graph, "")
	})
}

// GenerateCompanyGraph draws one company with its contacts and deals.
func (g *GraphGenerator) GenerateCompanyGraph(companyID string) (string, error) {
	company, ok := g.state.FindCompany(companyID)
	if !ok {
		return "", fmt.Errorf("company not found: %s", companyID)
	}
	return g.render(company.Name, func(graph *cgraph.Graph) error {
		return g.addEntities(graph, companyID)
	})
}

// addEntities adds nodes and edges; an empty companyID includes everything.
func (g *GraphGenerator) addEntities(graph *cgraph.Graph, companyID string) error {
	include := func(id string) bool { return companyID == "" || id == companyID }

	companyNodes := make(map[string]*cgraph.Node)
	for _, company := range g.state.Companies {
		if !include(company.ID) {
			continue
		}
		node, err := graph.CreateNodeByName("company_" + company.ID)
		if err != nil {
			return fmt.Errorf("failed to create company node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n(%s)", company.Name, company.Type))
		node.SetShape("box")
		node.SetStyle("filled")
		node.SetFillColor("lightblue")
		companyNodes[company.ID] = node
	}

	contactNodes := make(map[string]*cgraph.Node)
	for _, contact := range g.state.Contacts {
		if !include(contact.CompanyID) {
			continue
		}
		node, err := graph.CreateNodeByName("contact_" + contact.ID)
		if err != nil {
			return fmt.Errorf("failed to create contact node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n%s", contact.Name, contact.Title))
		node.SetShape("ellipse")
		node.SetStyle("filled")
		node.SetFillColor("lightgreen")
		contactNodes[contact.ID] = node

		if companyNode, ok := companyNodes[contact.CompanyID]; ok {
			edge, err := graph.CreateEdgeByName("works_at", node, companyNode)
			if err != nil {
				return fmt.Errorf("failed to create edge: %w", err)
			}
			edge.SetLabel("works at")
			edge.SetStyle("dashed")
		}
	}

	for _, deal := range g.state.Deals {
		if !include(deal.CompanyID) {
			continue
		}
		node, err := graph.CreateNodeByName("deal_" + deal.ID)
		if err != nil {
			return fmt.Errorf("failed to create deal node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n%s\n(%s)", deal.Name, Money(deal.Value), deal.Stage.Label()))
		node.SetShape("diamond")
		node.SetStyle("filled")
		node.SetFillColor(stageColor(deal.Stage))

		if companyNode, ok := companyNodes[deal.CompanyID]; ok {
			edge, err := graph.CreateEdgeByName("deal_with", companyNode, node)
			if err != nil {
				return fmt.Errorf("failed to create edge: %w", err)
			}
			edge.SetLabel("deal")
		} else {
			// Dangling reference; show the placeholder in the label instead.
			node.SetLabel(fmt.Sprintf("%s\n%s\n(%s)", deal.Name, query.UnknownCompany, deal.Stage.Label()))
		}

		if contactNode, ok := contactNodes[deal.ContactID]; ok {
			edge, err := graph.CreateEdgeByName("contact_for", contactNode, node)
			if err != nil {
				return fmt.Errorf("failed to create edge: %w", err)
			}
			edge.SetLabel("contact")
			edge.SetStyle("dotted")
		}
	}
	return nil
}
