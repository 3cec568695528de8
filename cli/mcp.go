// ABOUTME: MCP server subcommand
// ABOUTME: Registers CRM tools, resources and prompts and serves them on stdio
package cli

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/energycrm/crm"
	"github.com/harperreed/energycrm/handlers"
)

// Version is reported to MCP clients.
var Version = "0.1.0"

// NewMCPServer builds the MCP server with every tool, resource and prompt.
func NewMCPServer(svc *crm.Service) *mcp.Server {
	companyHandlers := handlers.NewCompanyHandlers(svc)
	contactHandlers := handlers.NewContactHandlers(svc)
	dealHandlers := handlers.NewDealHandlers(svc)
	activityHandlers := handlers.NewActivityHandlers(svc)
	userHandlers := handlers.NewUserHandlers(svc)
	queryHandlers := handlers.NewQueryHandlers(svc)
	vizHandlers := handlers.NewVizHandlers(svc)
	resourceHandlers := handlers.NewResourceHandlers(svc)
	promptHandlers := handlers.NewPromptHandlers(svc)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "energy-crm",
		Version: Version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{Name: "add_company", Description: "Add a new company to the CRM"}, companyHandlers.AddCompany)
	mcp.AddTool(server, &mcp.Tool{Name: "find_companies", Description: "Search companies by name, type, segment or relationship status"}, companyHandlers.FindCompanies)
	mcp.AddTool(server, &mcp.Tool{Name: "update_company", Description: "Update an existing company"}, companyHandlers.UpdateCompany)
	mcp.AddTool(server, &mcp.Tool{Name: "delete_company", Description: "Delete a company; its contacts and deals are kept"}, companyHandlers.DeleteCompany)

	mcp.AddTool(server, &mcp.Tool{Name: "add_contact", Description: "Add a new contact at an existing company"}, contactHandlers.AddContact)
	mcp.AddTool(server, &mcp.Tool{Name: "find_contacts", Description: "Search for contacts by name, email, title, status or company"}, contactHandlers.FindContacts)
	mcp.AddTool(server, &mcp.Tool{Name: "update_contact", Description: "Update an existing contact's information"}, contactHandlers.UpdateContact)
	mcp.AddTool(server, &mcp.Tool{Name: "delete_contact", Description: "Delete a contact"}, contactHandlers.DeleteContact)

	mcp.AddTool(server, &mcp.Tool{Name: "create_deal", Description: "Create a new energy project deal for a company and contact"}, dealHandlers.CreateDeal)
	mcp.AddTool(server, &mcp.Tool{Name: "find_deals", Description: "Search deals by name, stage, project type or company"}, dealHandlers.FindDeals)
	mcp.AddTool(server, &mcp.Tool{Name: "update_deal", Description: "Update an existing deal's information including value and probability"}, dealHandlers.UpdateDeal)
	mcp.AddTool(server, &mcp.Tool{Name: "move_deal", Description: "Move a deal to another pipeline stage"}, dealHandlers.MoveDeal)
	mcp.AddTool(server, &mcp.Tool{Name: "delete_deal", Description: "Delete a deal"}, dealHandlers.DeleteDeal)

	mcp.AddTool(server, &mcp.Tool{Name: "log_activity", Description: "Log a call, email, meeting or site visit for the current user"}, activityHandlers.LogActivity)
	mcp.AddTool(server, &mcp.Tool{Name: "find_activities", Description: "Search logged activities"}, activityHandlers.FindActivities)
	mcp.AddTool(server, &mcp.Tool{Name: "update_activity", Description: "Update an activity or mark its follow-up done"}, activityHandlers.UpdateActivity)
	mcp.AddTool(server, &mcp.Tool{Name: "delete_activity", Description: "Delete an activity"}, activityHandlers.DeleteActivity)
	mcp.AddTool(server, &mcp.Tool{Name: "list_followups", Description: "List follow-ups that are overdue or coming up"}, activityHandlers.ListFollowups)

	mcp.AddTool(server, &mcp.Tool{Name: "list_users", Description: "List the sales team"}, userHandlers.ListUsers)
	mcp.AddTool(server, &mcp.Tool{Name: "set_current_user", Description: "Switch the acting user"}, userHandlers.SetCurrentUser)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_crm",
		Description: "Universal query tool with search and an expression filter across contacts, companies, deals and activities",
	}, queryHandlers.QueryCRM)
	mcp.AddTool(server, &mcp.Tool{Name: "dashboard", Description: "Pipeline and activity summary"}, vizHandlers.Dashboard)
	mcp.AddTool(server, &mcp.Tool{Name: "generate_graph", Description: "Render a GraphViz graph of the pipeline, one company, or everything"}, vizHandlers.GenerateGraph)

	for _, uri := range handlers.ResourceURIs {
		server.AddResource(&mcp.Resource{URI: uri, Name: uri, MIMEType: "application/json"}, resourceHandlers.ReadResource)
	}
	for _, tmpl := range []string{"crm://contacts/{id}", "crm://companies/{id}", "crm://deals/{id}", "crm://activities/{id}"} {
		server.AddResourceTemplate(&mcp.ResourceTemplate{URITemplate: tmpl, Name: tmpl, MIMEType: "application/json"}, resourceHandlers.ReadResource)
	}
	for _, p := range handlers.Prompts {
		server.AddPrompt(p, promptHandlers.GetPrompt)
	}

	return server
}

// MCPCommand starts the MCP server on stdio
func (a *App) MCPCommand(ctx context.Context, logger *slog.Logger) error {
	logger.Info("starting MCP server", "version", Version)
	return NewMCPServer(a.Svc).Run(ctx, &mcp.StdioTransport{})
}
