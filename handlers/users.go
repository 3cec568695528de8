// ABOUTME: User MCP tool handlers
// ABOUTME: Implements list_users and set_current_user tools
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/energycrm/crm"
	"github.com/harperreed/energycrm/models"
)

type UserHandlers struct {
	svc *crm.Service
}

func NewUserHandlers(svc *crm.Service) *UserHandlers {
	return &UserHandlers{svc: svc}
}

type ListUsersInput struct{}

type ListUsersOutput struct {
	Users []UserOutput `json:"users"`
}

func (h *UserHandlers) ListUsers(_ context.Context, _ *mcp.CallToolRequest, _ ListUsersInput) (*mcp.CallToolResult, ListUsersOutput, error) {
	st := h.svc.State()
	return nil, ListUsersOutput{
		Users: mapSlice(st.Users, func(u models.User) UserOutput { return userToOutput(st, u) }),
	}, nil
}

type SetCurrentUserInput struct {
	User string `json:"user" jsonschema:"User ID or full name (required)"`
}

func (h *UserHandlers) SetCurrentUser(ctx context.Context, _ *mcp.CallToolRequest, input SetCurrentUserInput) (*mcp.CallToolResult, UserOutput, error) {
	if input.User == "" {
		return nil, UserOutput{}, fmt.Errorf("user is required")
	}
	u, err := h.svc.SetCurrentUser(ctx, input.User)
	if err != nil {
		return nil, UserOutput{}, err
	}
	return nil, userToOutput(h.svc.State(), u), nil
}
