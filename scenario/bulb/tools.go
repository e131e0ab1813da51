package bulb

import (
	"context"
	"fmt"

	"github.com/rickchristie/duet"
	"github.com/rickchristie/duet/schema"
)

// Tool names.
const (
	ToolAgentSwitch = "agent_switch"
	ToolUserSwitch  = "user_switch"
	ToolCheckStatus = "check_status"
)

// NoInput is the input of the bulb tools, which take no arguments.
type NoInput struct{}

// AgentSwitchTool flips the agent's switch.
func AgentSwitchTool(backend Backend) *duet.ToolFunc[NoInput, string] {
	return flipTool(backend, ToolAgentSwitch, "Flip agent switch", SideAgent)
}

// UserSwitchTool flips the user's switch.
func UserSwitchTool(backend Backend) *duet.ToolFunc[NoInput, string] {
	return flipTool(backend, ToolUserSwitch, "Flip user switch", SideUser)
}

func flipTool(backend Backend, name, description string, side Side) *duet.ToolFunc[NoInput, string] {
	return duet.NewToolFunc(name, description, schema.Empty(),
		func(ctx context.Context, _ NoInput) (string, error) {
			if err := backend.Flip(ctx, side); err != nil {
				return "", err
			}
			return name + " flipped", nil
		},
	)
}

// CheckStatusTool reports whether the bulb is lit.
func CheckStatusTool(backend Backend) *duet.ToolFunc[NoInput, string] {
	return duet.NewToolFunc(
		ToolCheckStatus,
		"Check if the bulb is currently lighting. Returns whether bulb is ON or OFF.",
		schema.Empty(),
		func(ctx context.Context, _ NoInput) (string, error) {
			on, err := backend.CheckStatus(ctx)
			if err != nil {
				return "", fmt.Errorf("unable to check bulb status: %w", err)
			}
			return StatusText(on), nil
		},
	)
}

// StatusText is the check_status output for a bulb state.
func StatusText(on bool) string {
	if on {
		return "The bulb is ON"
	}
	return "The bulb is OFF"
}

// Tools returns every bulb tool bound to backend.
func Tools(backend Backend) []duet.AnyTool {
	return []duet.AnyTool{
		AgentSwitchTool(backend),
		UserSwitchTool(backend),
		CheckStatusTool(backend),
	}
}
