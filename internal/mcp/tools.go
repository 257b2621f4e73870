package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ethvoyager95/quickswap-core/internal/platform/timeouts"
)

// RunLineInput is the scenario_run_line tool input.
type RunLineInput struct {
	Line string `json:"line" jsonschema:"script line to execute"`
	From string `json:"from,omitempty" jsonschema:"acting account alias for this line only"`
}

// RunLineResult is the scenario_run_line tool output.
type RunLineResult struct {
	Value   string   `json:"value,omitempty" jsonschema:"value shown by a view command"`
	Actions []string `json:"actions,omitempty" jsonschema:"action log entries the line appended"`
	Output  []string `json:"output,omitempty" jsonschema:"lines the command printed"`
	From    string   `json:"from" jsonschema:"address the line acted as"`
}

// ResetInput is the scenario_reset tool input.
type ResetInput struct {
	Network string `json:"network,omitempty" jsonschema:"local network for the fresh World"`
}

// ResetResult is the scenario_reset tool output.
type ResetResult struct {
	Network   string   `json:"network" jsonschema:"network of the fresh World"`
	Accounts  []string `json:"accounts" jsonschema:"genesis account aliases"`
	Contracts []string `json:"contracts" jsonschema:"genesis contract names"`
}

// CommandsInput is the scenario_commands tool input.
type CommandsInput struct {
	Subsystem string `json:"subsystem,omitempty" jsonschema:"optional subsystem filter"`
}

// CommandDoc describes one command of a subsystem.
type CommandDoc struct {
	Subsystem string `json:"subsystem"`
	Usage     string `json:"usage"`
	Doc       string `json:"doc,omitempty"`
}

// CommandsResult is the scenario_commands tool output.
type CommandsResult struct {
	Commands []CommandDoc `json:"commands"`
}

// WorldState is the world://state resource payload.
type WorldState struct {
	Network   string            `json:"network"`
	From      string            `json:"from"`
	Accounts  map[string]string `json:"accounts"`
	Contracts map[string]string `json:"contracts"`
	Actions   []string          `json:"actions"`
}

// runLineTool defines the MCP tool schema for running one script line.
func runLineTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "scenario_run_line",
		Description: "Runs one script line against the shared World. A line of the form 'from <alias>' switches the acting account for later calls.",
	}
}

// resetTool defines the MCP tool schema for resetting the World.
func resetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "scenario_reset",
		Description: "Discards the shared World and boots a fresh genesis devnet",
	}
}

// commandsTool defines the MCP tool schema for listing commands.
func commandsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "scenario_commands",
		Description: "Lists the script commands every subsystem accepts",
	}
}

// worldStateResource defines the MCP resource for the World state.
func worldStateResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "world_state",
		Title:       "World state",
		Description: "Current network, account and contract registries, and action log",
		MIMEType:    "application/json",
		URI:         "world://state",
	}
}

// runLineHandler executes one script line against the shared World.
func (s *Server) runLineHandler() mcp.ToolHandlerFor[RunLineInput, RunLineResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RunLineInput) (*mcp.CallToolResult, RunLineResult, error) {
		line := strings.TrimSpace(input.Line)
		if line == "" {
			return nil, RunLineResult{}, fmt.Errorf("line is required")
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		if alias, ok := fromDirective(line); ok {
			addr, found := s.world.Account(alias)
			if !found {
				return nil, RunLineResult{}, fmt.Errorf("unknown account %q", alias)
			}
			s.from = addr
			return nil, RunLineResult{From: addr}, nil
		}

		from := s.from
		if input.From != "" {
			addr, found := s.world.Account(input.From)
			if !found {
				return nil, RunLineResult{}, fmt.Errorf("unknown account %q", input.From)
			}
			from = addr
		}

		runCtx, cancel := context.WithTimeout(ctx, timeouts.ScriptLine)
		defer cancel()

		s.sink.drain()
		before := s.world.ActionCount()
		next, out, err := s.processor.ProcessLine(runCtx, s.world, from, line)
		if err != nil {
			return nil, RunLineResult{}, err
		}
		s.world = next

		result := RunLineResult{From: from, Output: s.sink.drain()}
		if out.IsValid() {
			result.Value = out.Show()
		}
		actions := next.Actions()
		for _, action := range actions[before:] {
			result.Actions = append(result.Actions, action.Description)
		}
		return nil, result, nil
	}
}

// resetHandler boots a fresh genesis World.
func (s *Server) resetHandler() mcp.ToolHandlerFor[ResetInput, ResetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ResetInput) (*mcp.CallToolResult, ResetResult, error) {
		network := strings.TrimSpace(input.Network)
		if network == "" {
			s.mu.RLock()
			network = s.network
			s.mu.RUnlock()
		}
		if err := s.reset(network); err != nil {
			return nil, ResetResult{}, err
		}

		s.mu.RLock()
		defer s.mu.RUnlock()
		return nil, ResetResult{
			Network:   s.world.Network(),
			Accounts:  s.world.AccountNames(),
			Contracts: s.world.ContractNames(),
		}, nil
	}
}

// commandsHandler lists registered commands, optionally for one subsystem.
func (s *Server) commandsHandler() mcp.ToolHandlerFor[CommandsInput, CommandsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CommandsInput) (*mcp.CallToolResult, CommandsResult, error) {
		s.mu.RLock()
		defer s.mu.RUnlock()

		names := s.processor.Subsystems()
		if input.Subsystem != "" {
			if _, ok := s.processor.Registry(input.Subsystem); !ok {
				return nil, CommandsResult{}, fmt.Errorf("no such subsystem %q", input.Subsystem)
			}
			names = []string{input.Subsystem}
		}

		var result CommandsResult
		for _, name := range names {
			registry, ok := s.processor.Registry(name)
			if !ok {
				continue
			}
			for _, cmd := range registry.Commands() {
				result.Commands = append(result.Commands, CommandDoc{
					Subsystem: name,
					Usage:     cmd.Usage(),
					Doc:       cmd.Doc,
				})
			}
		}
		return nil, result, nil
	}
}

// worldStateHandler renders the shared World as a JSON resource.
func (s *Server) worldStateHandler() mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := worldStateResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}

		s.mu.RLock()
		state := WorldState{
			Network:   s.world.Network(),
			From:      s.from,
			Accounts:  map[string]string{},
			Contracts: map[string]string{},
		}
		for _, name := range s.world.AccountNames() {
			addr, _ := s.world.Account(name)
			state.Accounts[name] = addr
		}
		for _, name := range s.world.ContractNames() {
			addr, _ := s.world.Contract(name)
			state.Contracts[name] = addr
		}
		for _, action := range s.world.Actions() {
			state.Actions = append(state.Actions, action.Description)
		}
		s.mu.RUnlock()

		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal world state: %w", err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{URI: uri, MIMEType: "application/json", Text: string(data)},
			},
		}, nil
	}
}

// fromDirective matches the `from <alias>` acting-account line.
func fromDirective(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 2 && strings.EqualFold(fields[0], "from") {
		return fields[1], true
	}
	return "", false
}
