// Package mcp exposes the scenario engine to MCP clients: tools that run
// script lines against one shared devnet World plus a resource rendering
// the World state as JSON.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ethvoyager95/quickswap-core/internal/commands"
	"github.com/ethvoyager95/quickswap-core/internal/script"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "QuickSwap Scenario MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Config configures the MCP server.
type Config struct {
	Network string
}

// Server hosts the MCP server. All tools operate on the one World the
// server owns; the mutex serializes tool calls against resource reads.
type Server struct {
	mcpServer *mcp.Server

	mu        sync.RWMutex
	processor *script.Processor
	world     *script.World
	from      string
	network   string
	sink      *captureSink
}

// New creates a configured MCP server with a fresh genesis World on the
// given local network.
func New(network string) (*Server, error) {
	if strings.TrimSpace(network) == "" {
		network = "development"
	}

	s := &Server{network: network, sink: &captureSink{}}
	if err := s.reset(network); err != nil {
		return nil, err
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	mcp.AddTool(mcpServer, runLineTool(), s.runLineHandler())
	mcp.AddTool(mcpServer, resetTool(), s.resetHandler())
	mcp.AddTool(mcpServer, commandsTool(), s.commandsHandler())
	mcpServer.AddResource(worldStateResource(), s.worldStateHandler())
	s.mcpServer = mcpServer

	return s, nil
}

// Run creates and serves a stdio MCP server until the context ends.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg.Network)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport starts the MCP server using the provided transport.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// reset replaces the server's World with a fresh genesis on the given
// network. The existing World is untouched when the network is not local.
func (s *Server) reset(network string) error {
	processor, world, _ := commands.Genesis(network, s.sink)
	if !world.IsLocalNetwork() {
		return fmt.Errorf("network %q has no local backend", network)
	}
	from, _ := world.Account("Root")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.processor = processor
	s.world = world
	s.from = from
	s.network = network
	s.sink.drain()
	return nil
}

// captureSink collects World print output so tool results can return it.
// It has its own lock because commands print while the server mutex is held.
type captureSink struct {
	mu    sync.Mutex
	lines []string
}

func (c *captureSink) Printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, fmt.Sprintf(format, args...))
}

// drain returns the collected lines and clears the sink.
func (c *captureSink) drain() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := c.lines
	c.lines = nil
	return lines
}
