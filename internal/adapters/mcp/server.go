// Package mcp exposes a Service over the Model Context Protocol, so AI
// agents can run machines, walk sessions and inspect definitions as tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/compiler"
	"github.com/aretw0/espalier/pkg/automaton"
	"github.com/aretw0/espalier/pkg/registry"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RunResponse aligns with the HTTP run result, so agents see the same shape
// across adapters.
type RunResponse struct {
	Machine  string `json:"machine" jsonschema_description:"Machine that processed the input"`
	Input    string `json:"input" jsonschema_description:"The processed input string"`
	State    string `json:"state" jsonschema_description:"Terminal state after the run"`
	Accepted bool   `json:"accepted" jsonschema_description:"Whether the input ended in an accepting state"`
	Steps    int    `json:"steps" jsonschema_description:"Number of transitions taken"`
}

// ModThreeResponse carries the remainder computed by the built-in machine.
type ModThreeResponse struct {
	Input     string `json:"input" jsonschema_description:"Binary input, most significant digit first"`
	Remainder int    `json:"remainder" jsonschema_description:"Value of the input modulo three"`
}

// SessionResponse mirrors the session record exposed over HTTP.
type SessionResponse struct {
	ID      string `json:"id" jsonschema_description:"Session identifier"`
	Machine string `json:"machine" jsonschema_description:"Machine the session runs on"`
	State   string `json:"state" jsonschema_description:"Current state"`
	Steps   int    `json:"steps" jsonschema_description:"Symbols consumed so far"`
}

// Server wraps a Service and exposes it as an MCP Server.
type Server struct {
	svc       *espalier.Service
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(svc *espalier.Service) *Server {
	s := &Server{
		svc:       svc,
		mcpServer: server.NewMCPServer("espalier-mcp", strings.TrimSpace(espalier.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		// Create a timeout context for the graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		fmt.Println("\nShutdown signal received, shutting down server...")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: run_machine
	runTool := mcp.NewTool("run_machine",
		mcp.WithDescription("Run an input string through a registered machine and report the terminal state."),
		mcp.WithString("machine", mcp.Description("Machine name (defaults to mod3)")),
		mcp.WithString("input", mcp.Required(), mcp.Description("Input string, one symbol per character")),
		mcp.WithOutputSchema[RunResponse](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRun))

	// TOOL: mod_three
	modTool := mcp.NewTool("mod_three",
		mcp.WithDescription("Compute the remainder of an unsigned binary number modulo three."),
		mcp.WithString("input", mcp.Required(), mcp.Description("Binary digits, most significant first")),
		mcp.WithOutputSchema[ModThreeResponse](),
	)
	s.mcpServer.AddTool(modTool, mcp.NewStructuredToolHandler(s.handleModThree))

	// TOOL: start_session
	startTool := mcp.NewTool("start_session",
		mcp.WithDescription("Start a durable session on a machine, or resume it if the ID already exists."),
		mcp.WithString("machine", mcp.Description("Machine name (defaults to mod3)")),
		mcp.WithString("id", mcp.Description("Session ID (generated when omitted)")),
		mcp.WithOutputSchema[SessionResponse](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStartSession))

	// TOOL: step_session
	stepTool := mcp.NewTool("step_session",
		mcp.WithDescription("Feed a single symbol to a session and report its new position."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("Exactly one input symbol")),
		mcp.WithOutputSchema[SessionResponse](),
	)
	s.mcpServer.AddTool(stepTool, mcp.NewStructuredToolHandler(s.handleStepSession))

	// TOOL: list_machines
	s.mcpServer.AddTool(mcp.NewTool("list_machines",
		mcp.WithDescription("List the names of all registered machines."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(s.svc.Machines())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleRun(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RunResponse, error) {
	machine, _ := args["machine"].(string)
	if machine == "" {
		machine = registry.ModThree
	}
	input, _ := args["input"].(string)

	res, err := s.svc.Run(ctx, machine, input)
	if err != nil {
		return RunResponse{}, fmt.Errorf("run failed: %w", err)
	}

	return RunResponse{
		Machine:  res.Machine,
		Input:    res.Input,
		State:    string(res.State),
		Accepted: res.Accepted,
		Steps:    res.Steps,
	}, nil
}

func (s *Server) handleModThree(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ModThreeResponse, error) {
	input, _ := args["input"].(string)

	remainder, err := s.svc.Remainder(ctx, input)
	if err != nil {
		return ModThreeResponse{}, fmt.Errorf("mod three failed: %w", err)
	}

	return ModThreeResponse{Input: input, Remainder: remainder}, nil
}

func (s *Server) handleStartSession(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	machine, _ := args["machine"].(string)
	if machine == "" {
		machine = registry.ModThree
	}
	id, _ := args["id"].(string)

	sess, err := s.svc.StartSession(ctx, machine, id)
	if err != nil {
		return SessionResponse{}, fmt.Errorf("start session failed: %w", err)
	}

	return SessionResponse{
		ID:      sess.ID,
		Machine: sess.Machine,
		State:   string(sess.Current),
		Steps:   sess.Steps,
	}, nil
}

func (s *Server) handleStepSession(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	id, _ := args["id"].(string)
	symbol, _ := args["symbol"].(string)

	if utf8.RuneCountInString(symbol) != 1 {
		return SessionResponse{}, fmt.Errorf("symbol must be a single character")
	}
	r, _ := utf8.DecodeRuneInString(symbol)

	sess, err := s.svc.StepSession(ctx, id, automaton.Symbol(r))
	if err != nil {
		return SessionResponse{}, fmt.Errorf("step failed: %w", err)
	}

	return SessionResponse{
		ID:      sess.ID,
		Machine: sess.Machine,
		State:   string(sess.Current),
		Steps:   sess.Steps,
	}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: espalier://machines
	s.mcpServer.AddResource(mcp.NewResource("espalier://machines", "Registered Machine Definitions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		docs := make(map[string]compiler.Document)
		for _, name := range s.svc.Machines() {
			def, err := s.svc.Definition(name)
			if err != nil {
				return nil, fmt.Errorf("failed to inspect machine %s: %w", name, err)
			}
			docs[name] = compiler.FromDefinition(name, def)
		}
		jsonBytes, err := json.Marshal(docs)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal definitions: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "espalier://machines",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
