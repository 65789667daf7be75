// Package mcp exposes the computation cores as MCP tools, over stdio or
// SSE, so agent hosts can drive the toolkit.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"

	"github.com/towerlab/platekit/internal/config"
	"github.com/towerlab/platekit/internal/systems"
	"github.com/towerlab/platekit/pkg/domain"
	"github.com/towerlab/platekit/pkg/hydraulics"
	"github.com/towerlab/platekit/pkg/mccabe"
	"github.com/towerlab/platekit/pkg/tower"
	"github.com/towerlab/platekit/pkg/tray"
	"github.com/towerlab/platekit/pkg/vle"
)

// EnvelopeResult pairs the solved envelope with its rendered boundary
// curves.
type EnvelopeResult struct {
	Envelope *hydraulics.Envelope `json:"envelope" jsonschema_description:"Solved operating envelope"`
	Profile  *hydraulics.Profile  `json:"profile,omitempty" jsonschema_description:"Sampled boundary curves"`
}

// HolesResult carries either the valve layout or the sieve estimate.
type HolesResult struct {
	Type   config.TrayKind `json:"type"`
	Count  int             `json:"count" jsonschema_description:"Number of holes on the plate"`
	Layout *tray.Layout    `json:"layout,omitempty"`
	Inset  *tray.Inset     `json:"inset,omitempty"`
}

// Server wraps the computation cores as an MCP server.
type Server struct {
	catalog   *systems.Catalog
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server over the given system catalog.
func NewServer(catalog *systems.Catalog, version string) *Server {
	s := &Server{
		catalog:   catalog,
		mcpServer: server.NewMCPServer("platekit-mcp", version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and blocks
// until ctx is canceled or the listener fails.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	countTool := mcp.NewTool("count_stages",
		mcp.WithDescription("Count theoretical stages of a binary distillation by the McCabe-Thiele construction."),
		mcp.WithString("system", mcp.Description("Named equilibrium system from the catalog (default ethanol-water)")),
		mcp.WithString("points", mcp.Description("JSON array of equilibrium points [{\"x\":..,\"y\":..},..]; overrides system")),
		mcp.WithNumber("rect_slope", mcp.Required(), mcp.Description("Rectifying line slope")),
		mcp.WithNumber("rect_intercept", mcp.Required(), mcp.Description("Rectifying line intercept")),
		mcp.WithNumber("strip_slope", mcp.Required(), mcp.Description("Stripping line slope")),
		mcp.WithNumber("strip_intercept", mcp.Required(), mcp.Description("Stripping line intercept")),
		mcp.WithNumber("xd", mcp.Required(), mcp.Description("Distillate composition")),
		mcp.WithNumber("xf", mcp.Required(), mcp.Description("Feed composition")),
		mcp.WithNumber("xw", mcp.Required(), mcp.Description("Bottoms composition")),
		mcp.WithNumber("max_stages", mcp.Description("Stage cap before the run is declared non-convergent")),
		mcp.WithOutputSchema[mccabe.Result](),
	)
	s.mcpServer.AddTool(countTool, mcp.NewStructuredToolHandler(s.handleCountStages))

	envelopeTool := mcp.NewTool("operating_envelope",
		mcp.WithDescription("Solve the hydraulic operating envelope of a valve or sieve tray."),
		mcp.WithString("tray_type", mcp.Description("valve or sieve (default valve)")),
		mcp.WithString("config", mcp.Description("JSON envelope parameter document; omitted fields keep the worked-example defaults")),
		mcp.WithNumber("samples", mcp.Description("If > 0, include boundary curves sampled at this many liquid loads")),
		mcp.WithOutputSchema[EnvelopeResult](),
	)
	s.mcpServer.AddTool(envelopeTool, mcp.NewStructuredToolHandler(s.handleEnvelope))

	holesTool := mcp.NewTool("hole_count",
		mcp.WithDescription("Count tray holes: exact staggered layout for valve trays, area estimate plus detail inset for sieve plates."),
		mcp.WithString("tray_type", mcp.Description("valve or sieve (default valve)")),
		mcp.WithString("design", mcp.Description("JSON plate design document; omitted fields keep the worked-example defaults")),
		mcp.WithOutputSchema[HolesResult](),
	)
	s.mcpServer.AddTool(holesTool, mcp.NewStructuredToolHandler(s.handleHoles))

	schematicTool := mcp.NewTool("tower_schematic",
		mcp.WithDescription("Derive the drawing geometry of a plate column: plate stack, downcomers, sump and nozzles."),
		mcp.WithString("params", mcp.Description("JSON tower parameter document; omitted fields keep the worked-example defaults")),
		mcp.WithOutputSchema[tower.Schematic](),
	)
	s.mcpServer.AddTool(schematicTool, mcp.NewStructuredToolHandler(s.handleSchematic))
}

func (s *Server) handleCountStages(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (mccabe.Result, error) {
	var points []domain.Point
	if raw, ok := args["points"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &points); err != nil {
			return mccabe.Result{}, fmt.Errorf("invalid points: %w", err)
		}
	}
	if len(points) == 0 {
		name := cast.ToString(args["system"])
		if name == "" {
			name = "ethanol-water"
		}
		var err error
		points, err = s.catalog.Get(name)
		if err != nil {
			return mccabe.Result{}, err
		}
	}

	curve, err := vle.New(points)
	if err != nil {
		return mccabe.Result{}, err
	}

	input := mccabe.Input{
		Curve: curve,
		Rectifying: domain.OperatingLine{
			Slope:     cast.ToFloat64(args["rect_slope"]),
			Intercept: cast.ToFloat64(args["rect_intercept"]),
		},
		Stripping: domain.OperatingLine{
			Slope:     cast.ToFloat64(args["strip_slope"]),
			Intercept: cast.ToFloat64(args["strip_intercept"]),
		},
		Targets: domain.Targets{
			XD: cast.ToFloat64(args["xd"]),
			XF: cast.ToFloat64(args["xf"]),
			XW: cast.ToFloat64(args["xw"]),
		},
	}

	var opts []mccabe.Option
	if n := cast.ToInt(args["max_stages"]); n > 0 {
		opts = append(opts, mccabe.WithMaxStages(n))
	}

	result, err := mccabe.Count(input, opts...)
	if err != nil {
		return mccabe.Result{}, err
	}
	return *result, nil
}

func (s *Server) handleEnvelope(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (EnvelopeResult, error) {
	cfg := config.DefaultEnvelope()
	if raw, ok := args["config"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
			return EnvelopeResult{}, fmt.Errorf("invalid config: %w", err)
		}
	}
	if trayType := cast.ToString(args["tray_type"]); trayType != "" {
		cfg.TrayType = config.TrayKind(trayType)
	}

	problem := cfg.Problem()
	env, err := problem.Solve()
	if err != nil {
		return EnvelopeResult{}, err
	}

	result := EnvelopeResult{Envelope: env}
	if n := cast.ToInt(args["samples"]); n > 0 {
		profile := problem.Sample(n)
		result.Profile = &profile
	}
	return result, nil
}

func (s *Server) handleHoles(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (HolesResult, error) {
	cfg := config.DefaultHoles()
	if trayType := cast.ToString(args["tray_type"]); trayType != "" {
		cfg.CurrentType = config.TrayKind(trayType)
	}
	design := cfg.Active()
	if raw, ok := args["design"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &design); err != nil {
			return HolesResult{}, fmt.Errorf("invalid design: %w", err)
		}
	}

	result := HolesResult{Type: cfg.CurrentType}
	if cfg.CurrentType == config.TraySieve {
		count, err := design.SieveCount()
		if err != nil {
			return HolesResult{}, err
		}
		inset, err := design.MagnifierInset()
		if err != nil {
			return HolesResult{}, err
		}
		result.Count = count
		result.Inset = inset
		return result, nil
	}

	layout, err := design.ValveLayout()
	if err != nil {
		return HolesResult{}, err
	}
	result.Count = layout.Count()
	result.Layout = layout
	return result, nil
}

func (s *Server) handleSchematic(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (tower.Schematic, error) {
	params := tower.DefaultParams()
	if raw, ok := args["params"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &params); err != nil {
			return tower.Schematic{}, fmt.Errorf("invalid params: %w", err)
		}
	}

	schematic, err := params.Build()
	if err != nil {
		return tower.Schematic{}, err
	}
	return *schematic, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("platekit://systems", "Equilibrium system catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		listing, err := json.Marshal(s.catalog.Names())
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "platekit://systems",
				MIMEType: "application/json",
				Text:     string(listing),
			},
		}, nil
	})
}
