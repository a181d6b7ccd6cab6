// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package tools

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// ServerName is advertised to MCP clients during initialization.
const ServerName = "Authless Calculator"

// AddInput is the argument shape of the add tool.
type AddInput struct {
	A float64 `json:"a" jsonschema:"the first operand"`
	B float64 `json:"b" jsonschema:"the second operand"`
}

// CalculateInput is the argument shape of the calculate tool.
type CalculateInput struct {
	Operation Operation `json:"operation" jsonschema:"the operation to perform"`
	A         float64   `json:"a" jsonschema:"the first operand"`
	B         float64   `json:"b" jsonschema:"the second operand"`
}

// NewServer builds an MCP server with the calculator tools registered.
func NewServer(version string) (*mcp.Server, error) {
	server := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil)
	if err := Register(server); err != nil {
		return nil, err
	}
	return server, nil
}

// NewHTTPHandler serves server over the MCP streamable HTTP transport.
func NewHTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}

// Register adds the add and calculate tools to server.
func Register(server *mcp.Server) error {
	calculateSchema, err := calculateInputSchema()
	if err != nil {
		return fmt.Errorf("build calculate schema: %w", err)
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add",
		Description: "Adds two numbers",
	}, handleAdd)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "calculate",
		Description: "Adds, subtracts, multiplies or divides two numbers",
		InputSchema: calculateSchema,
	}, handleCalculate)

	return nil
}

func handleAdd(_ context.Context, _ *mcp.CallToolRequest, in AddInput) (*mcp.CallToolResult, any, error) {
	log.Debug().
		Str("component", "tools").
		Str("tool", "add").
		Float64("a", in.A).
		Float64("b", in.B).
		Msg("tool called")
	return Add(in.A, in.B), nil, nil
}

func handleCalculate(_ context.Context, _ *mcp.CallToolRequest, in CalculateInput) (*mcp.CallToolResult, any, error) {
	log.Debug().
		Str("component", "tools").
		Str("tool", "calculate").
		Str("operation", string(in.Operation)).
		Float64("a", in.A).
		Float64("b", in.B).
		Msg("tool called")
	result, err := Calculate(in.Operation, in.A, in.B)
	if err != nil {
		return nil, nil, err
	}
	return result, nil, nil
}

// calculateInputSchema infers the schema from CalculateInput and narrows
// operation to the supported values.
func calculateInputSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[CalculateInput](nil)
	if err != nil {
		return nil, err
	}

	prop, ok := schema.Properties["operation"]
	if !ok || prop == nil {
		return nil, fmt.Errorf("operation property missing from inferred schema")
	}
	enum := make([]any, 0, len(Operations))
	for _, op := range Operations {
		enum = append(enum, string(op))
	}
	prop.Enum = enum

	return schema, nil
}
