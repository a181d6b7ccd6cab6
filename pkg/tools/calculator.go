// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package tools

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Operation selects the arithmetic performed by the calculate tool.
type Operation string

const (
	OperationAdd      Operation = "add"
	OperationSubtract Operation = "subtract"
	OperationMultiply Operation = "multiply"
	OperationDivide   Operation = "divide"
)

// DivideByZeroMessage is returned as a successful tool result when divide is
// called with a zero divisor.
const DivideByZeroMessage = "Error: Cannot divide by zero"

// Operations lists the closed set of values accepted for Operation.
var Operations = []Operation{
	OperationAdd,
	OperationSubtract,
	OperationMultiply,
	OperationDivide,
}

// Add returns a text result holding a+b.
func Add(a, b float64) *mcp.CallToolResult {
	return textResult(FormatNumber(a + b))
}

// Calculate applies op to a and b. Division by zero is reported in the
// result text, not as a tool error.
func Calculate(op Operation, a, b float64) (*mcp.CallToolResult, error) {
	var result float64
	switch op {
	case OperationAdd:
		result = a + b
	case OperationSubtract:
		result = a - b
	case OperationMultiply:
		result = a * b
	case OperationDivide:
		if b == 0 {
			return textResult(DivideByZeroMessage), nil
		}
		result = a / b
	default:
		// unreachable through the MCP server, the input schema rejects it
		return nil, fmt.Errorf("unsupported operation %q", op)
	}
	return textResult(FormatNumber(result)), nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
