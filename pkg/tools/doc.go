// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package tools provides the calculator tools served over the Model Context
// Protocol. The arithmetic is exposed as plain functions so it can be called
// in-process, and Register binds it to an mcp.Server together with input
// schemas that the MCP runtime validates before any handler runs.
package tools
