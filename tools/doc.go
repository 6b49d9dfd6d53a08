// Package tools defines the Tool interface for tool-calling hosts, and the Registry that binds tools by name,
// with their descriptions and parameter schemas, for discovery and invocation, including MCP registration.
package tools
