package tools

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/testudo/pkg/llmutils"
	mcp "github.com/metoro-io/mcp-golang"
)

var (
	// ErrFailedUnmarshalInput is returned when the tool input is not valid JSON for the tool parameters
	ErrFailedUnmarshalInput = errors.New("failed to unmarshal input: check the schema and try again")
	// ErrInvalidInput is returned when the tool input misses required parameters
	ErrInvalidInput = errors.New("invalid input")
	// ErrToolNotFound is returned when a tool is not registered
	ErrToolNotFound = errors.New("tool not found")
	// ErrDuplicateTool is returned when two tools share a name
	ErrDuplicateTool = errors.New("duplicate tool")
)

type McpServerRegistrator interface {
	RegisterTool(name string, description string, handler any) error
}

// ITool is a tool for the host to interact with the course catalog.
type ITool interface {
	// Name returns the name of the Tool.
	Name() string
	// Description returns the description of the tool, used by the host for discovery.
	Description() string
	// Parameters returns the parameters definition of the function, as JSON schema.
	Parameters() any

	// Call executes the tool with the given JSON input and returns the text result.
	// If the tool fails to parse the input, it should return ErrFailedUnmarshalInput error.
	Call(context.Context, string) (string, error)
}

type Callback interface {
	OnToolStart(ctx context.Context, tool ITool, input string)
	OnToolEnd(ctx context.Context, tool ITool, input string, output string)
	OnToolError(ctx context.Context, tool ITool, input string, err error)
	OnToolNotFound(ctx context.Context, name string)
}

type Tool[I any, O any] interface {
	ITool
	Run(context.Context, *I) (*O, error)
}

// IMCPTool is an interface that extends ITool to include functionality for
// registering the tool with an MCP server.
type IMCPTool interface {
	ITool
	// RegisterMCP registers the tool handler, which dispatches every call through call
	RegisterMCP(registrator McpServerRegistrator, call CallFunc) error
}

// CallFunc invokes the named tool with JSON input
type CallFunc func(ctx context.Context, name, input string) (string, error)

type MCPTool[I any] interface {
	IMCPTool
	RunMCP(context.Context, *I) (*mcp.ToolResponse, error)
}

// Exampler is implemented by tools that can produce a sample input
type Exampler interface {
	Example() any
}

// Failer is implemented by tools that answer with a fixed message
// when no data is available
type Failer interface {
	Failure() string
}

// IsFailure returns true if output is the fixed failure message of the tool
func IsFailure(tool ITool, output string) bool {
	f, ok := tool.(Failer)
	return ok && output == f.Failure()
}

// Description describes a tool for listings
type Description struct {
	Name        string `json:"Name" yaml:"Name" toml:"Name"`
	Description string `json:"Description" yaml:"Description" toml:"Description"`
	Parameters  any    `json:"Parameters,omitempty" yaml:"Parameters,omitempty" toml:"-"`
	// Failure is the message returned when no data is available
	Failure string `json:"Failure,omitempty" yaml:"Failure,omitempty" toml:"Failure,omitempty"`
	// Example is a sample input, encoded in the listing format
	Example string `json:"Example,omitempty" yaml:"Example,omitempty" toml:"Example,omitempty"`
}

// Descriptions is a list of tool descriptions
type Descriptions struct {
	Tools []Description `json:"Tools" yaml:"Tools" toml:"Tools"`
}

// Describe returns descriptions of the tools, in the given order
func Describe(list ...ITool) Descriptions {
	var d Descriptions
	for _, tool := range list {
		desc := Description{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		}
		if f, ok := tool.(Failer); ok {
			desc.Failure = f.Failure()
		}
		d.Tools = append(d.Tools, desc)
	}
	return d
}

// Plain returns a copy with Parameters converted to plain JSON values,
// suitable for YAML output
func (d Descriptions) Plain() Descriptions {
	res := Descriptions{Tools: make([]Description, len(d.Tools))}
	for i, t := range d.Tools {
		res.Tools[i] = t
		if t.Parameters == nil {
			continue
		}
		var params map[string]any
		if err := json.Unmarshal([]byte(llmutils.ToJSON(t.Parameters)), &params); err == nil {
			res.Tools[i].Parameters = params
		}
	}
	return res
}
