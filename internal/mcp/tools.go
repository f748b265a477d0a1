package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listEndpointsTool defines the list_endpoints MCP tool.
var listEndpointsTool = mcp.NewTool("list_endpoints",
	mcp.WithDescription("List the endpoints declared in an OpenAPI specification, with methods, expected status codes, and summaries."),
	mcp.WithString("spec_path",
		mcp.Required(),
		mcp.Description("Path to the OpenAPI spec file (YAML or JSON)"),
	),
)

// validateAPITool defines the validate_api MCP tool.
var validateAPITool = mcp.NewTool("validate_api",
	mcp.WithDescription("Run API response validation: call every endpoint of a live API and check status codes, response schemas, and headers against the OpenAPI spec."),
	mcp.WithString("spec_path",
		mcp.Required(),
		mcp.Description("Path to the OpenAPI spec file (YAML or JSON)"),
	),
	mcp.WithString("base_url",
		mcp.Description("Base URL of the live API (defaults to the configured base URL or the spec's servers entry)"),
	),
	mcp.WithString("include",
		mcp.Description("Comma-separated glob patterns of endpoints to include, e.g. 'GET /users/**'"),
	),
	mcp.WithNumber("concurrency",
		mcp.Description("Number of endpoints validated in parallel (default from config)"),
	),
)

// getLatestRunTool defines the get_latest_run MCP tool.
var getLatestRunTool = mcp.NewTool("get_latest_run",
	mcp.WithDescription("Get the most recent validation run: summary plus per-endpoint verdicts and failure details."),
)

// listRunsTool defines the list_runs MCP tool.
var listRunsTool = mcp.NewTool("list_runs",
	mcp.WithDescription("List past validation runs, newest first."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of runs to return (default 10)"),
	),
)
