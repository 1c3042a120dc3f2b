package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/resumed/internal/profile"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Profile   profile.Store
	Assistant Assistant
	Version   string
}

// NewMCPServer creates an MCP server with the resume tools and the profile
// resource registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	version := deps.Version
	if version == "" {
		version = "dev"
	}

	s := server.NewMCPServer(
		"resumed",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("resumed: improve resume bullet points and tailor a resume to a job description using a local model."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("suggest_improvement",
			mcp.WithDescription("Rewrite a single resume bullet point so it reads stronger."),
			mcp.WithString("text", mcp.Description("The bullet point to improve"), mcp.Required()),
		),
		mcpSuggestImprovement(deps),
	)

	s.AddTool(
		mcp.NewTool("generate_tailored_resume",
			mcp.WithDescription("Tailor a resume to a job description."),
			mcp.WithString("job_description", mcp.Description("Full text of the job posting"), mcp.Required()),
			mcp.WithString("base_resume", mcp.Description("Resume text to tailor"), mcp.Required()),
		),
		mcpGenerateTailoredResume(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"user://profile",
			"User Profile",
			mcp.WithResourceDescription("Stored resume profile as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceProfile(deps),
	)

	return s
}

func mcpSuggestImprovement(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text := req.GetString("text", "")

		res := deps.Assistant.Suggest(ctx, text)
		if !res.OK() {
			return mcpError(res.Detail), nil
		}
		return mcpText(res.Text), nil
	}
}

func mcpGenerateTailoredResume(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		job := req.GetString("job_description", "")
		resume := req.GetString("base_resume", "")

		res := deps.Assistant.Tailor(ctx, job, resume)
		if !res.OK() {
			return mcpError(res.Detail), nil
		}
		return mcpText(res.Text), nil
	}
}

func mcpResourceProfile(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		doc, err := deps.Profile.Get()
		if err != nil {
			return nil, fmt.Errorf("failed to get profile: %w", err)
		}

		b, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal profile: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
