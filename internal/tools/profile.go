package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// UserProfileTool handles the get_user_profile MCP tool.
//
// Unlike the other queries, a non-matching user is not an error: the
// result is the JSON value false.
type UserProfileTool struct {
	source DatasetSource
}

// NewUserProfileTool creates a UserProfileTool.
func NewUserProfileTool(source DatasetSource) *UserProfileTool {
	return &UserProfileTool{source: source}
}

// Definition returns the MCP tool definition for get_user_profile.
func (t *UserProfileTool) Definition() mcp.Tool {
	return mcp.NewTool("get_user_profile",
		mcp.WithTitleAnnotation("Get User Profile"),
		mcp.WithDescription("Get the user profile and goals (targets for steps, sleep and water). "+
			"Returns false when the user ID does not match the loaded profile."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("userId",
			mcp.Required(),
			mcp.Description("User ID"),
		),
	)
}

// Handle processes the get_user_profile tool call.
func (t *UserProfileTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args userProfileArgs
	if err := bindArgs(req, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ds, err := t.source.Dataset(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	profile, ok := ds.UserProfile(args.UserID)
	if !ok {
		return structuredResult(false)
	}
	return structuredResult(profile)
}
