// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes note queries and environment statistics to LLM clients over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/notegraph/internal/apperr"
	"github.com/starford/notegraph/internal/filter"
	"github.com/starford/notegraph/internal/noteservice"
	"github.com/starford/notegraph/internal/parser"
)

// QuerySyntaxURI identifies the query language resource.
const QuerySyntaxURI = "notegraph://query-syntax"

// Server wraps the MCP server with notegraph tools.
type Server struct {
	mcp         *server.MCPServer
	svc         *noteservice.Service
	defaultMode filter.Mode
}

// New creates a new MCP server with all tools registered. defaultMode
// applies when a call omits the mode argument.
func New(svc *noteservice.Service, defaultMode filter.Mode) *Server {
	s := &Server{svc: svc, defaultMode: defaultMode}

	s.mcp = server.NewMCPServer(
		"notegraph",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	queryArg := mcp.WithString("query",
		mcp.Description("Query such as `#diffgeo !#draft >Manifold chart`. Empty selects every note. "+
			"See the "+QuerySyntaxURI+" resource."))
	modeArg := mcp.WithString("mode",
		mcp.Description("How tag and link predicates combine: all (default) or any"),
		mcp.Enum("all", "any"))

	s.mcp.AddTool(mcp.NewTool("filter_notes",
		mcp.WithDescription("List the notes matching a query, best title match first."),
		queryArg, modeArg,
	), s.filterNotes)

	s.mcp.AddTool(mcp.NewTool("environment_stats",
		mcp.WithDescription("Word, character, tag and link statistics of the notes matching a query, "+
			"with per-note link counts relative to the whole vault."),
		queryArg, modeArg,
	), s.environmentStats)

	s.mcp.AddTool(mcp.NewTool("list_tags",
		mcp.WithDescription("Distinct tags carried by the notes matching a query."),
		queryArg, modeArg,
	), s.listTags)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a note by id: raw Markdown content, tags, links, backlinks and link statistics."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id, e.g. lie-group. Display names are accepted too.")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("get_query_syntax",
		mcp.WithDescription("Returns the query language reference. Call this before composing queries."),
	), s.getQuerySyntax)

	s.mcp.AddResource(
		mcp.NewResource(QuerySyntaxURI, "Query Syntax",
			mcp.WithResourceDescription("Reference of the note query language."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readQuerySyntaxResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// queryArgs reads the optional query and mode arguments.
func (s *Server) queryArgs(req mcp.CallToolRequest) (string, filter.Mode, error) {
	query, _ := req.RequireString("query")
	raw, err := req.RequireString("mode")
	if err != nil || raw == "" {
		return query, s.defaultMode, nil
	}
	mode, err := filter.ParseMode(raw)
	if err != nil {
		return "", 0, err
	}
	return query, mode, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) filterNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, mode, err := s.queryArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	matches := s.svc.Query(ctx, query, mode)
	if len(matches) == 0 {
		return mcp.NewToolResultText("no notes match"), nil
	}
	return jsonResult(matches)
}

func (s *Server) environmentStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, mode, err := s.queryArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.svc.Statistics(ctx, query, mode))
}

func (s *Server) listTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, mode, err := s.queryArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tags := s.svc.Tags(ctx, query, mode)
	if len(tags) == 0 {
		return mcp.NewToolResultText("no tags found"), nil
	}
	return mcp.NewToolResultText(strings.Join(tags, "\n")), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.GetNote(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		// Models often pass the display name instead of the id.
		note, err = s.svc.GetNote(ctx, parser.NameToID(id))
	}
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(note)
}

func (s *Server) getQuerySyntax(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(QuerySyntax), nil
}

func (s *Server) readQuerySyntaxResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      QuerySyntaxURI,
			MIMEType: "text/markdown",
			Text:     QuerySyntax,
		},
	}, nil
}
