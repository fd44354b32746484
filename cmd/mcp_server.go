package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/webtrail/webtrail-cli/internal/browser"
	"github.com/webtrail/webtrail-cli/internal/capture"
	"github.com/webtrail/webtrail-cli/internal/store"
	"github.com/webtrail/webtrail-cli/internal/version"
)

// mcpServer wraps the MCP server with the store and the (at most one)
// live capture session.
type mcpServer struct {
	st  *store.Store
	mcp *mcpserver.MCPServer

	// sessionMu guards the live recording session started by record_start.
	sessionMu sync.Mutex
	session   *browser.Session
	agent     *capture.Agent
	cancelRun context.CancelFunc
}

// MCPConfig holds MCP server configuration.
type MCPConfig struct {
	Transport string
	Port      int
}

// newMCPServer creates and configures an MCP server with all webtrail tools.
func newMCPServer() (*mcpServer, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}

	s := &mcpServer{st: st}
	s.mcp = mcpserver.NewMCPServer(
		"webtrail",
		version.Version,
	)

	s.registerTools()
	return s, nil
}

// serve starts the MCP server with the configured transport.
func (s *mcpServer) serve(cfg MCPConfig) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

// shutdown stops any live recording session.
func (s *mcpServer) shutdown() {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	s.stopSessionLocked()
}

func (s *mcpServer) registerTools() {
	// record_start
	s.mcp.AddTool(
		mcp.NewTool("record_start",
			mcp.WithDescription("Open a page in a browser and start recording interactions into the step log"),
			mcp.WithString("url", mcp.Description("Page URL to open"), mcp.Required()),
			mcp.WithBoolean("headless", mcp.Description("Run the browser headless (default: true)")),
		),
		s.handleRecordStart,
	)

	// record_pause
	s.mcp.AddTool(
		mcp.NewTool("record_pause",
			mcp.WithDescription("Pause the active recording. An interim report snapshot is stored; the step log is kept."),
		),
		s.handleRecordPause,
	)

	// record_resume
	s.mcp.AddTool(
		mcp.NewTool("record_resume",
			mcp.WithDescription("Resume a paused recording with the same session id"),
		),
		s.handleRecordResume,
	)

	// record_stop
	s.mcp.AddTool(
		mcp.NewTool("record_stop",
			mcp.WithDescription("Stop recording and close the browser. The step log is kept until cleared or both report types are generated."),
		),
		s.handleRecordStop,
	)

	// append_step
	s.mcp.AddTool(
		mcp.NewTool("append_step",
			mcp.WithDescription("Append one step to the log manually. The dedup policy applies."),
			mcp.WithString("kind", mcp.Description("Step kind: click, input, select, submit, toggle, keypress, navigation, custom")),
			mcp.WithString("target", mcp.Description("Target descriptor (CSS-style path)")),
			mcp.WithString("text", mcp.Description("Display text")),
			mcp.WithString("field", mcp.Description("Field identifier; sensitive names redact the text")),
		),
		s.handleAppendStep,
	)

	// list_steps
	s.mcp.AddTool(
		mcp.NewTool("list_steps",
			mcp.WithDescription("List recorded steps in chronological order"),
			mcp.WithBoolean("diagnostics", mcp.Description("Include console and performance steps")),
		),
		s.handleListSteps,
	)

	// clear_steps
	s.mcp.AddTool(
		mcp.NewTool("clear_steps",
			mcp.WithDescription("Clear the step log"),
		),
		s.handleClearSteps,
	)

	// get_recording_state
	s.mcp.AddTool(
		mcp.NewTool("get_recording_state",
			mcp.WithDescription("Get the persisted recording state (is_recording, session id, start time)"),
		),
		s.handleGetRecordingState,
	)

	// set_recording_state
	s.mcp.AddTool(
		mcp.NewTool("set_recording_state",
			mcp.WithDescription("Overwrite the persisted recording state. Prefer the record_* tools; this exists for state repair."),
			mcp.WithBoolean("is_recording", mcp.Description("Whether a recording is active"), mcp.Required()),
			mcp.WithString("session_id", mcp.Description("Session id to persist")),
		),
		s.handleSetRecordingState,
	)

	// capture_screenshot
	s.mcp.AddTool(
		mcp.NewTool("capture_screenshot",
			mcp.WithDescription("Capture the live session's viewport (optionally cropped) into the gallery"),
			mcp.WithString("area", mcp.Description("Crop area as x,y,w,h in page pixels")),
			mcp.WithString("description", mcp.Description("Stored description; \"step N\" associates it with that step")),
		),
		s.handleCaptureScreenshot,
	)

	// list_screenshots
	s.mcp.AddTool(
		mcp.NewTool("list_screenshots",
			mcp.WithDescription("List gallery screenshots (metadata only)"),
		),
		s.handleListScreenshots,
	)

	// render_report
	s.mcp.AddTool(
		mcp.NewTool("render_report",
			mcp.WithDescription("Render the step log into a bug report artifact. Generating both the full and the screenshot-only document clears the log."),
			mcp.WithString("report_format", mcp.Description("Format: text, markdown, rtf, html (default: text)")),
			mcp.WithString("title", mcp.Description("Report title")),
			mcp.WithBoolean("shots_only", mcp.Description("Screenshot-only document")),
		),
		s.handleRenderReport,
	)
}
