package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"github.com/webtrail/webtrail-cli/internal/browser"
	"github.com/webtrail/webtrail-cli/internal/capture"
	"github.com/webtrail/webtrail-cli/internal/imaging"
	"github.com/webtrail/webtrail-cli/internal/model"
	"github.com/webtrail/webtrail-cli/internal/output"
	"github.com/webtrail/webtrail-cli/internal/redact"
	"github.com/webtrail/webtrail-cli/internal/report"
	"github.com/webtrail/webtrail-cli/internal/store"
)

// resultToText serializes a result to YAML for MCP response.
func resultToText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("marshal error: %v", err)
	}
	return string(b)
}

// errorResult wraps an error as a failed ActionResult.
func errorResult(action string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(resultToText(output.ActionResult{
		OK:     false,
		Action: action,
		Error:  err.Error(),
	}))
}

func okResult(action, detail string) *mcp.CallToolResult {
	return mcp.NewToolResultText(resultToText(output.ActionResult{
		OK:     true,
		Action: action,
		Detail: detail,
	}))
}

func (s *mcpServer) handleRecordStart(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	url := stringParam(params, "url", "")
	headless := boolParam(params, "headless", true)
	if url == "" {
		return errorResult("record_start", fmt.Errorf("url is required")), nil
	}

	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	if s.session != nil {
		return errorResult("record_start", fmt.Errorf("a recording session is already active")), nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	session, err := browser.NewSession(runCtx, browser.SessionOptions{StartURL: url, Headless: headless})
	if err != nil {
		cancel()
		return errorResult("record_start", err), nil
	}

	agent := capture.NewAgent(s.st, limits, redact.New(nil, 0), session, snapshotFunc(s.st))
	if err := agent.Activate(); err != nil {
		session.Close()
		cancel()
		return errorResult("record_start", err), nil
	}

	s.session = session
	s.agent = agent
	s.cancelRun = cancel

	go func() {
		for {
			select {
			case ev := <-session.Events():
				agent.Handle(runCtx, ev)
			case <-session.Done():
				return
			case <-runCtx.Done():
				return
			}
		}
	}()

	return okResult("record_start", fmt.Sprintf("session %s recording %s", agent.Session().SessionID, url)), nil
}

func (s *mcpServer) handleRecordPause(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	if s.agent == nil {
		return errorResult("record_pause", capture.ErrNotRecording), nil
	}
	if err := s.agent.Pause(); err != nil {
		return errorResult("record_pause", err), nil
	}
	return okResult("record_pause", "recording paused; interim snapshot stored"), nil
}

func (s *mcpServer) handleRecordResume(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	if s.agent == nil {
		return errorResult("record_resume", capture.ErrNotRecording), nil
	}
	if err := s.agent.Resume(); err != nil {
		return errorResult("record_resume", err), nil
	}
	return okResult("record_resume", "recording resumed"), nil
}

func (s *mcpServer) handleRecordStop(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	if s.agent == nil {
		return errorResult("record_stop", capture.ErrNotRecording), nil
	}
	err := s.agent.Stop()
	s.stopSessionLocked()
	if err != nil {
		return errorResult("record_stop", err), nil
	}
	return okResult("record_stop", "recording stopped"), nil
}

// stopSessionLocked tears down the live session. Caller holds sessionMu.
func (s *mcpServer) stopSessionLocked() {
	if s.session != nil {
		s.session.Close()
		s.session = nil
	}
	if s.cancelRun != nil {
		s.cancelRun()
		s.cancelRun = nil
	}
	s.agent = nil
}

func (s *mcpServer) handleAppendStep(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	kind := stringParam(params, "kind", "custom")
	target := stringParam(params, "target", "")
	text := stringParam(params, "text", "")
	field := stringParam(params, "field", "")

	redactor := redact.New(nil, 0)
	step := model.Step{
		Kind:        model.StepKind(kind),
		OccurredAt:  time.Now(),
		Target:      target,
		DisplayText: redactor.Redact(field, text),
	}
	stored, err := s.st.Append(step)
	if err != nil {
		return errorResult("append_step", err), nil
	}
	if !stored {
		return okResult("append_step", "suppressed as near-duplicate"), nil
	}
	return okResult("append_step", fmt.Sprintf("appended %s step", kind)), nil
}

func (s *mcpServer) handleListSteps(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	diagnostics := boolParam(params, "diagnostics", false)

	steps, err := s.st.Steps()
	if err != nil {
		return errorResult("list_steps", err), nil
	}
	if !diagnostics {
		filtered := steps[:0]
		for _, st := range steps {
			if st.Kind == model.KindConsole || st.Kind == model.KindPerformance {
				continue
			}
			filtered = append(filtered, st)
		}
		steps = filtered
	}
	return mcp.NewToolResultText(resultToText(output.StepsResult{
		TS:    time.Now().Unix(),
		Count: len(steps),
		Steps: steps,
	})), nil
}

func (s *mcpServer) handleClearSteps(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.st.Clear(); err != nil {
		return errorResult("clear_steps", err), nil
	}
	return okResult("clear_steps", "step log cleared"), nil
}

func (s *mcpServer) handleGetRecordingState(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.st.RecordingState()
	if err != nil {
		return errorResult("get_recording_state", err), nil
	}
	return mcp.NewToolResultText(resultToText(state)), nil
}

func (s *mcpServer) handleSetRecordingState(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	isRecording := boolParam(params, "is_recording", false)
	sessionID := stringParam(params, "session_id", "")

	state := model.RecordingState{IsRecording: isRecording, SessionID: sessionID}
	if isRecording {
		if state.SessionID == "" {
			state.SessionID = uuid.NewString()
		}
		state.StartTime = time.Now()
	}
	if err := s.st.SetRecordingState(state); err != nil {
		return errorResult("set_recording_state", err), nil
	}
	return okResult("set_recording_state", fmt.Sprintf("is_recording=%t", isRecording)), nil
}

func (s *mcpServer) handleCaptureScreenshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	areaStr := stringParam(params, "area", "")
	description := stringParam(params, "description", "")

	s.sessionMu.Lock()
	session := s.session
	s.sessionMu.Unlock()
	if session == nil {
		return errorResult("capture_screenshot", fmt.Errorf("no live session; use record_start first")), nil
	}

	data, viewport, err := session.CaptureViewport(ctx)
	if err != nil {
		return errorResult("capture_screenshot", err), nil
	}

	shot := model.Screenshot{
		ID:          uuid.NewString(),
		CapturedAt:  time.Now(),
		Kind:        model.ShotFullPage,
		Format:      "png",
		Viewport:    viewport,
		Description: description,
	}
	if areaStr != "" {
		area, err := parseArea(areaStr)
		if err != nil {
			return errorResult("capture_screenshot", err), nil
		}
		if data, err = imaging.Crop(data, area); err != nil {
			return errorResult("capture_screenshot", err), nil
		}
		shot.Kind = model.ShotCustomArea
		shot.Crop = &area
	}

	compressed, reencoded := imaging.NewCodec(limits).Compress(data)
	shot.Data = compressed
	if reencoded {
		shot.Format = "jpeg"
	}

	if err := s.st.AddScreenshot(shot); err != nil {
		return errorResult("capture_screenshot", err), nil
	}
	return okResult("capture_screenshot", fmt.Sprintf("stored %s (%d bytes)", shot.ID, len(shot.Data))), nil
}

func (s *mcpServer) handleListScreenshots(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	shots, err := s.st.Screenshots()
	if err != nil {
		return errorResult("list_screenshots", err), nil
	}
	infos := make([]output.ShotInfo, len(shots))
	for i, shot := range shots {
		infos[i] = output.NewShotInfo(shot)
	}
	return mcp.NewToolResultText(resultToText(output.ShotsResult{
		TS:    time.Now().Unix(),
		Count: len(infos),
		Shots: infos,
	})), nil
}

func (s *mcpServer) handleRenderReport(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	formatStr := stringParam(params, "report_format", "text")
	title := stringParam(params, "title", "")
	shotsOnly := boolParam(params, "shots_only", false)

	steps, err := s.st.Steps()
	if err != nil {
		return errorResult("render_report", err), nil
	}
	shots, err := s.st.Screenshots()
	if err != nil {
		return errorResult("render_report", err), nil
	}

	artifact, err := report.Render(steps, shots, report.Format(formatStr), report.Options{
		Title:     title,
		ShotsOnly: shotsOnly,
	})
	if err != nil {
		return errorResult("render_report", err), nil
	}

	if err := s.st.SaveReportSnapshot(model.ReportSnapshot{
		Format:      string(artifact.Format),
		GeneratedAt: time.Now(),
		Data:        artifact.Data,
	}); err != nil {
		return errorResult("render_report", err), nil
	}

	kind := store.ReportFull
	if shotsOnly {
		kind = store.ReportShots
	}
	if _, err := s.st.MarkReportGenerated(kind); err != nil {
		return errorResult("render_report", err), nil
	}

	return mcp.NewToolResultText(string(artifact.Data)), nil
}
