package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// defaultDateRange returns start/end date strings defaulting to the last
// 90 days. Inputs must be YYYY-MM-DD when present.
func defaultDateRange(startStr, endStr string) (string, string, error) {
	end := time.Now()
	if endStr != "" {
		t, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return "", "", err
		}
		end = t
	}

	start := end.AddDate(0, 0, -90)
	if startStr != "" {
		t, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return "", "", err
		}
		start = t
	}

	return start.Format("2006-01-02"), end.Format("2006-01-02"), nil
}

// --- Tool definitions ---

var toolGetPrograms = mcp.NewTool("get_programs",
	mcp.WithDescription("List all training programs with their exercises, target sets/reps, and rest intervals."),
)

var toolGetActiveSession = mcp.NewTool("get_active_session",
	mcp.WithDescription("Get the live training session: per-exercise set progress, current exercise, rest timer state, and pause state. The session field is null when nothing is running."),
)

var toolGetTrainingRecords = mcp.NewTool("get_training_records",
	mcp.WithDescription("Query completed training session records. Each record includes duration, completed/total sets, and a per-exercise breakdown with weights and reps."),
	mcp.WithString("start", mcp.Description("Start date (YYYY-MM-DD). Defaults to 90 days ago.")),
	mcp.WithString("end", mcp.Description("End date (YYYY-MM-DD). Defaults to today.")),
)

var toolGetVolumeStats = mcp.NewTool("get_volume_stats",
	mcp.WithDescription("Weekly training volume: sessions, completed sets, and total minutes per week."),
	mcp.WithString("start", mcp.Description("Start date (YYYY-MM-DD). Defaults to 90 days ago.")),
	mcp.WithString("end", mcp.Description("End date (YYYY-MM-DD). Defaults to today.")),
)

var toolGetBodyWeight = mcp.NewTool("get_body_weight",
	mcp.WithDescription("Query body-weight measurements in kilograms."),
	mcp.WithString("start", mcp.Description("Start date (YYYY-MM-DD). Defaults to 90 days ago.")),
	mcp.WithString("end", mcp.Description("End date (YYYY-MM-DD). Defaults to today.")),
)

// --- Tool handlers ---

func (h *handlers) getPrograms(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	programs, err := h.ds.ListPrograms(ctx)
	if err != nil {
		h.log.Error("mcp get_programs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(programs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getActiveSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.ds.GetActiveSession(ctx)
	if err != nil {
		h.log.Error("mcp get_active_session", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func (h *handlers) getTrainingRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultDateRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	records, err := h.ds.QueryTrainingRecords(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_training_records", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(records)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getVolumeStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultDateRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	periods, err := h.ds.GetWeeklyVolume(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_volume_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(periods)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getBodyWeight(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultDateRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	entries, err := h.ds.QueryWeightEntries(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_body_weight", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(entries)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
