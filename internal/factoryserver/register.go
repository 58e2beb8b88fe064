// Package factoryserver exposes the content studio operations as MCP tools.
// Each tool is a thin boundary: validate the input, call the studio
// operation, return its typed result.
package factoryserver

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterTools registers all content studio tools on the given MCP server:
// channel profiles, script generation and lifecycle, analytics, trend
// research, hooks, title scoring, thumbnails, repurposing, SRT captions,
// settings, and backup.
func RegisterTools(server *mcp.Server) {
	registerChannelSave(server)
	registerChannelList(server)
	registerChannelDelete(server)

	registerScriptGenerate(server)
	registerScriptList(server)
	registerScriptUpdate(server)
	registerScriptSetStatus(server)
	registerScriptDelete(server)

	registerAnalyticsAdd(server)
	registerAnalyticsOverview(server)
	registerAnalyticsRecalibrate(server)

	registerTrendResearch(server)
	registerTrendHistory(server)

	registerHookGenerate(server)
	registerHookAnalyze(server)
	registerHookLibrary(server)

	registerTitleCTRScore(server)
	registerThumbnailGuide(server)
	registerRepurpose(server)
	registerSRTGenerate(server)

	registerSettingsSaveKey(server)
	registerSettingsClearKey(server)
	registerSettingsSaveModel(server)
	registerSettingsTest(server)

	registerBackupExport(server)
	registerBackupImport(server)
	registerBackupClearAll(server)
}
