package factoryserver

import (
	"context"
	"errors"

	"github.com/anatolykoptev/go_factory/internal/engine/studio"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerBackupExport(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "backup_export",
		Description: "Export every content collection (channels, scripts, analytics, trends, hooks) as one JSON snapshot with version and export date. Settings and the API key are never exported.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, *studio.BackupExportResult, error) {
		result, err := studio.ExportBackup(ctx)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

func registerBackupImport(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "backup_import",
		Description: "Restore from a backup_export snapshot. Each collection present in the backup replaces the local one and records get fresh ids; collections absent from the backup are left untouched.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input studio.BackupImportInput) (*mcp.CallToolResult, *studio.BackupImportResult, error) {
		if len(input.Backup) == 0 {
			return nil, nil, errors.New("backup is required")
		}
		result, err := studio.ImportBackup(ctx, input.Backup)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}

func registerBackupClearAll(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "backup_clear_all",
		Description: "Delete all local data: every content collection and all settings, including the stored API key. Irreversible; export a backup first.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, *studio.ClearAllResult, error) {
		result, err := studio.ClearAllData(ctx)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	})
}
