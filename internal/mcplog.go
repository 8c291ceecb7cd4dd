package internal

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
)

// The MCP server owns stdout/stderr for its protocol, so diagnostics go to
// a log file under the cache directory instead.
var (
	mcpLog     *log.Logger
	mcpLogInit sync.Once
)

// InitMCPLogging opens the MCP log file once per process. When logging is
// disabled or the file cannot be opened, MCP log calls become no-ops.
func InitMCPLogging(config *Config) {
	mcpLogInit.Do(func() {
		if !config.MCPLogEnabled {
			return
		}
		mcpLog = openMCPLog()
	})
}

func openMCPLog() *log.Logger {
	logDir := filepath.Join(xdg.CacheHome, "vidtrace")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil
	}

	logFile, err := os.OpenFile(filepath.Join(logDir, "mcp.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil
	}

	return log.New(logFile, "", log.LstdFlags|log.Lmicroseconds)
}

func mcpLogf(level, format string, args ...any) {
	if mcpLog == nil {
		return
	}
	mcpLog.Printf("[MCP] [%s] "+format, append([]any{level}, args...)...)
}

// MCPLogInfo logs an informational message to the MCP log file
func MCPLogInfo(format string, args ...any) {
	mcpLogf("INFO", format, args...)
}

// MCPLogError logs an error to the MCP log file
func MCPLogError(format string, args ...any) {
	mcpLogf("ERROR", format, args...)
}
