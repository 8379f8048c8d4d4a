package config

import "time"

// Application constants
const (
	// Application Info
	AppName    = "Lease Revenue Analyzer"
	AppVersion = "0.1.0"

	// Export file names. The exported statement keeps its Chinese name so it
	// matches what the finance team expects to receive.
	ResultsCSVName  = "租赁收入统计.csv"
	ResultsXLSXName = "租赁收入统计.xlsx"
	ExportSheetName = "租赁收入统计"

	// Upload constraints
	DefaultMaxUploadBytes = 100 * 1024 * 1024 // 100MB
	UploadFieldName       = "file"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per minute
	DefaultBurstSize = 50

	// Network Timeouts
	DefaultHTTPTimeout  = 30 * time.Second
	WebSocketPingPeriod = 30 * time.Second
	WebSocketPongWait   = 60 * time.Second

	// File Paths (relative to executable)
	DefaultDataDir    = "data"
	DefaultLogsDir    = "logs"
	DefaultWebDir     = "web"
	DefaultUploadsDir = "data/uploads"
	DefaultReportsDir = "data/reports"

	// Processing
	DefaultProgressEvery = 50
	DefaultBatchTimeout  = 10 * time.Minute

	// WebSocket Buffer Sizes
	WebSocketReadBufferSize  = 1024
	WebSocketWriteBufferSize = 1024

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)
