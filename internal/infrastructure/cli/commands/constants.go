package commands

import "github.com/doeshing/wxq/internal/domain"

// CLI-specific constants
const (
	// DefaultEditorCommand is the default editor command
	DefaultEditorCommand = "vi"
	// TimestampFormat is used when printing absolute history timestamps
	TimestampFormat = "2006-01-02 15:04:05"
	// DefaultHistoryLimit mirrors domain.DefaultHistoryLimit for flag defaults
	DefaultHistoryLimit = domain.DefaultHistoryLimit
	// DefaultHistorySearchLimit mirrors domain.DefaultHistorySearchLimit
	DefaultHistorySearchLimit = domain.DefaultHistorySearchLimit
	// DefaultHistoryRetainDays mirrors domain.DefaultHistoryRetainDays
	DefaultHistoryRetainDays = domain.DefaultHistoryRetainDays
	// MaxHistoryAnalysisRecords bounds history stats
	MaxHistoryAnalysisRecords = domain.MaxHistoryAnalysisRecords
)

// Error messages
const (
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrHistoryStoreUnavailable  = "history store unavailable"
	ErrQueryRequired            = "--query required"
	ErrInvalidRetainDays        = "--days must be > 0"
	ErrKeyRequired              = "--key is required"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No history recorded yet."
	MsgHistoryDisabled          = "History is disabled (history.enabled: false)."
	MsgClearCancelled           = "Clear cancelled."
)
