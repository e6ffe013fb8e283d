package commands

// Error messages
const (
	ErrHistoryStoreUnavailable  = "history store unavailable"
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrInvalidLimit             = "--limit must be > 0"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No command history found."
	MsgHistoryCleared           = "History cleared."
)

// Display limits
const (
	ruleWidth       = 50
	topCommandLimit = 5
)
