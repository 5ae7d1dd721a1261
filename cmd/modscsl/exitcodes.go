package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (unreadable config, invalid settings, bad code tables)
	ExitDataError   = 3 // Data error (unreadable input, fetch failure)
)
