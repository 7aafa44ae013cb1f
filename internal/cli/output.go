package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Runtime failure (scenarios failed, journal unreadable, etc.)
	ExitCommandError = 2 // Command error (bad arguments, invalid config, database not openable, etc.)
)

// Error codes reported in JSON error responses.
const (
	ErrCodeCommand     = "E_COMMAND"      // command error without a more specific code
	ErrCodeFailure     = "E_FAILURE"      // runtime failure without a more specific code
	ErrCodeConfig      = "E_CONFIG"       // config file unreadable or invalid
	ErrCodeDatabase    = "E_DATABASE"     // database could not be opened or written
	ErrCodeInvalidArg  = "E_INVALID_ARG"  // malformed argument or flag value
	ErrCodeUnknownZone = "E_UNKNOWN_ZONE" // zone name outside the enumeration
	ErrCodeJournal     = "E_JOURNAL"      // journal could not be read
	ErrCodeScenarios   = "E_SCENARIOS"    // scenarios directory missing or unreadable
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int         // Exit code (use ExitFailure or ExitCommandError)
	Message string      // Error message
	Err     error       // Underlying error (optional)
	Reason  string      // JSON error code, e.g. ErrCodeUnknownZone (optional)
	Details interface{} // JSON error details (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WithReason sets the JSON error code and details and returns e.
func (e *ExitError) WithReason(reason string, details interface{}) *ExitError {
	e.Reason = reason
	e.Details = details
	return e
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// ErrorCode returns the JSON error code for err.
// ExitErrors without a Reason fall back to a code derived from the exit code.
func ErrorCode(err error) string {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Reason != "" {
			return exitErr.Reason
		}
		if exitErr.Code == ExitCommandError {
			return ErrCodeCommand
		}
	}
	return ErrCodeFailure
}

// reportError writes err as a JSON error response when the output format is
// json, then returns err unchanged so the exit code survives.
func reportError(rootOpts *RootOptions, cmd *cobra.Command, err error) error {
	if err == nil || rootOpts.Format != "json" {
		return err
	}

	var details interface{}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		details = exitErr.Details
	}

	formatter := &OutputFormatter{
		Format:    "json",
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
	}
	_ = formatter.Error(ErrorCode(err), err.Error(), details)
	return err
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
	Session   string // copied into JSON responses when set
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status  string      `json:"status"`            // "ok" or "error"
	Data    interface{} `json:"data,omitempty"`    // success payload
	Error   *CLIError   `json:"error,omitempty"`   // error details
	Session string      `json:"session,omitempty"` // session that produced the data
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E001", "E002", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status:  "ok",
			Data:    data,
			Session: f.Session,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
			Session: f.Session,
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
