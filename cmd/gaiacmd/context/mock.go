package context

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/agentstation/gaiacmd"
)

// MockContext provides a mock implementation of Context for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type MockContext struct {
	ClientFunc       func() (gaiacmd.Client, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	StdoutFunc       func() io.Writer
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Client returns a client using the mock function or nil.
func (m *MockContext) Client() (gaiacmd.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc()
	}
	return nil, nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *MockContext) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *MockContext) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Stdout returns the writer from the mock function or io.Discard.
func (m *MockContext) Stdout() io.Writer {
	if m.StdoutFunc != nil {
		return m.StdoutFunc()
	}
	return io.Discard
}

// Version returns version using the mock function or "dev".
func (m *MockContext) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *MockContext) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *MockContext) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *MockContext) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure MockContext implements Context at compile time.
var _ Context = (*MockContext)(nil)
