package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/auditlog/internal/audit"
	"github.com/roach88/auditlog/internal/export"
	"github.com/roach88/auditlog/internal/store"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Success("ignored in json", map[string]int{"count": 2})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.NotContains(t, buf.String(), "ignored in json")
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Error(ErrCodeStorage, "disk full", nil))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeStorage, resp.Error.Code)
	assert.Equal(t, "disk full", resp.Error.Message)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success("Saved 1 entry.", nil))
	assert.Equal(t, "Saved 1 entry.\n", buf.String())
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	require.NoError(t, formatter.Error(ErrCodeGeneric, "boom", map[string]string{"key": "audit_entries"}))
	assert.Contains(t, buf.String(), "Error [E001]: boom")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLogUsesErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: true}

	formatter.VerboseLog("saved %s", "1")
	assert.Empty(t, out.String())
	assert.Equal(t, "saved 1\n", errOut.String())
}

func TestOutputFormatter_FailValidation(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := formatter.Fail("entry 1 not saved", &audit.ValidationError{
		Fields:  []audit.Field{audit.FieldSerialNumber},
		Message: "required fields missing",
	})
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "serialNumber")
	assert.NotNil(t, resp.Error.Details)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
		exit int
	}{
		{"validation", &audit.ValidationError{Message: "x"}, ErrCodeValidation, ExitFailure},
		{"nothing to export", export.ErrNothingToExport, ErrCodeNothing, ExitFailure},
		{"corrupt", &store.Error{Kind: store.ErrStorageCorrupt, Key: "k"}, ErrCodeCorrupt, ExitCommandError},
		{"write", fmt.Errorf("save entry: %w", &store.Error{Kind: store.ErrStorageWrite, Key: "k"}), ErrCodeStorage, ExitCommandError},
		{"export", &export.Error{Stage: export.StageShare, Err: errors.New("x")}, ErrCodeExport, ExitCommandError},
		{"other", errors.New("x"), ErrCodeGeneric, ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, exit := classify(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.exit, exit)
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "x", errors.New("y"))))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, "x: y", WrapExitError(ExitFailure, "x", errors.New("y")).Error())
	assert.Equal(t, "x", NewExitError(ExitFailure, "x").Error())
}
