package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rpncalc/internal/engine"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"result": "success"}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("NOT_FOUND", "stack not found", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "stack not found", resp.Error.Message)
}

func TestOutputFormatter_JSONErrorWithDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	details := map[string]string{"need": "2", "have": "1"}
	err := formatter.Error("INSUFFICIENT_STACK_DEPTH", "2 numbers are required for '+'", details)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	assert.NotNil(t, resp.Error)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success("Deleted stack scratch")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Deleted stack scratch")
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	err := formatter.Error("NOT_FOUND", "stack not found", nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [NOT_FOUND]")
	assert.Contains(t, buf.String(), "stack not found")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	details := map[string]string{"slot": "3"}
	err := formatter.Error("EMPTY_MEMORY_SLOT", "memory slot #3 is empty", details)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [EMPTY_MEMORY_SLOT]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:  "text",
				Writer:  buf,
				Verbose: tt.verbose,
			}

			formatter.VerboseLog("database: %s", "stacks.db")

			if tt.wantLog {
				assert.Contains(t, buf.String(), "database: stacks.db")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestCLIResponse_JSON(t *testing.T) {
	resp := CLIResponse{
		Status:    "ok",
		Data:      map[string]int{"count": 42},
		SessionID: "0190a2c4-0000-7000-8000-000000000000",
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded CLIResponse
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, "ok", decoded.Status)
	assert.Equal(t, resp.SessionID, decoded.SessionID)
}

func TestCLIError_JSON(t *testing.T) {
	cliErr := CLIError{
		Code:    "INDEX_OUT_OF_RANGE",
		Message: "invalid line number 4: must be between 1 and 3",
		Details: map[string]string{"index": "4"},
	}

	data, err := json.Marshal(cliErr)
	require.NoError(t, err)

	var decoded CLIError
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, "INDEX_OUT_OF_RANGE", decoded.Code)
	assert.Equal(t, "invalid line number 4: must be between 1 and 3", decoded.Message)
}

func TestOutputFormatter_Lines(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Lines(nil, []string{"a", "b"}, "none"))
	assert.Equal(t, "a\nb\n", buf.String())

	buf.Reset()
	require.NoError(t, formatter.Lines(nil, nil, "none"))
	assert.Equal(t, "none\n", buf.String())

	buf.Reset()
	formatter.Format = "json"
	require.NoError(t, formatter.Lines([]string{"a"}, []string{"ignored"}, "none"))
	assert.JSONEq(t, `{"status":"ok","data":["a"]}`, buf.String())
}

func TestOutputFormatter_VerboseLogUsesErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: true}

	formatter.VerboseLog("opened %d stacks", 2)
	assert.Empty(t, out.String())
	assert.Equal(t, "opened 2 stacks\n", errOut.String())
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "UNDO_HISTORY_EXHAUSTED", ErrorCode(&engine.CalcError{Code: engine.ErrCodeUndoExhausted}))
	assert.Equal(t, CodeCommandError, ErrorCode(errors.New("disk full")))
}
