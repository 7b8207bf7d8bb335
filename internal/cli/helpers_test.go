package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const specsDir = "testdata/specs"

// runCommand executes the root command with args and returns what it wrote.
func runCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// decodeResponse parses a JSON envelope, decoding its data into data when
// data is non-nil.
func decodeResponse(t *testing.T, stdout string, data any) CLIResponse {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  *CLIError       `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp), "output: %s", stdout)
	if data != nil {
		require.NotEmpty(t, resp.Data, "response has no data: %s", stdout)
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return CLIResponse{Status: resp.Status, Error: resp.Error}
}
