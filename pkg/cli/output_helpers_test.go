package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viewgen/internal/domain"
)

// newOutputCmd returns a command under a root carrying the --output flag.
func newOutputCmd(t *testing.T, output string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	root := &cobra.Command{Use: "viewgen"}
	root.PersistentFlags().StringP("output", "o", "table", "")
	require.NoError(t, root.PersistentFlags().Set("output", output))
	cmd := &cobra.Command{Use: "child"}
	root.AddCommand(cmd)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	return cmd, &buf
}

func TestPrintResultSet(t *testing.T) {
	rs := &domain.ResultSet{
		Columns: []string{"day", "temp"},
		Rows:    [][]interface{}{{int64(1), 10.5}, {int64(2), nil}},
	}

	tests := []struct {
		name   string
		output string
		want   string
	}{
		{
			name:   "table off a terminal is tab separated",
			output: "table",
			want:   "day\ttemp\n1\t10.5\n2\tNULL\n",
		},
		{
			name:   "json",
			output: "json",
			want:   "{\n  \"columns\": [\n    \"day\",\n    \"temp\"\n  ],\n  \"rows\": [\n    [\n      1,\n      10.5\n    ],\n    [\n      2,\n      null\n    ]\n  ]\n}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, buf := newOutputCmd(t, tt.output)
			require.NoError(t, printResultSet(cmd, rs))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrintResultSet_EmptyJSON(t *testing.T) {
	cmd, buf := newOutputCmd(t, "json")
	require.NoError(t, printResultSet(cmd, &domain.ResultSet{Columns: []string{"x"}}))
	assert.Contains(t, buf.String(), `"rows": []`)
}

func TestPrintStatement(t *testing.T) {
	cmd, buf := newOutputCmd(t, "table")
	require.NoError(t, printStatement(cmd, "v", "SELECT 1"))
	assert.Equal(t, "SELECT 1;\n", buf.String())
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))
}
