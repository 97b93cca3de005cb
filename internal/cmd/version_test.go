package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickyball/cli/internal/testutil"
	"github.com/nickyball/cli/internal/tools"
)

func TestVersionCmd(t *testing.T) {
	runner := testutil.NewFakeRunner().
		On("npm --version", testutil.FakeResponse{Result: tools.CmdResult{Stdout: "10.2.4\n"}}).
		On("git --version", testutil.FakeResponse{Result: tools.CmdResult{Stdout: "git version 2.43.0\n"}}).
		On("yarn --version", testutil.FakeResponse{Result: tools.CmdResult{Stdout: "1.10.0\n"}})
	runner.Missing["pnpm"] = true

	c := newVersionCmd(runner)
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetArgs([]string{})

	require.NoError(t, c.Execute())

	got := out.String()
	assert.Contains(t, got, "nicky-ball v0.0.0-dev")
	assert.Contains(t, got, "CUE SDK")
	assert.Contains(t, got, "10.2.4")
	assert.Contains(t, got, "2.43.0")
	assert.Contains(t, got, "pnpm   not found")
	assert.Contains(t, got, "1.10.0 (")

	assert.Equal(t, []string{"npm --version", "yarn --version", "git --version"}, runner.Commands())
}
