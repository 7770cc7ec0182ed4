package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRootCmd_Subcommands 测试子命令注册
func TestRootCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range GetRootCmd().Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"server", "migrate", "seed", "templates"} {
		assert.True(t, names[want], "missing command %s", want)
	}
	assert.NotNil(t, GetRootCmd().PersistentFlags().Lookup("config"))
}

// TestTemplatesCmd 测试模板列表输出
func TestTemplatesCmd(t *testing.T) {
	var out bytes.Buffer
	root := GetRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"templates"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "basic-info")
	assert.Contains(t, out.String(), "CATEGORY")
}
