package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangzhangming/typeinfer/internal/ast"
	"github.com/tangzhangming/typeinfer/internal/diag"
	"github.com/tangzhangming/typeinfer/internal/i18n"
	"github.com/tangzhangming/typeinfer/internal/infer"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, "en", c.Diagnostics.Language)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, infer.DefaultOptions(), c.EngineOptions())
	assert.NoError(t, c.Validate())
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`
[diagnostics]
language = "zh"
warnings_as_errors = true

[inference]
warn_useless_elvis = false

[log]
level = "debug"
file = "infer.log"
`))
	require.NoError(t, err)

	assert.Equal(t, "zh", c.Diagnostics.Language)
	assert.True(t, c.Diagnostics.WarningsAsErrors)
	assert.False(t, c.Inference.WarnUselessElvis)
	// 未出现的键保持默认值
	assert.True(t, c.Inference.WarnUnnecessarySafeCall)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "infer.log", c.Log.File)

	opts := c.EngineOptions()
	assert.True(t, opts.WarnUnnecessarySafeCall)
	assert.False(t, opts.WarnUselessElvis)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", "[diagnostics\nlanguage = "},
		{"bad level", "[log]\nlevel = \"verbose\""},
		{"bad language", "[diagnostics]\nlanguage = \"fr\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	c := Default()
	c.Diagnostics.Language = "zh"
	c.Inference.WarnUnnecessarySafeCall = false
	require.NoError(t, c.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), ConfigFileName))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFindConfigFile(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "main")
	require.NoError(t, os.MkdirAll(nested, 0755))

	source := filepath.Join(nested, "Main.kt")
	require.NoError(t, os.WriteFile(source, nil, 0644))

	assert.Empty(t, FindConfigFile(nested))

	configPath := filepath.Join(root, ConfigFileName)
	require.NoError(t, os.WriteFile(configPath, []byte("[log]\nlevel = \"warn\"\n"), 0644))

	assert.Equal(t, configPath, FindConfigFile(nested))
	assert.Equal(t, configPath, FindConfigFile(source))
	assert.Empty(t, FindConfigFile(filepath.Join(root, "missing")))

	c, err := Load(source)
	require.NoError(t, err)
	assert.Equal(t, "warn", c.Log.Level)
}

func TestLoadWithoutFile(t *testing.T) {
	c, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestApply(t *testing.T) {
	defer i18n.SetLanguage(i18n.GetLanguage())

	c := Default()
	c.Diagnostics.Language = "zh"
	c.Diagnostics.WarningsAsErrors = true

	collector := diag.NewCollector()
	c.Apply(collector)
	assert.Equal(t, i18n.LangChinese, i18n.GetLanguage())

	collector.Report(diag.New(ast.NewName("x"), diag.W0400, "warning"))
	assert.Error(t, collector.Err())

	c.Apply(nil)
}
