package ircstyle

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
nick alice
ui {
	style-links false
	link-colour 12
	channel-colour 0000FF
	link-bare-domains true
	frame-buffer-size 50
	font-name Fixed
	font-size 10
}
colour 4 FF0000
colour 12 navy
smilie ":)" ":("
format channelMessage "%2$s: %5$s"
templates format.yml
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(testConfig))
	require.NoError(t, err)

	assert.Equal(t, "alice", cfg.Nick)
	assert.False(t, cfg.UI.StyleLinks)
	assert.True(t, cfg.UI.StyleChannels)
	assert.Equal(t, "12", cfg.UI.LinkColour)
	assert.Equal(t, "0000FF", cfg.UI.ChannelColour)
	assert.True(t, cfg.UI.LinkBareDomains)
	assert.True(t, cfg.UI.NickColours)
	assert.Equal(t, 50, cfg.UI.FrameBufferSize)
	assert.Equal(t, "Fixed", cfg.UI.FontName)
	assert.Equal(t, 10, cfg.UI.FontSize)
	assert.Equal(t, map[int]string{4: "FF0000", 12: "navy"}, cfg.Colours)
	assert.Equal(t, []string{":)", ":("}, cfg.Smilies)
	assert.Equal(t, map[string]string{"channelMessage": "%2$s: %5$s"}, cfg.Formats)
	assert.Equal(t, "format.yml", cfg.Templates)
}

func TestParseConfigErrors(t *testing.T) {
	for _, input := range []string{
		"unknown directive",
		"nick",
		"colour red FF0000",
		"format channelMessage",
		"ui {\n\tfont-size big\n}",
		"ui {\n\tstyle-links maybe\n}",
		"ui {\n\tframe-buffer-size -1\n}",
		"ui {\n\tnope 1\n}",
	} {
		_, err := ParseConfig(strings.NewReader(input))
		assert.Error(t, err, "input %q", input)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ircstyle.scfg")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0600))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "format.yml"), cfg.Templates)

	cfg, err = LoadConfigFile(filepath.Join(dir, "missing.scfg"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, Defaults(), cfg)
}
