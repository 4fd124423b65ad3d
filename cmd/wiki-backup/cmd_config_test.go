package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/toothbrush/wiki-backup/config"
)

func TestDescribeConfigFile(t *testing.T) {
	f := config.File{Wiki: config.Sources{
		{Key: "zhwiki", Name: "中文維基", URL: "https://zh.example.org/w/api.php"},
		{Key: "awiki", URL: "https://a.example.org/w/api.php"},
	}}

	var out bytes.Buffer
	describeConfigFile(&out, "/etc/wiki-backup/config.yml", f)
	assert.Equal(t, `Config path: /etc/wiki-backup/config.yml (YAML)
  zhwiki: 中文維基 <https://zh.example.org/w/api.php>
  awiki: awiki <https://a.example.org/w/api.php>
`, out.String())

	out.Reset()
	describeConfigFile(&out, "./config.json", config.File{})
	assert.Equal(t, "Config path: ./config.json (JSON)\n  no wikis defined\n", out.String())
}

func TestListSources(t *testing.T) {
	f := config.File{Wiki: config.Sources{{Key: "a"}, {Key: "b"}}}

	all, err := listSources(f, "")
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := listSources(f, "b")
	assert.NoError(t, err)
	assert.Equal(t, config.Sources{{Key: "b"}}, one)

	_, err = listSources(f, "c")
	assert.ErrorContains(t, err, `no wiki "c"`)
}
