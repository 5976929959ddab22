package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/agm-extractor/constants"
	"github.com/joseph-ayodele/agm-extractor/internal/pipeline"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestExtractCommand_JSON(t *testing.T) {
	t.Setenv("DB_URL", "")
	dir := t.TempDir()
	src := filepath.Join(dir, "agm.txt")
	dst := filepath.Join(dir, "agm.json")
	require.NoError(t, os.WriteFile(src, []byte(`Proposal Proxy Year: 2021 Proposal Text: "Elect board" For votes: 9 Against votes: 1`), 0o644))

	out, err := execute(t, "extract", src, "-o", dst, "--format", "json", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "notice: "+pipeline.NoticeNoDirectors)
	assert.Contains(t, out, "wrote "+dst)

	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	var sheets map[string][]map[string]string
	require.NoError(t, json.Unmarshal(b, &sheets))
	require.Len(t, sheets[constants.ProposalSheet], 1)
	p := sheets[constants.ProposalSheet][0]
	assert.Equal(t, "2021", p[constants.ColProposalYear])
	assert.Equal(t, "Approved (9 For > 1 Against)", p[constants.ColResolutionOutcome])
	assert.Empty(t, sheets[constants.DirectorSheet])
}

func TestExtractCommand_DefaultOutputFollowsFormat(t *testing.T) {
	t.Setenv("DB_URL", "")
	dir := t.TempDir()
	t.Chdir(dir)
	extractOut = ""
	require.NoError(t, os.WriteFile("agm.txt", []byte("Individual: Jane Doe\nDirector Votes For: 900\n"), 0o644))

	out, err := execute(t, "extract", "agm.txt", "--format", "json", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote agm_data.json")

	b, err := os.ReadFile(filepath.Join(dir, "agm_data.json"))
	require.NoError(t, err)
	assert.True(t, json.Valid(b))
	_, statErr := os.Stat(filepath.Join(dir, "agm_data.xlsx"))
	assert.True(t, os.IsNotExist(statErr))

	out, err = execute(t, "extract", "agm.txt", "--format", "xlsx", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote agm_data.xlsx")
	_, statErr = os.Stat(filepath.Join(dir, "agm_data.xlsx"))
	assert.NoError(t, statErr)
}

func TestExtractCommand_UnreadableDocument(t *testing.T) {
	t.Setenv("DB_URL", "")
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.pdf")
	dst := filepath.Join(dir, "out.xlsx")
	require.NoError(t, os.WriteFile(src, []byte("garbage"), 0o644))

	_, err := execute(t, "extract", src, "-o", dst, "--format", "xlsx", "--log-level", "error")
	require.Error(t, err)
	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "agm-extract dev")
}
