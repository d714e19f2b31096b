package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	return cmd, &out
}

func TestRunValidate_TextFormatPrintsPlainError(t *testing.T) {
	validateOutputFormat = "text"
	cmd, out := newTestCommand()

	path := writeTempFile(t, "bad.yaml", "http: {port: 0}\n")
	err := runValidate(cmd, []string{path})
	require.Error(t, err)
	assert.Contains(t, out.String(), "Invalid configuration property")
}

func TestRunValidate_JSONFormatEmitsStructuredError(t *testing.T) {
	validateOutputFormat = "json"
	defer func() { validateOutputFormat = "text" }()
	cmd, out := newTestCommand()

	path := writeTempFile(t, "bad.yaml", "http: {port: 0}\n")
	err := runValidate(cmd, []string{path})
	require.Error(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "VALIDATION_ERROR", decoded["code"])
	assert.NotEmpty(t, decoded["details"])
}

func TestRunValidate_ValidConfigurationSucceeds(t *testing.T) {
	validateOutputFormat = "text"
	cmd, out := newTestCommand()

	path := writeTempFile(t, "good.yaml", "http: {port: 8080}\n")
	err := runValidate(cmd, []string{path})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "configuration is valid")
}
