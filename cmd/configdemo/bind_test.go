package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBind_JSONFormatRendersBoundInstance(t *testing.T) {
	bindOutputFormat = "json"
	defer func() { bindOutputFormat = "yaml" }()
	cmd, out := newTestCommand()

	path := writeTempFile(t, "service.yaml", "http: {port: 9090}\n")
	err := runBind(cmd, []string{path})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, float64(9090), decoded["HTTPPort"])
}

func TestRunBind_JSONFormatEmitsStructuredErrorOnFailure(t *testing.T) {
	bindOutputFormat = "json"
	defer func() { bindOutputFormat = "yaml" }()
	cmd, out := newTestCommand()

	path := writeTempFile(t, "bad.yaml", "http: {port: 0}\n")
	err := runBind(cmd, []string{path})
	require.Error(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "INTERNAL_ERROR", decoded["code"])
}

func TestRunBind_YAMLFormatRendersBoundInstance(t *testing.T) {
	bindOutputFormat = "yaml"
	cmd, out := newTestCommand()

	path := writeTempFile(t, "service.yaml", "http: {port: 9090}\n")
	err := runBind(cmd, []string{path})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "httpport: 9090")
}
