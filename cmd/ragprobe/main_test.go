package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"naitive/hub/internal/rag/ragtest"
)

const (
	token  = "probe-token"
	bucket = "autorag-test-bucket"
	name   = "naitive-test-rag"
)

func setup(t *testing.T) *ragtest.Server {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	srv := ragtest.NewServer(token, name, bucket)
	t.Cleanup(srv.Close)

	t.Setenv("CLOUDFLARE_API_TOKEN", token)
	t.Setenv("CLOUDFLARE_ACCOUNT_ID", "acct")
	t.Setenv("HUB_RAG_API_BASE_URL", srv.URL)
	t.Setenv("HUB_LOG_LEVEL", "disabled")
	return srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test_document.md")
	require.NoError(t, os.WriteFile(path, []byte("NAItive offers workflow automation services.\n\nAuthenticate with a bearer token."), 0o600))
	return path
}

func TestMissingToken(t *testing.T) {
	setup(t)
	t.Setenv("CLOUDFLARE_API_TOKEN", "")
	require.NoError(t, os.Unsetenv("CLOUDFLARE_API_TOKEN"))

	_, err := execute(t, "list")
	assert.ErrorIs(t, err, errNoToken)
}

func TestRun_UploadsAndPrintsSteps(t *testing.T) {
	srv := setup(t)
	doc := writeDoc(t)

	out, err := execute(t, "run", "--file", doc)
	require.NoError(t, err)

	_, _, ok := srv.Object(bucket, "documents/test_document.md")
	assert.True(t, ok)
	assert.Contains(t, out, "MANUAL STEPS REQUIRED")
	assert.Contains(t, out, `Select R2 bucket: "autorag-test-bucket"`)
}

func TestRun_UploadFailureAborts(t *testing.T) {
	setup(t)

	_, err := execute(t, "run", "--file", filepath.Join(t.TempDir(), "missing.md"))
	assert.ErrorContains(t, err, "upload failed")
}

func TestRun_TestOnlyContinuesPastFailures(t *testing.T) {
	// Instance name the fake does not know: every query fails.
	setup(t)
	t.Setenv("HUB_RAG_NAME", "unknown-rag")

	out, err := execute(t, "run", "--test-only")
	require.NoError(t, err)
	assert.Contains(t, out, "found 1 AutoRAG instances")
	assert.Contains(t, out, "--- Query: How do I troubleshoot authentication errors? ---")
}

func TestUploadThenSearch(t *testing.T) {
	setup(t)
	doc := writeDoc(t)

	_, err := execute(t, "upload", doc, "--key", "docs/a.md")
	require.NoError(t, err)

	out, err := execute(t, "search", "workflow automation")
	require.NoError(t, err)
	assert.Contains(t, out, "workflow automation services")

	out, err = execute(t, "ai-search", "bearer token")
	require.NoError(t, err)
	assert.Contains(t, out, `"response"`)
}
