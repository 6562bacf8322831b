package session_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeGarbage(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
}
