// internal/app/run_test.go
package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mes-report/internal/common/config"
	apperrors "mes-report/internal/common/errors"
	"mes-report/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig(t *testing.T, serverURL string) *config.Config {
	dir := t.TempDir()

	snPath := filepath.Join(dir, "mb_sn.txt")
	require.NoError(t, os.WriteFile(snPath, []byte("SN001\n"), 0o644))

	return &config.Config{
		MESServer:      serverURL,
		MESAPI:         "/api/record/",
		SerialPath:     snPath,
		RetryCount:     2,
		RetryDelay:     0,
		TemplatePath:   filepath.Join(dir, "MES_template.txt"),
		OutputPath:     filepath.Join(dir, "MES.txt"),
		RawOutputPath:  filepath.Join(dir, "MES_raw.json"),
		RequestTimeout: 2,
	}
}

func okHandler(hits *int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success": true, "data": {"LINE":"L1","EXTRA":"E1"}}`))
	}
}

// ==========================
// Pipeline Tests
// ==========================

func TestRun_FullPipeline(t *testing.T) {
	var hits int32
	server := httptest.NewServer(okHandler(&hits))
	defer server.Close()

	cfg := createTestConfig(t, server.URL)
	require.NoError(t, os.WriteFile(cfg.TemplatePath, []byte("##LINE=\n##\n"), 0o644))

	err := New(cfg, logger.NewTestLogger(t)).Run(context.Background())
	require.NoError(t, err)

	report, err := os.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	lines := strings.SplitAfter(string(report), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Equal(t, "##LINE=L1\n", lines[1])
	assert.Equal(t, "##EXTRA=E1\n", lines[2])
	assert.Equal(t, "##\n", lines[3])

	raw, err := os.ReadFile(cfg.RawOutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "    \"success\": true")

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestRun_SerialFailureSkipsNetwork(t *testing.T) {
	var hits int32
	server := httptest.NewServer(okHandler(&hits))
	defer server.Close()

	cfg := createTestConfig(t, server.URL)
	require.NoError(t, os.WriteFile(cfg.SerialPath, []byte("   \n"), 0o644))

	err := New(cfg, logger.NewTestLogger(t)).Run(context.Background())

	assert.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeSerialReadFailed, apperrors.CodeOf(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits), "no request may be issued without a serial")
}

func TestRun_MissingTemplateStillSucceeds(t *testing.T) {
	var hits int32
	server := httptest.NewServer(okHandler(&hits))
	defer server.Close()

	cfg := createTestConfig(t, server.URL)
	// TemplatePath intentionally not created.

	err := New(cfg, logger.NewTestLogger(t)).Run(context.Background())
	require.NoError(t, err)

	report, err := os.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	lines := strings.SplitAfter(string(report), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, "##LINE=L1\n", lines[1])
	assert.Equal(t, "##EXTRA=E1\n", lines[2])
}

func TestRun_ReportWriteFailureIsFatal(t *testing.T) {
	var hits int32
	server := httptest.NewServer(okHandler(&hits))
	defer server.Close()

	cfg := createTestConfig(t, server.URL)
	cfg.OutputPath = t.TempDir() // a directory is not writable as a file

	err := New(cfg, logger.NewTestLogger(t)).Run(context.Background())

	assert.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeReportWriteFailed, apperrors.CodeOf(err))
}

func TestRun_RawDumpFailureIsNotFatal(t *testing.T) {
	var hits int32
	server := httptest.NewServer(okHandler(&hits))
	defer server.Close()

	cfg := createTestConfig(t, server.URL)
	cfg.RawOutputPath = t.TempDir()

	err := New(cfg, logger.NewTestLogger(t)).Run(context.Background())
	require.NoError(t, err, "raw dump failure must not fail the run")

	// The processed report was still written.
	_, statErr := os.Stat(cfg.OutputPath)
	assert.NoError(t, statErr)
}

func TestRun_MESUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := createTestConfig(t, server.URL)

	err := New(cfg, logger.NewTestLogger(t)).Run(context.Background())

	assert.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeMESUnavailable, apperrors.CodeOf(err))

	_, statErr := os.Stat(cfg.OutputPath)
	assert.True(t, os.IsNotExist(statErr), "no report may be written on fetch failure")
}

// ==========================
// Operator Message Tests
// ==========================

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "config invalid",
			err:      apperrors.NewConfigInvalidError("missing key"),
			expected: "Failed to load configuration, please check the log.",
		},
		{
			name:     "serial read failed",
			err:      apperrors.NewSerialReadFailedError("mb_sn.txt", nil),
			expected: "Failed to load SN configuration, please check the log.",
		},
		{
			name:     "mes unavailable includes url",
			err:      apperrors.NewMESUnavailableError("http://mes.local/api/record/SN001", 3, nil),
			expected: "Could not connect to MES system.\nURL: http://mes.local/api/record/SN001\nPlease check the network connection or contact IT personnel.",
		},
		{
			name:     "report write failed includes path",
			err:      apperrors.NewReportWriteFailedError("/out/MES.txt", nil),
			expected: "Could not write to output file '/out/MES.txt'.",
		},
		{
			name:     "plain error passes through",
			err:      errors.New("something odd"),
			expected: "something odd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UserMessage(tt.err))
		})
	}
}
