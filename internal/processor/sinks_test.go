package processor

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func inputHeader() []string {
	return []string{"sender", "receiver", "timestamp", "subject", "body", "has_url", "label"}
}

func TestSinkSetLazyCreation(t *testing.T) {
	dir := t.TempDir()
	sinks, err := NewSinkSet(dir, inputHeader(), false, zap.NewNop())
	require.NoError(t, err)

	// Nothing written yet: the directory stays empty.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, sinks.WriteClassified("finance", map[string]string{"sender": "a@x.com"}))
	require.NoError(t, sinks.Close())

	assert.FileExists(t, filepath.Join(dir, "email_finance.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "email_unsure.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "invalid_emails.csv"))
}

func TestSinkSetHeaderWrittenOnce(t *testing.T) {
	dir := t.TempDir()
	sinks, err := NewSinkSet(dir, inputHeader(), false, zap.NewNop())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, sinks.WriteClassified("finance", map[string]string{"sender": "a@x.com"}))
	}
	require.NoError(t, sinks.Close())

	rows := readCSVFile(t, filepath.Join(dir, "email_finance.csv"))
	require.Len(t, rows, 4)
	assert.Equal(t, "sender", rows[0][0])
}

func TestSinkSetClassifiedColumnOrder(t *testing.T) {
	dir := t.TempDir()
	sinks, err := NewSinkSet(dir, append(inputHeader(), "thread_id"), false, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, sinks.WriteClassified("finance", map[string]string{
		"sender":            "a@x.com",
		"classified_domain": "finance",
		"method1_domain":    "finance",
		"method2_domain":    "finance",
		"thread_id":         "42",
	}))
	require.NoError(t, sinks.Close())

	rows := readCSVFile(t, filepath.Join(dir, "email_finance.csv"))
	assert.Equal(t, []string{
		"sender", "receiver", "date", "subject", "body", "urls", "label",
		"classified_domain", "method1_domain", "method2_domain",
		"thread_id",
	}, rows[0])
	assert.Equal(t, "42", rows[1][10])
}

func TestSinkSetDetailColumns(t *testing.T) {
	dir := t.TempDir()
	sinks, err := NewSinkSet(dir, inputHeader(), true, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, sinks.WriteClassified("finance", map[string]string{
		"method1_confidence": "0.8123",
		"agreement":          "true",
	}))
	require.NoError(t, sinks.Close())

	rows := readCSVFile(t, filepath.Join(dir, "email_finance.csv"))
	assert.Contains(t, rows[0], "method1_confidence")
	assert.Contains(t, rows[0], "method2_confidence")
	assert.Contains(t, rows[0], "agreement")
}

func TestSinkSetInvalidAndSkippedReasons(t *testing.T) {
	dir := t.TempDir()
	sinks, err := NewSinkSet(dir, inputHeader(), false, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, sinks.WriteInvalid(map[string]string{"sender": "bad"}, "empty_subject|empty_body"))
	require.NoError(t, sinks.WriteSkipped(map[string]string{"sender": "big@x.com"}, SkipReasonBodyTooLong))
	require.NoError(t, sinks.Close())

	invalid := readCSVFile(t, filepath.Join(dir, "invalid_emails.csv"))
	// Invalid rows keep the input column order plus the reason.
	assert.Equal(t, append(inputHeader(), "error_reason"), invalid[0])
	assert.Equal(t, "empty_subject|empty_body", invalid[1][len(invalid[1])-1])

	skipped := readCSVFile(t, filepath.Join(dir, "skipped_emails.csv"))
	assert.Equal(t, append(inputHeader(), "skip_reason"), skipped[0])
	assert.Equal(t, "body_too_long", skipped[1][len(skipped[1])-1])
}

func TestSinkSetDomains(t *testing.T) {
	dir := t.TempDir()
	sinks, err := NewSinkSet(dir, inputHeader(), false, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, sinks.WriteClassified("finance", map[string]string{}))
	require.NoError(t, sinks.WriteClassified("unsure", map[string]string{}))
	require.NoError(t, sinks.WriteInvalid(map[string]string{}, "x"))

	assert.Equal(t, []string{"finance"}, sinks.Domains())
	require.NoError(t, sinks.Close())
}
