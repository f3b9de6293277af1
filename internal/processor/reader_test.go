package processor

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `sender,receiver,timestamp,subject,body,has_url,label
a@x.com,b@y.com,2024-01-01,subj one,body one,1,finance
c@x.com,d@y.com,2024-01-02,subj two,body two,no,tech
e@x.com,f@y.com,2024-01-03,subj three,body three,true,retail
`

func TestReaderHeaderAndChunking(t *testing.T) {
	r, err := NewReader(strings.NewReader(sampleCSV), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"sender", "receiver", "timestamp", "subject", "body", "has_url", "label"}, r.Header())

	first, err := r.Chunk()
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "a@x.com", first[0].Row["sender"])
	assert.Equal(t, 1, first[0].Record)
	assert.Equal(t, 2, first[1].Record)

	second, err := r.Chunk()
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "e@x.com", second[0].Row["sender"])

	_, err = r.Chunk()
	assert.Equal(t, io.EOF, err)
}

func TestReaderMalformedRowDoesNotStopStream(t *testing.T) {
	input := "sender,receiver,subject\n" +
		"a@x.com,b@y.com,ok\n" +
		"a@x.com,b@y.com,too,many,fields\n" +
		"c@x.com,d@y.com,also ok\n"

	r, err := NewReader(strings.NewReader(input), 10)
	require.NoError(t, err)

	chunk, err := r.Chunk()
	require.NoError(t, err)
	require.Len(t, chunk, 3)

	assert.NoError(t, chunk[0].Err)
	assert.Error(t, chunk[1].Err)
	assert.NoError(t, chunk[2].Err)
	assert.Equal(t, "also ok", chunk[2].Row["subject"])
}

func TestNormalizeRowAliases(t *testing.T) {
	row := map[string]string{
		"sender":    "a@x.com",
		"receiver":  "b@y.com",
		"timestamp": "2024-01-01",
		"subject":   "s",
		"body":      "b",
		"has_url":   "yes",
		"label":     "finance",
		"thread_id": "42",
	}

	normalized := NormalizeRow(row)

	assert.Equal(t, "2024-01-01", normalized["date"])
	assert.Equal(t, "true", normalized["urls"])
	assert.Equal(t, "42", normalized["thread_id"])
	assert.NotContains(t, normalized, "timestamp")
	assert.NotContains(t, normalized, "has_url")
}

func TestParseBoolish(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "1", "yes", "Yes", "on", " on "} {
		assert.True(t, parseBoolish(s), "%q", s)
	}
	for _, s := range []string{"", "false", "0", "no", "off", "maybe"} {
		assert.False(t, parseBoolish(s), "%q", s)
	}
}

func TestRecordFromRow(t *testing.T) {
	record := RecordFromRow(map[string]string{
		"sender":    "  a@x.com ",
		"receiver":  "b@y.com",
		"date":      "2024-01-01",
		"subject":   " hello ",
		"body":      " text ",
		"urls":      "true",
		"label":     "finance",
		"thread_id": "42",
	})

	assert.Equal(t, "a@x.com", record.Sender)
	assert.Equal(t, "hello", record.Subject)
	assert.Equal(t, "text", record.Body)
	assert.True(t, record.HasURL)
	// The label column stays in the row map, not on the record.
	assert.Equal(t, map[string]string{"thread_id": "42"}, record.Extra)
}

func TestReaderMultilineBody(t *testing.T) {
	input := "sender,receiver,subject,body\n" +
		"a@x.com,b@y.com,s,\"line one\nline two\"\n" +
		"c@x.com,d@y.com,s2,plain\n"

	r, err := NewReader(strings.NewReader(input), 10)
	require.NoError(t, err)

	chunk, err := r.Chunk()
	require.NoError(t, err)
	require.Len(t, chunk, 2)
	assert.Equal(t, "line one\nline two", chunk[0].Row["body"])

	// Record numbers count records, so a body spanning file lines does not
	// shift the numbering of what follows.
	assert.Equal(t, 1, chunk[0].Record)
	assert.Equal(t, 2, chunk[1].Record)
}
