package payments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "short input untouched", in: "héllo", n: 10, want: "héllo"},
		{name: "ascii cut", in: "abcdef", n: 4, want: "abcd"},
		{name: "cut inside a rune backs off", in: "abé", n: 3, want: "ab"},
		{name: "cut after a rune keeps it", in: "abéc", n: 4, want: "abé"},
		{name: "invalid utf-8 replaced", in: "a\xffb", n: 10, want: "a�b"},
		{name: "nul bytes dropped", in: "a\x00b", n: 10, want: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clip(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, len(got), tt.n)
		})
	}
}

func TestClip_MultiByteAtLimit(t *testing.T) {
	in := strings.Repeat("a", maxLoggedBody-1) + "é" + "tail"

	got := clip(in, maxLoggedBody)

	assert.True(t, utf8.ValidString(got))
	assert.Len(t, got, maxLoggedBody-1)
}

func TestRecordingTransport_LargeResponse(t *testing.T) {
	// The secret starts two bytes before the cut.
	body := strings.Repeat("é", (maxLoggedBody-2)/2) + testAPIKey + strings.Repeat("z", 64)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(body)) //nolint:errcheck // test server
	}))
	defer server.Close()

	recorder := &memoryRecorder{}
	client := &http.Client{Transport: &RecordingTransport{Recorder: recorder, Redactor: NewRedactor(testAPIKey), Logger: testLogger()}}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, http.NoBody)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close() //nolint:errcheck // test response

	entries := recorder.all()
	require.Len(t, entries, 1)
	data := entries[0].ResponseData
	assert.True(t, utf8.ValidString(data))
	assert.LessOrEqual(t, len(data), maxLoggedBody)
	assert.NotContains(t, data, testAPIKey[:2])
	assert.True(t, strings.HasSuffix(data, "é**"), "the mask is cut, not the secret")
}
