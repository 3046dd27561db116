package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aleister1102/linkcleaner/internal/batch"
	"github.com/aleister1102/linkcleaner/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/short", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/article/?utm_source=newsletter&page=2", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/article/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_config:\n  log_level: error\n"), 0644))
	return path
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    AppFlags
		wantErr bool
	}{
		{
			name: "positional url",
			args: []string{"https://example.com/"},
			want: AppFlags{URL: "https://example.com/"},
		},
		{
			name: "aliases",
			args: []string{"-f", "urls.txt", "-c", "cfg.yaml", "-s", "youtube"},
			want: AppFlags{URLFile: "urls.txt", GlobalConfigFile: "cfg.yaml", StrategyID: "youtube"},
		},
		{
			name: "resolve only",
			args: []string{"-resolve", "-url", "https://sho.rt/x"},
			want: AppFlags{URL: "https://sho.rt/x", ResolveOnly: true},
		},
		{name: "nothing to do", args: []string{}, wantErr: true},
		{name: "url and file", args: []string{"-url", "https://a.example/", "-file", "x.txt"}, wantErr: true},
		{name: "resolve with file", args: []string{"-resolve", "-file", "x.txt"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFlags(tt.args, io.Discard)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun_SingleURL(t *testing.T) {
	server := newTestServer(t)
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), AppFlags{URL: server.URL + "/short", GlobalConfigFile: writeConfig(t)}, &stdout, &stderr)
	require.NoError(t, err)

	var result models.CleanResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
	assert.Equal(t, server.URL+"/article?page=2", result.Primary.URL)
	assert.Equal(t, "generic", result.Meta.StrategyID)
	assert.True(t, result.HasURL(server.URL+"/short"))
}

func TestRun_ResolveOnly(t *testing.T) {
	server := newTestServer(t)
	var stdout bytes.Buffer

	err := run(context.Background(), AppFlags{URL: server.URL + "/short", ResolveOnly: true, GlobalConfigFile: writeConfig(t)}, &stdout, io.Discard)
	require.NoError(t, err)

	var redirect models.RedirectResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &redirect))
	assert.True(t, redirect.Success)
	assert.Equal(t, []string{server.URL + "/short", server.URL + "/article/?utm_source=newsletter&page=2"}, redirect.Chain)
}

func TestRun_InvalidURL(t *testing.T) {
	err := run(context.Background(), AppFlags{URL: "not a url", GlobalConfigFile: writeConfig(t)}, io.Discard, io.Discard)
	assert.Error(t, err)
}

func TestRun_BatchFile(t *testing.T) {
	server := newTestServer(t)
	urlFile := filepath.Join(t.TempDir(), "urls.txt")
	content := "# targets\n" + server.URL + "/short\nnot a url\n\n" + server.URL + "/article/?fbclid=abc\n"
	require.NoError(t, os.WriteFile(urlFile, []byte(content), 0644))

	var stdout bytes.Buffer
	err := run(context.Background(), AppFlags{URLFile: urlFile, GlobalConfigFile: writeConfig(t)}, &stdout, io.Discard)
	require.NoError(t, err)

	var items []batch.Item
	scanner := bufio.NewScanner(&stdout)
	for scanner.Scan() {
		var item batch.Item
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &item))
		items = append(items, item)
	}
	require.Len(t, items, 3)

	assert.Equal(t, server.URL+"/article?page=2", items[0].Result.Primary.URL)
	assert.Nil(t, items[1].Result)
	assert.NotEmpty(t, items[1].Error)
	assert.Equal(t, server.URL+"/article", items[2].Result.Primary.URL)
}
