package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	log "github.com/entn-at/ts-asr/logger"
)

func TestAnnotationHost(t *testing.T) {
	t.Setenv(`TSASR_ANNOTATION_HOST`, ``)
	host := getAnnotationHost()
	if host != `https://raw.githubusercontent.com/NaoyukiKanda/LibriSpeechMix/main/list` {
		t.Error(`Wrong default host`, host)
	}
	t.Setenv(`TSASR_ANNOTATION_HOST`, `mirror.example.com/list/`)
	host = getAnnotationHost()
	if host != `https://mirror.example.com/list` {
		t.Error(`Host should get a scheme and no trailing slash, got`, host)
	}
	t.Setenv(`TSASR_ANNOTATION_HOST`, `http://localhost:8080/list`)
	host = getAnnotationHost()
	if host != `http://localhost:8080/list` {
		t.Error(`Explicit scheme should be kept, got`, host)
	}
}

func TestDownloadAnnotations(t *testing.T) {
	ctx := context.Background()
	log.SetOutput(`stderr`)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == `/list/dev-clean-2mix.jsonl` {
			_, _ = w.Write([]byte(`{"id": "dev-1"}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()
	t.Setenv(`TSASR_ANNOTATION_HOST`, server.URL+`/list`)
	dataFolder := t.TempDir()
	status := DownloadAnnotations(ctx, dataFolder, []string{`dev-clean-2mix`})
	if status != nil {
		t.Fatal(status)
	}
	content, err := os.ReadFile(filepath.Join(dataFolder, `dev-clean-2mix.jsonl`))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != `{"id": "dev-1"}` {
		t.Error(`Wrong downloaded content`, string(content))
	}
	status = DownloadAnnotations(ctx, dataFolder, []string{`no-such-split`})
	if status == nil {
		t.Fatal(`Missing annotation file should fail`)
	}
	if status.Status != 404 {
		t.Error(`Expected status 404, got`, status.Status)
	}
}

func TestDownloadAnnotationsSkipsExisting(t *testing.T) {
	ctx := context.Background()
	// The host is unreachable, only existing files can succeed
	t.Setenv(`TSASR_ANNOTATION_HOST`, `http://127.0.0.1:1/list`)
	dataFolder := t.TempDir()
	existing := filepath.Join(dataFolder, `test-clean-1mix.jsonl`)
	err := os.WriteFile(existing, []byte(`{"id": "test-1"}`), 0644)
	if err != nil {
		t.Fatal(err)
	}
	status := DownloadAnnotations(ctx, dataFolder, []string{`test-clean-1mix`})
	if status != nil {
		t.Fatal(status)
	}
}
