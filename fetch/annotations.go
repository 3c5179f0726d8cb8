package fetch

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	log "github.com/entn-at/ts-asr/logger"
)

// getAnnotationHost returns the base URL for the published LibriSpeechMix
// annotation files, from environment variable or default.
func getAnnotationHost() string {
	host := os.Getenv("TSASR_ANNOTATION_HOST")
	if host == "" {
		return "https://raw.githubusercontent.com/NaoyukiKanda/LibriSpeechMix/main/list"
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	host = strings.TrimRight(host, "/")
	return host
}

// DownloadAnnotations fetches the jsonl annotation file for each split into
// dataFolder, skipping files that are already present.
func DownloadAnnotations(ctx context.Context, dataFolder string, splits []string) *log.Status {
	for _, split := range splits {
		filename := split + `.jsonl`
		target := filepath.Join(dataFolder, filename)
		_, err := os.Stat(target)
		if err == nil {
			log.Info(ctx, `Annotation file exists, skipping`, filename)
			continue
		}
		url := getAnnotationHost() + `/` + filename
		body, status := HttpGet(ctx, url, filename)
		if status != nil {
			return status
		}
		err = os.WriteFile(target, body, 0644)
		if err != nil {
			return log.Error(ctx, 500, err, `Error writing annotation file`, target)
		}
		log.Info(ctx, `Downloaded`, filename)
	}
	return nil
}

func HttpGet(ctx context.Context, url string, desc string) ([]byte, *log.Status) {
	var body []byte
	resp, err := http.Get(url)
	if err != nil {
		return body, log.Error(ctx, 0, err, "Error in annotation request for:", desc)
	}
	defer resp.Body.Close()
	if resp.Status[0] != '2' {
		return body, log.ErrorNoErr(ctx, resp.StatusCode, resp.Status, desc)
	}
	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return body, log.Error(ctx, resp.StatusCode, err, "Error reading annotation response for:", desc)
	}
	return body, nil
}
