package decode_yaml

import (
	"context"
	"strings"

	"github.com/entn-at/ts-asr/decode_yaml/request"
	log "github.com/entn-at/ts-asr/logger"
	"gopkg.in/yaml.v3"
)

type RequestDecoder struct {
	ctx    context.Context
	errors []string
}

func NewRequestDecoder(ctx context.Context) RequestDecoder {
	var r RequestDecoder
	r.ctx = ctx
	return r
}

// Process decodes and validates a yaml job request.
func (r *RequestDecoder) Process(yamlContent []byte) (request.Request, *log.Status) {
	var req request.Request
	err := yaml.Unmarshal(yamlContent, &req)
	if err != nil {
		return req, log.Error(r.ctx, 400, err, `Error decoding yaml request`)
	}
	r.Validate(&req)
	if len(r.errors) > 0 {
		return req, log.ErrorNoErr(r.ctx, 400, strings.Join(r.errors, "\n"))
	}
	return req, nil
}
