package decode_yaml

import (
	"context"
	"strings"

	"github.com/kmatton/speech-feature-io/decode_yaml/request"
	log "github.com/kmatton/speech-feature-io/logger"
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

// Process decodes and validates one request yaml. Validation problems are
// accumulated and reported together in a single status.
func (r *RequestDecoder) Process(yamlContent []byte) (request.Request, *log.Status) {
	var req request.Request
	err := yaml.Unmarshal(yamlContent, &req)
	if err != nil {
		return req, log.Error(r.ctx, 400, err, `Error decoding request yaml`)
	}
	r.Validate(&req)
	if len(r.errors) > 0 {
		return req, log.ErrorNoErr(r.ctx, 400, `Request has errors:`, strings.Join(r.errors, `; `))
	}
	return req, nil
}

// Encode renders a request back to yaml, used when archiving run artifacts.
func (r *RequestDecoder) Encode(req request.Request) (string, *log.Status) {
	data, err := yaml.Marshal(&req)
	if err != nil {
		return ``, log.Error(r.ctx, 500, err, `Error encoding request yaml`)
	}
	return string(data), nil
}
