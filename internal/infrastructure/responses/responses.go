// Package responses loads an agent's answers from a JSON file mapping
// query id to raw answer text. Run exporters differ in shape, so values
// may be plain strings, numbers, or objects with a "response" field.
package responses

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"analytics-eval/internal/application/port/output"

	"github.com/ysmood/gson"
)

var _ output.ResponseSource = (*FileSource)(nil)

type FileSource struct {
	path   string
	logger output.LoggerPort
}

func NewFileSource(path string, logger output.LoggerPort) *FileSource {
	return &FileSource{
		path:   path,
		logger: logger,
	}
}

func (s *FileSource) Load(ctx context.Context) (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read responses file: %w", err)
	}

	doc := gson.NewFrom(string(data))
	if _, ok := doc.Val().(map[string]interface{}); !ok {
		return nil, fmt.Errorf("responses file %s is not a JSON object", s.path)
	}

	out := make(map[string]string)
	for id, v := range doc.Map() {
		switch val := v.Val().(type) {
		case string:
			out[id] = val
		case map[string]interface{}:
			if text, ok := v.Get("response").Val().(string); ok {
				out[id] = text
			} else if s.logger != nil {
				s.logger.Warn("Response entry has no response field, skipping", "id", id)
			}
		case float64:
			out[id] = strconv.FormatFloat(val, 'f', -1, 64)
		case nil:
			// Explicit null means the agent gave no answer; grade as missing.
		default:
			if s.logger != nil {
				s.logger.Warn("Response entry has unsupported shape, skipping", "id", id)
			}
		}
	}

	if s.logger != nil {
		s.logger.Info("Agent responses loaded", "path", s.path, "responses", len(out))
	}
	return out, nil
}
