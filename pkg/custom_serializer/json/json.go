package json

import (
	"io"

	"github.com/bytedance/sonic"
)

var api = sonic.Config{
	EscapeHTML:       false,
	CompactMarshaler: true,
	CopyString:       true,
}.Froze()

type JSONSerializer struct {
	api sonic.API
}

func New() *JSONSerializer {
	return &JSONSerializer{api: api}
}

func (s *JSONSerializer) Marshal(v any) ([]byte, error) {
	return s.api.Marshal(v)
}

func (s *JSONSerializer) Unmarshal(data []byte, v any) error {
	return s.api.Unmarshal(data, v)
}

// Decode reads a single JSON value from r into v.
func (s *JSONSerializer) Decode(r io.Reader, v any) error {
	return s.api.NewDecoder(r).Decode(v)
}
