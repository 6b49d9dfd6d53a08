package encoding

import (
	"github.com/BurntSushi/toml"
	"github.com/effective-security/testudo/pkg/llmutils"
)

type TOMLEncoder struct{}

func NewTOMLEncoder() *TOMLEncoder {
	return &TOMLEncoder{}
}

func (e *TOMLEncoder) Format() Format {
	return FormatTOML
}

func (e *TOMLEncoder) Marshal(v any) ([]byte, error) {
	return toml.Marshal(v)
}

func (e *TOMLEncoder) Unmarshal(bs []byte, ret any) error {
	data := llmutils.BytesTrimBackticks(bs)
	return toml.Unmarshal(data, ret)
}
