package encoding

import (
	"encoding/json"

	"github.com/bububa/ljson"
	"github.com/effective-security/testudo/pkg/llmutils"
)

type JSONEncoder struct{}

func NewJSONEncoder() *JSONEncoder {
	return &JSONEncoder{}
}

func (e *JSONEncoder) Format() Format {
	return FormatJSON
}

func (e *JSONEncoder) Marshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "\t")
}

// Unmarshal decodes JSON leniently, after trimming code fences and surrounding text.
func (e *JSONEncoder) Unmarshal(bs []byte, ret any) error {
	data := llmutils.CleanJSON(llmutils.BytesTrimBackticks(bs))
	return ljson.Unmarshal(data, ret)
}
