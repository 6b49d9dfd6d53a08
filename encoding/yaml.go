package encoding

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/testudo/pkg/llmutils"
	"gopkg.in/yaml.v3"
)

type CommentStyle int

const (
	NoComment CommentStyle = iota
	HeadComment
	LineComment
	FootComment
)

// YAMLEncoder encodes YAML, optionally commenting struct fields
// with their `comment` tag or jsonschema description.
type YAMLEncoder struct {
	commentStyle CommentStyle
}

func NewYAMLEncoder() *YAMLEncoder {
	return &YAMLEncoder{
		commentStyle: NoComment,
	}
}

func (e *YAMLEncoder) WithCommentStyle(style CommentStyle) *YAMLEncoder {
	e.commentStyle = style
	return e
}

func (e *YAMLEncoder) Format() Format {
	return FormatYAML
}

func (e *YAMLEncoder) Marshal(v any) ([]byte, error) {
	if e.commentStyle == NoComment {
		return yaml.Marshal(v)
	}
	node, err := e.toNode(v)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}

func (e *YAMLEncoder) Unmarshal(bs []byte, ret any) error {
	data := llmutils.BytesTrimBackticks(bs)
	return yaml.Unmarshal(data, ret)
}

func (e *YAMLEncoder) toNode(v any) (*yaml.Node, error) {
	val := dereference(reflect.ValueOf(v))
	if !val.IsValid() {
		return nullNode(), nil
	}
	if val.Kind() != reflect.Struct {
		return nil, errors.Newf("expected struct, got %s", val.Kind())
	}
	return e.structNode(val), nil
}

// structNode returns the mapping of exported fields with a yaml key
func (e *YAMLEncoder) structNode(val reflect.Value) *yaml.Node {
	typ := val.Type()
	root := &yaml.Node{Kind: yaml.MappingNode}

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)

		key, opts, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if key == "" || key == "-" || !field.IsExported() {
			continue
		}
		fv := val.Field(i)
		if strings.Contains(opts, "omitempty") && fv.IsZero() {
			continue
		}

		comment := field.Tag.Get("comment")
		if comment == "" {
			comment = extractDescription(field.Tag.Get("jsonschema"))
		}

		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: key}
		if comment != "" {
			switch e.commentStyle {
			case HeadComment:
				keyNode.HeadComment = comment
			case LineComment:
				keyNode.LineComment = comment
			case FootComment:
				keyNode.FootComment = comment
			}
		}

		root.Content = append(root.Content, keyNode, e.valueNode(fv))
	}

	return root
}

// valueNode recursively converts values, supporting pointers and interfaces
func (e *YAMLEncoder) valueNode(v reflect.Value) *yaml.Node {
	if v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nullNode()
		}
		v = v.Elem()
		if v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
			return e.valueNode(v)
		}
	}

	switch v.Kind() {
	case reflect.String:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: v.String(), Tag: "!!str"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprintf("%d", v.Int()), Tag: "!!int"}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprintf("%d", v.Uint()), Tag: "!!int"}
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		// JSON numbers decode as float64
		if f == math.Trunc(f) && math.Abs(f) < 1e15 {
			return &yaml.Node{Kind: yaml.ScalarNode, Value: strconv.FormatInt(int64(f), 10), Tag: "!!int"}
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Value: strconv.FormatFloat(f, 'g', -1, 64), Tag: "!!float"}
	case reflect.Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprintf("%t", v.Bool()), Tag: "!!bool"}
	case reflect.Map:
		return e.mapNode(v)
	case reflect.Struct:
		return e.structNode(v)
	case reflect.Slice, reflect.Array:
		return e.sliceNode(v)
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprintf("%v", v.Interface())}
}

// mapNode returns the mapping with keys sorted
func (e *YAMLEncoder) mapNode(v reflect.Value) *yaml.Node {
	keys := v.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return strings.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
	})

	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprint(key.Interface())}
		node.Content = append(node.Content, keyNode, e.valueNode(v.MapIndex(key)))
	}
	return node
}

func (e *YAMLEncoder) sliceNode(v reflect.Value) *yaml.Node {
	node := &yaml.Node{Kind: yaml.SequenceNode}
	for i := 0; i < v.Len(); i++ {
		node.Content = append(node.Content, e.valueNode(v.Index(i)))
	}
	return node
}

func nullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: "null", Tag: "!!null"}
}

var descriptionRegex = regexp.MustCompile(`description=([^,]+)`)

// extractDescription returns the description of a jsonschema tag
func extractDescription(tag string) string {
	matches := descriptionRegex.FindStringSubmatch(tag)
	if len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	return ""
}

// dereference follows pointers until v is not a pointer
func dereference(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}
