package document

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"os"
	"strings"

	"github.com/arborview/arbor/pkg/errors"
)

// Parse reads exactly one JSON document from r and returns its ordered
// representation. The parse is strict: empty input, malformed JSON, and
// trailing content after the document are all errors. Error messages carry
// the byte offset of the failure where the decoder provides one.
func Parse(r io.Reader) (*Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidJSON, "empty input: expected a JSON document")
	}
	if err != nil {
		return nil, parseError(err)
	}

	v, err := parseValue(dec, tok)
	if err != nil {
		return nil, err
	}

	// Anything after the first document is an error. A second Token call
	// returns io.EOF only when the rest of the stream is whitespace.
	switch _, err := dec.Token(); {
	case err == io.EOF:
		return v, nil
	case err != nil:
		return nil, errors.Wrap(errors.ErrCodeInvalidJSON, err,
			"trailing data after JSON document at offset %d", dec.InputOffset())
	default:
		return nil, errors.New(errors.ErrCodeInvalidJSON,
			"trailing data after JSON document at offset %d", dec.InputOffset())
	}
}

// ParseString parses a JSON document from a string.
func ParseString(s string) (*Value, error) {
	return Parse(strings.NewReader(s))
}

// ParseBytes parses a JSON document from a byte slice.
func ParseBytes(b []byte) (*Value, error) {
	return Parse(bytes.NewReader(b))
}

// ParseFile parses a JSON document from a file on disk.
func ParseFile(path string) (*Value, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "cannot open %s", path)
	}
	defer f.Close()
	return Parse(f)
}

func parseValue(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
		// The decoder only hands out '}' and ']' to balanced consumers,
		// so reaching here means the stream is malformed.
		return nil, errors.New(errors.ErrCodeInvalidJSON,
			"unexpected %q at offset %d", t.String(), dec.InputOffset())
	case string:
		return &Value{Kind: KindString, Str: t}, nil
	case json.Number:
		return &Value{Kind: KindNumber, Num: t}, nil
	case bool:
		return &Value{Kind: KindBool, Bool: t}, nil
	case nil:
		return &Value{Kind: KindNull}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidJSON,
		"unexpected token %v at offset %d", tok, dec.InputOffset())
}

func parseObject(dec *json.Decoder) (*Value, error) {
	v := &Value{Kind: KindObject}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, parseError(err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidJSON,
				"object key must be a string at offset %d", dec.InputOffset())
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, parseError(err)
		}
		val, err := parseValue(dec, valTok)
		if err != nil {
			return nil, err
		}
		v.Members = append(v.Members, Member{Key: key, Value: val})
	}
	// Consume the closing '}'.
	if _, err := dec.Token(); err != nil {
		return nil, parseError(err)
	}
	return v, nil
}

func parseArray(dec *json.Decoder) (*Value, error) {
	v := &Value{Kind: KindArray}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, parseError(err)
		}
		elem, err := parseValue(dec, tok)
		if err != nil {
			return nil, err
		}
		v.Elems = append(v.Elems, elem)
	}
	// Consume the closing ']'.
	if _, err := dec.Token(); err != nil {
		return nil, parseError(err)
	}
	return v, nil
}

// parseError converts decoder errors into structured errors with offsets.
func parseError(err error) error {
	var syn *json.SyntaxError
	if stderrors.As(err, &syn) {
		return errors.Wrap(errors.ErrCodeInvalidJSON, err, "invalid JSON at offset %d", syn.Offset)
	}
	if stderrors.Is(err, io.ErrUnexpectedEOF) || stderrors.Is(err, io.EOF) {
		return errors.Wrap(errors.ErrCodeInvalidJSON, err, "unexpected end of JSON input")
	}
	return errors.Wrap(errors.ErrCodeInvalidJSON, err, "invalid JSON")
}
