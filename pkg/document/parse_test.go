package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arborview/arbor/pkg/errors"
)

func TestParse_OrderPreserved(t *testing.T) {
	v, err := ParseString(`{"zebra":1,"apple":2,"mango":3}`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	if v.Kind != KindObject {
		t.Fatalf("Kind = %v, want %v", v.Kind, KindObject)
	}

	want := []string{"zebra", "apple", "mango"}
	if len(v.Members) != len(want) {
		t.Fatalf("len(Members) = %d, want %d", len(v.Members), len(want))
	}
	for i, key := range want {
		if v.Members[i].Key != key {
			t.Errorf("Members[%d].Key = %q, want %q", i, v.Members[i].Key, key)
		}
	}
}

func TestParse_Kinds(t *testing.T) {
	v, err := ParseString(`{"s":"hi","n":42,"f":3.14,"b":true,"z":null,"o":{},"a":[1,2]}`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	kinds := map[string]Kind{
		"s": KindString,
		"n": KindNumber,
		"f": KindNumber,
		"b": KindBool,
		"z": KindNull,
		"o": KindObject,
		"a": KindArray,
	}
	for _, m := range v.Members {
		if m.Value.Kind != kinds[m.Key] {
			t.Errorf("member %q Kind = %v, want %v", m.Key, m.Value.Kind, kinds[m.Key])
		}
	}
}

func TestParse_NumberSourceText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`1`, "1"},
		{`1.50`, "1.50"},
		{`1e3`, "1e3"},
		{`-0.001`, "-0.001"},
		{`123456789012345678901234567890`, "123456789012345678901234567890"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseString(tt.input)
			if err != nil {
				t.Fatalf("ParseString(%q) error = %v", tt.input, err)
			}
			if got := v.Num.String(); got != tt.want {
				t.Errorf("Num = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse_DuplicateKeysKept(t *testing.T) {
	v, err := ParseString(`{"a":1,"a":2}`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if len(v.Members) != 2 {
		t.Fatalf("len(Members) = %d, want 2", len(v.Members))
	}
	if v.Members[0].Value.Num != "1" || v.Members[1].Value.Num != "2" {
		t.Errorf("duplicate members = %q, %q, want 1, 2",
			v.Members[0].Value.Num, v.Members[1].Value.Num)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantOffset bool
	}{
		{"empty input", "", false},
		{"whitespace only", "   \n\t", false},
		{"missing value", `{"a":}`, true},
		{"unterminated object", `{"a":1`, false},
		{"bare garbage", `}`, true},
		{"trailing document", `{"a":1} {"b":2}`, true},
		{"trailing garbage", `[1,2] x`, true},
		{"single quotes", `{'a':1}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			if err == nil {
				t.Fatalf("ParseString(%q) error = nil, want parse error", tt.input)
			}
			if !errors.Is(err, errors.ErrCodeInvalidJSON) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidJSON)
			}
			if tt.wantOffset && !strings.Contains(err.Error(), "offset") {
				t.Errorf("error %q does not mention the offset", err.Error())
			}
		})
	}
}

func TestParse_TrailingWhitespaceOK(t *testing.T) {
	if _, err := ParseString("{\"a\":1}  \n\t "); err != nil {
		t.Errorf("ParseString() error = %v, want nil", err)
	}
}

func TestParse_PrimitiveRoots(t *testing.T) {
	tests := []struct {
		input string
		kind  Kind
	}{
		{`"hello"`, KindString},
		{`42`, KindNumber},
		{`true`, KindBool},
		{`null`, KindNull},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseString(tt.input)
			if err != nil {
				t.Fatalf("ParseString(%q) error = %v", tt.input, err)
			}
			if v.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", v.Kind, tt.kind)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(path, []byte(`{"ok":true}`), 0o644); err != nil {
		t.Fatal(err)
	}

	v, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if v.Len() != 1 {
		t.Errorf("Len() = %d, want 1", v.Len())
	}

	_, err = ParseFile(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}
