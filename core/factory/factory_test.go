package factory

import (
	"errors"
	"testing"
	"time"
)

type sample struct{ A int }

type sampleConf struct {
	A       int           `json:"a"`
	Timeout time.Duration `json:"timeout"`
}

// Test registry registration and instantiation using Decode.
func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry[*sample]()
	if err := reg.Register("s", func(conf map[string]any) (*sample, error) {
		var c sampleConf
		if err := Decode(conf, &c); err != nil {
			return nil, err
		}
		return &sample{A: c.A}, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	inst, err := reg.Create(ModuleConfig{Type: "s", Conf: map[string]any{"a": 3}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inst.A != 3 {
		t.Fatalf("expected 3 got %d", inst.A)
	}
}

// Test duplicate registration and unknown type errors.
func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry[int]()
	if err := reg.Register("x", func(map[string]any) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("x", func(map[string]any) (int, error) { return 2, nil }); err == nil {
		t.Fatal("expected duplicate error")
	}
	if err := reg.Register("z", nil); err == nil {
		t.Fatal("expected nil factory error")
	}
	if _, err := reg.Create(ModuleConfig{Type: "y"}); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType got %v", err)
	}
	if err := reg.Register("fail", func(map[string]any) (int, error) { return 0, errors.New("bad conf") }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := reg.Create(ModuleConfig{Type: "fail"}); err == nil || err.Error() != "fail: bad conf" {
		t.Fatalf("unexpected error %v", err)
	}
	names := reg.Names()
	if len(names) != 2 || names[0] != "fail" || names[1] != "x" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestDecodeWeakTypes(t *testing.T) {
	var c sampleConf
	if err := Decode(map[string]any{"a": "7", "timeout": "1500ms"}, &c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.A != 7 || c.Timeout != 1500*time.Millisecond {
		t.Fatalf("unexpected decode %+v", c)
	}
}
