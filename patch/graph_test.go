package patch

import (
	"errors"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	p, err := ParseString(`{
		"nodes": [
			{"id": "src", "type": "buffer-source", "params": {"samples": [1, 0.5], "loop": true, "file": "x.wav"}},
			{"id": "iir", "type": "iir", "params": {"feedforward": [0.5], "feedback": [1, -0.5], "bad": [1, "a"]}}
		],
		"connections": [
			{"from": "src", "to": "iir"},
			{"from": "iir", "to": "destination", "toPortIndex": 0}
		]
	}`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	if len(p.Nodes) != 2 || p.Nodes[0].ID != "src" || p.Nodes[1].ID != "iir" {
		t.Fatalf("nodes = %+v", p.Nodes)
	}

	src := p.Nodes[0]
	if src.GetNum("loop", 0) != 1 {
		t.Errorf("loop = %v, want 1", src.GetNum("loop", 0))
	}

	if src.GetStr("file", "") != "x.wav" {
		t.Errorf("file = %q", src.GetStr("file", ""))
	}

	if got := src.GetList("samples"); len(got) != 2 || got[1] != 0.5 {
		t.Errorf("samples = %v", got)
	}

	if _, ok := p.Nodes[1].List["bad"]; ok {
		t.Error("mixed array kept")
	}

	want := []Connection{{From: "src", To: "iir"}, {From: "iir", To: DestinationID}}
	if len(p.Connections) != len(want) {
		t.Fatalf("connections = %+v", p.Connections)
	}

	for i := range want {
		if p.Connections[i] != want[i] {
			t.Errorf("connection %d = %+v, want %+v", i, p.Connections[i], want[i])
		}
	}
}

func TestParseAllowsCycles(t *testing.T) {
	_, err := ParseString(`{
		"nodes": [{"id": "a", "type": "gain"}, {"id": "b", "type": "gain"}],
		"connections": [{"from": "a", "to": "b"}, {"from": "b", "to": "a"}]
	}`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"unknown source", `{"nodes": [{"id": "a", "type": "gain"}], "connections": [{"from": "x", "to": "a"}]}`, ErrUnknownNode},
		{"unknown target", `{"nodes": [{"id": "a", "type": "gain"}], "connections": [{"from": "a", "to": "x"}]}`, ErrUnknownNode},
		{"missing id", `{"nodes": [{"type": "gain"}]}`, ErrInvalidNode},
		{"missing type", `{"nodes": [{"id": "a"}]}`, ErrInvalidNode},
		{"duplicate id", `{"nodes": [{"id": "a", "type": "gain"}, {"id": "a", "type": "gain"}]}`, ErrInvalidNode},
		{"reserved id", `{"nodes": [{"id": "destination", "type": "gain"}]}`, ErrInvalidNode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.raw)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse(strings.NewReader("{nodes"))
	if err == nil {
		t.Fatal("expected error for invalid json")
	}
}

func TestParamsGetNum(t *testing.T) {
	p := Params{Num: map[string]float64{"a": 2}}

	if got := p.GetNum("a", 1); got != 2 {
		t.Errorf("GetNum(a) = %v, want 2", got)
	}

	if got := p.GetNum("b", 1); got != 1 {
		t.Errorf("GetNum(b) = %v, want 1", got)
	}

	if got := (Params{}).GetNum("a", 3); got != 3 {
		t.Errorf("GetNum on empty = %v, want 3", got)
	}
}
