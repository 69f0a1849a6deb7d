package patch

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// DestinationID is the reserved node id of the context destination.
const DestinationID = "destination"

var (
	// ErrUnknownNodeType reports a node type with no registered factory.
	ErrUnknownNodeType = errors.New("patch: unknown node type")

	// ErrUnknownNode reports a connection endpoint that names no node.
	ErrUnknownNode = errors.New("patch: unknown node")

	// ErrInvalidNode reports a node entry with a missing, duplicate or
	// reserved id, or a missing type.
	ErrInvalidNode = errors.New("patch: invalid node")
)

// graphNode is a JSON-serializable node of a patch.
type graphNode struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Params any    `json:"params"`
}

// graphConnection is a JSON-serializable connection between two patch nodes.
type graphConnection struct {
	From          string `json:"from"`
	To            string `json:"to"`
	FromPortIndex int    `json:"fromPortIndex,omitempty"` //nolint:tagliatelle
	ToPortIndex   int    `json:"toPortIndex,omitempty"`   //nolint:tagliatelle
}

// graphState is the root JSON structure of a patch.
type graphState struct {
	Nodes       []graphNode       `json:"nodes"`
	Connections []graphConnection `json:"connections"`
}

// Connection connects output FromPort of node From to input ToPort of node To.
type Connection struct {
	From     string
	To       string
	FromPort int
	ToPort   int
}

// Patch is a parsed, validated graph description. Nodes keep the order in
// which they were declared.
type Patch struct {
	Nodes       []Params
	Connections []Connection
}

// Parse reads a JSON patch from r.
func Parse(r io.Reader) (*Patch, error) {
	var state graphState

	err := json.NewDecoder(r).Decode(&state)
	if err != nil {
		return nil, fmt.Errorf("patch: invalid json: %w", err)
	}

	return compile(state)
}

// ParseString parses a JSON patch held in a string.
func ParseString(raw string) (*Patch, error) {
	var state graphState

	err := json.Unmarshal([]byte(raw), &state)
	if err != nil {
		return nil, fmt.Errorf("patch: invalid json: %w", err)
	}

	return compile(state)
}

func compile(state graphState) (*Patch, error) {
	p := &Patch{Nodes: make([]Params, 0, len(state.Nodes))}

	seen := make(map[string]bool, len(state.Nodes)+1)
	seen[DestinationID] = true

	for i, n := range state.Nodes {
		switch {
		case n.ID == "":
			return nil, fmt.Errorf("%w: node %d has no id", ErrInvalidNode, i)
		case n.ID == DestinationID:
			return nil, fmt.Errorf("%w: id %q is reserved", ErrInvalidNode, n.ID)
		case seen[n.ID]:
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidNode, n.ID)
		case n.Type == "":
			return nil, fmt.Errorf("%w: node %q has no type", ErrInvalidNode, n.ID)
		}

		seen[n.ID] = true

		num, str, list := parseNodeParams(n.Params)
		p.Nodes = append(p.Nodes, Params{
			ID:   n.ID,
			Type: n.Type,
			Num:  num,
			Str:  str,
			List: list,
		})
	}

	p.Connections = make([]Connection, 0, len(state.Connections))

	for _, c := range state.Connections {
		if !seen[c.From] {
			return nil, fmt.Errorf("%w: %q", ErrUnknownNode, c.From)
		}

		if !seen[c.To] {
			return nil, fmt.Errorf("%w: %q", ErrUnknownNode, c.To)
		}

		p.Connections = append(p.Connections, Connection{
			From:     c.From,
			To:       c.To,
			FromPort: c.FromPortIndex,
			ToPort:   c.ToPortIndex,
		})
	}

	return p, nil
}
