package reconcile

import (
	"fmt"
	"strings"

	"github.com/matzehuels/bicolour/pkg/colouring"
	"github.com/matzehuels/bicolour/pkg/graph"
)

// OpKind identifies a view operation.
type OpKind int

const (
	OpRemoveEdge OpKind = iota + 1
	OpRemoveVertex
	OpReplaceSnapshot
	OpAddVertex
	OpAddEdge
	OpRecolourVertex
)

var opNames = map[OpKind]string{
	OpRemoveEdge:      "remove_edge",
	OpRemoveVertex:    "remove_vertex",
	OpReplaceSnapshot: "replace_snapshot",
	OpAddVertex:       "add_vertex",
	OpAddEdge:         "add_edge",
	OpRecolourVertex:  "recolour_vertex",
}

// String returns the wire name of the kind.
func (k OpKind) String() string {
	if s, ok := opNames[k]; ok {
		return s
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k OpKind) MarshalText() ([]byte, error) {
	s, ok := opNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown op kind %d", int(k))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *OpKind) UnmarshalText(text []byte) error {
	for kind, name := range opNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown op kind %q", text)
}

// Op is a single view operation. Which fields are set depends on Kind:
//
//	RemoveEdge, RemoveVertex  ID
//	ReplaceSnapshot           Snapshot (not serialized)
//	AddVertex                 ID, Position (nil: view picks a place)
//	AddEdge                   ID, Source, Target
//	RecolourVertex            ID, Colour, Previous (empty for new vertices)
type Op struct {
	Kind     OpKind               `json:"op"`
	ID       string               `json:"id,omitempty"`
	Position *graph.Point         `json:"position,omitempty"`
	Source   string               `json:"source,omitempty"`
	Target   string               `json:"target,omitempty"`
	Colour   colouring.Colour     `json:"colour,omitempty"`
	Previous colouring.Colour     `json:"previous,omitempty"`
	Snapshot *colouring.Colouring `json:"-"`
}

// String renders the op for logs and debugging.
func (o Op) String() string {
	switch o.Kind {
	case OpAddEdge:
		return fmt.Sprintf("%s %s(%s-%s)", o.Kind, o.ID, o.Source, o.Target)
	case OpRecolourVertex:
		return fmt.Sprintf("%s %s %s->%s", o.Kind, o.ID, o.Previous, o.Colour)
	case OpReplaceSnapshot:
		return o.Kind.String()
	default:
		return fmt.Sprintf("%s %s", o.Kind, o.ID)
	}
}

// Summary counts operations by effect.
type Summary struct {
	Removed    int // edges and vertices removed
	Added      int // edges and vertices added
	Recoloured int
}

// Summarize counts ops.
func Summarize(ops []Op) Summary {
	var s Summary
	for _, o := range ops {
		switch o.Kind {
		case OpRemoveEdge, OpRemoveVertex:
			s.Removed++
		case OpAddEdge, OpAddVertex:
			s.Added++
		case OpRecolourVertex:
			s.Recoloured++
		}
	}
	return s
}

// Empty reports whether the ops change nothing visible.
func (s Summary) Empty() bool { return s == Summary{} }

func (s Summary) String() string {
	parts := []string{
		fmt.Sprintf("%d added", s.Added),
		fmt.Sprintf("%d removed", s.Removed),
		fmt.Sprintf("%d recoloured", s.Recoloured),
	}
	return strings.Join(parts, ", ")
}
