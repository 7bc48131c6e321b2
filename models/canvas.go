package models

// Position places a node on the canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one widget on the canvas graph.
type Node struct {
	// ID is the unique identifier of the node within its document.
	ID string `json:"id"`

	// Kind names the widget type rendered for this node
	// (e.g. "note", "terminal", "chart").
	Kind string `json:"kind"`

	// Label is the display title.
	Label string `json:"label,omitempty"`

	// Position is the node's placement on the canvas.
	Position Position `json:"position"`

	// Data holds widget-specific payload; opaque to this layer.
	Data map[string]any `json:"data,omitempty"`
}

// Edge connects two nodes on the canvas graph.
type Edge struct {
	ID    string `json:"id"`
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// CanvasState is the structured document state protected by the document
// manager: a node/edge graph produced and consumed by the rendering layer.
type CanvasState struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Clone returns a deep copy of the state so transforms can mutate freely
// without aliasing cached plaintext.
func (s CanvasState) Clone() CanvasState {
	out := CanvasState{
		Nodes: make([]Node, len(s.Nodes)),
		Edges: make([]Edge, len(s.Edges)),
	}
	copy(out.Edges, s.Edges)
	for i, n := range s.Nodes {
		cn := n
		if n.Data != nil {
			cn.Data = make(map[string]any, len(n.Data))
			for k, v := range n.Data {
				cn.Data[k] = v
			}
		}
		out.Nodes[i] = cn
	}
	return out
}

// FindNode returns the index of the node with the given id, or -1.
func (s CanvasState) FindNode(id string) int {
	for i, n := range s.Nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}
