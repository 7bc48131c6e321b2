package canvas

import (
	"encoding/json"

	"github.com/MKhiriev/go-canvas-vault/models"
)

// jsonStateCodec serializes canvas state as JSON. encoding/json emits struct
// fields in declaration order and map keys sorted, so equal states encode to
// equal bytes and the content hash stays stable across re-encodings.
type jsonStateCodec struct{}

// NewJSONStateCodec returns the default [StateCodec].
func NewJSONStateCodec() StateCodec {
	return &jsonStateCodec{}
}

// Encode implements [StateCodec].
func (c *jsonStateCodec) Encode(state models.CanvasState) ([]byte, error) {
	return json.Marshal(state)
}

// Decode implements [StateCodec].
func (c *jsonStateCodec) Decode(data []byte) (models.CanvasState, error) {
	var state models.CanvasState
	if err := json.Unmarshal(data, &state); err != nil {
		return models.CanvasState{}, err
	}
	return state, nil
}
