// Package codec centralizes record encoding for persisted artifacts.
//
// Record artifacts store the codec id in their header, so an artifact written
// with one codec is always decoded with the same codec on load.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ID is the stable one-byte identifier written into artifact headers.
type ID uint8

const (
	// IDJSON identifies JSON.
	IDJSON ID = 1
	// IDGoJSON identifies GoJSON.
	IDGoJSON ID = 2
)

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json", "gojson":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// ByID returns the codec for a header id.
func ByID(id ID) (Codec, bool) {
	switch id {
	case IDJSON:
		return JSON{}, true
	case IDGoJSON:
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// IDOf returns the header id for a built-in codec.
func IDOf(c Codec) (ID, error) {
	switch c.Name() {
	case "json":
		return IDJSON, nil
	case "go-json":
		return IDGoJSON, nil
	default:
		return 0, fmt.Errorf("codec: %q has no artifact id", c.Name())
	}
}

// Default is the codec used for newly built artifacts.
var Default Codec = GoJSON{}
