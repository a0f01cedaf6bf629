package decode

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/jon4hz/sweepbox/internal/config"
)

// ErrDecode is returned when the input is not a single acceptable CBOR data item.
var ErrDecode = errors.New("decode failure")

// unrestrictedMaxNesting is the nesting limit in unrestricted mode.
const unrestrictedMaxNesting = 1024

// Result describes a decoded object graph.
type Result struct {
	// Type is the Go dynamic type of the decoded value.
	Type string `json:"type"`
	// Value is the string form of the decoded value.
	Value string `json:"value"`
}

// Decoder turns a raw CBOR data item into an in-memory value.
type Decoder struct {
	mode     config.DeserializeMode
	maxDepth int
	dm       cbor.DecMode
}

// New creates a decoder for the given mode.
//
// In strict mode tags, indefinite lengths and duplicate map keys are rejected,
// integers decode as int64, maps must be keyed by strings and the result may
// only contain nil, bool, int64, float64, string, []any and map[string]any.
// Unrestricted mode reconstructs whatever the CBOR decoder supports, including
// tagged values, byte strings, big numbers and maps with arbitrary keys.
func New(mode config.DeserializeMode, maxDepth int) (*Decoder, error) {
	var opts cbor.DecOptions
	switch mode {
	case config.DeserializeModeStrict:
		if maxDepth <= 0 {
			return nil, fmt.Errorf("max depth must be greater than 0")
		}
		opts = cbor.DecOptions{
			DupMapKey:       cbor.DupMapKeyEnforcedAPF,
			IndefLength:     cbor.IndefLengthForbidden,
			TagsMd:          cbor.TagsForbidden,
			IntDec:          cbor.IntDecConvertSigned,
			MaxNestedLevels: max(maxDepth, 4),
			DefaultMapType:  reflect.TypeOf(map[string]any(nil)),
			UTF8:            cbor.UTF8RejectInvalid,
		}
	case config.DeserializeModeUnrestricted:
		opts = cbor.DecOptions{
			MaxNestedLevels: unrestrictedMaxNesting,
			UTF8:            cbor.UTF8DecodeInvalid,
			BigIntDec:       cbor.BigIntDecodePointer,
		}
	default:
		return nil, fmt.Errorf("unknown deserialize mode %q", mode)
	}

	dm, err := opts.DecMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR decoder: %w", err)
	}

	return &Decoder{mode: mode, maxDepth: maxDepth, dm: dm}, nil
}

// Decode decodes raw as exactly one CBOR data item and describes the result.
func (d *Decoder) Decode(raw []byte) (Result, error) {
	var v any
	if err := d.dm.Unmarshal(raw, &v); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if d.mode == config.DeserializeModeStrict {
		if err := checkAllowed(v, 0, d.maxDepth); err != nil {
			return Result{}, fmt.Errorf("%w: %w", ErrDecode, err)
		}
	}

	return Result{
		Type:  fmt.Sprintf("%T", v),
		Value: fmt.Sprint(v),
	}, nil
}

// checkAllowed walks v and rejects disallowed types or more than maxDepth nested containers.
func checkAllowed(v any, depth, maxDepth int) error {
	switch t := v.(type) {
	case nil, bool, int64, float64, string:
		return nil
	case []any:
		if depth+1 > maxDepth {
			return fmt.Errorf("nesting exceeds %d levels", maxDepth)
		}
		for _, e := range t {
			if err := checkAllowed(e, depth+1, maxDepth); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		if depth+1 > maxDepth {
			return fmt.Errorf("nesting exceeds %d levels", maxDepth)
		}
		for _, e := range t {
			if err := checkAllowed(e, depth+1, maxDepth); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("type %T is not allowed", v)
	}
}
