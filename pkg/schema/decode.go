package schema

import (
	"fmt"
	"reflect"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

func newDecoder(target any, strict bool) (*mapstructure.Decoder, error) {
	return mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           target,
		ErrorUnused:      strict,
		ZeroFields:       strict,
		WeaklyTypedInput: !strict,
		DecodeHook:       NodeHook(),
	})
}

// Merge validates partial against the schema of t and applies it on top of p.
// Fields absent from partial keep their current value.
func Merge(t domain.NodeType, p domain.Payload, partial map[string]any) (domain.Payload, error) {
	s := For(t)
	if s == nil {
		return nil, fmt.Errorf("%s: %w", t, ErrNoSchema)
	}
	if err := ValidatePartial(s, partial); err != nil {
		return nil, err
	}
	if p == nil {
		p = domain.NewPayload(t)
	}
	p = domain.ClonePayload(p)

	// Decode onto a pointer to a copy of the current value.
	target := reflect.New(reflect.TypeOf(p))
	target.Elem().Set(reflect.ValueOf(p))
	dec, err := newDecoder(target.Interface(), true)
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(partial); err != nil {
		return nil, fmt.Errorf("merge %s payload: %w", t, err)
	}
	merged, ok := target.Elem().Interface().(domain.Payload)
	if !ok {
		return nil, fmt.Errorf("merge %s payload: unexpected %T", t, target.Elem().Interface())
	}
	return merged, nil
}

// DecodePayload converts an untyped payload map into the shape of t.
// Unknown keys are dropped and scalars are coerced where possible.
func DecodePayload(t domain.NodeType, raw map[string]any) (domain.Payload, error) {
	p := domain.NewPayload(t)
	if u, ok := p.(domain.UnknownData); ok {
		for k, v := range raw {
			u[k] = v
		}
		return u, nil
	}
	target := reflect.New(reflect.TypeOf(p))
	dec, err := newDecoder(target.Interface(), false)
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, err
	}
	return target.Elem().Interface().(domain.Payload), nil
}

// DecodeNode converts an untyped node map into a domain.Node.
func DecodeNode(raw map[string]any) (domain.Node, error) {
	var node domain.Node
	id, _ := raw["id"].(string)
	typ, _ := raw["type"].(string)
	if id == "" {
		return node, fmt.Errorf("node without id")
	}
	node.ID = id
	node.Type = domain.NodeType(typ)

	if pos, ok := raw["position"]; ok {
		if err := mapstructure.WeakDecode(pos, &node.Position); err != nil {
			return node, fmt.Errorf("node %s position: %w", id, err)
		}
	}
	if m, ok := raw["measured"].(map[string]any); ok {
		var size domain.Size
		if err := mapstructure.WeakDecode(m, &size); err != nil {
			return node, fmt.Errorf("node %s measured: %w", id, err)
		}
		node.Measured = &size
	}

	data, _ := raw["data"].(map[string]any)
	payload, err := DecodePayload(node.Type, data)
	if err != nil {
		return node, fmt.Errorf("node %s data: %w", id, err)
	}
	node.Data = payload
	return node, nil
}

// NodeHook is a mapstructure decode hook that builds domain.Node values
// from untyped maps, selecting the payload by node type.
func NodeHook() mapstructure.DecodeHookFuncType {
	nodeType := reflect.TypeOf(domain.Node{})
	return func(from, to reflect.Type, data any) (any, error) {
		if to != nodeType {
			return data, nil
		}
		raw, ok := data.(map[string]any)
		if !ok {
			return data, nil
		}
		return DecodeNode(raw)
	}
}

// DecodeSnapshot converts untyped current-version state into a Snapshot.
func DecodeSnapshot(state map[string]any) (*domain.Snapshot, error) {
	snap := domain.NewSnapshot()
	dec, err := newDecoder(snap, false)
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(state); err != nil {
		return nil, err
	}
	if snap.Nodes == nil {
		snap.Nodes = []domain.Node{}
	}
	if snap.Edges == nil {
		snap.Edges = []domain.Edge{}
	}
	if snap.DisplayFlags == nil {
		snap.DisplayFlags = map[string]bool{}
	}
	return snap, nil
}
