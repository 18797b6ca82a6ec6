package domain

import (
	"encoding/json"
	"maps"
	"reflect"
	"slices"
)

// Payload is the type-specific data carried by a node.
// Concrete shapes: SectionData, ModelData, CompilerData, DesignSystemData,
// HypothesisData, VariantData, CritiqueData and UnknownData.
type Payload interface {
	clone() Payload
}

// SectionData is the payload shared by the five section inputs.
type SectionData struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// ModelData selects the provider and model used by attached processing nodes.
type ModelData struct {
	Provider    string  `json:"provider,omitempty"`
	Model       string  `json:"model,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// CompilerData is the payload of a compiler node.
type CompilerData struct {
	Title     string `json:"title,omitempty"`
	LastRunID string `json:"lastRunId,omitempty"`
}

// DesignSystemData carries design tokens and guidelines.
type DesignSystemData struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// HypothesisData binds a hypothesis node to a strategy.
type HypothesisData struct {
	StrategyID string `json:"strategyId"`
	Name       string `json:"name,omitempty"`
	Rationale  string `json:"rationale,omitempty"`
}

// VariantData is the version stack of one strategy's results.
type VariantData struct {
	StrategyID     string   `json:"strategyId"`
	ActiveResultID string   `json:"activeResultId,omitempty"`
	Versions       []string `json:"versions,omitempty"`
	// PinnedRunID marks an archived copy detached from live generation.
	PinnedRunID string `json:"pinnedRunId,omitempty"`
}

// CritiqueData carries review notes on a variant.
type CritiqueData struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// UnknownData keeps the raw payload of node types outside the taxonomy so
// legacy graphs survive a load and save round trip.
type UnknownData map[string]any

func (d SectionData) clone() Payload      { return d }
func (d ModelData) clone() Payload        { return d }
func (d CompilerData) clone() Payload     { return d }
func (d DesignSystemData) clone() Payload { return d }
func (d HypothesisData) clone() Payload   { return d }
func (d CritiqueData) clone() Payload     { return d }
func (d UnknownData) clone() Payload      { return UnknownData(maps.Clone(map[string]any(d))) }

func (d VariantData) clone() Payload {
	d.Versions = slices.Clone(d.Versions)
	return d
}

// ClonePayload returns a copy of p that shares no slices or maps with it.
func ClonePayload(p Payload) Payload {
	if p == nil {
		return nil
	}
	return p.clone()
}

// Archived reports whether the variant is a pinned copy of a past run.
func (d VariantData) Archived() bool {
	return d.PinnedRunID != ""
}

// Push makes resultID the active version, appending it to the history when new.
func (d VariantData) Push(resultID string) VariantData {
	d = d.clone().(VariantData)
	if !slices.Contains(d.Versions, resultID) {
		d.Versions = append(d.Versions, resultID)
	}
	d.ActiveResultID = resultID
	return d
}

// NewPayload returns the empty payload for t.
func NewPayload(t NodeType) Payload {
	switch {
	case t.IsSection():
		return SectionData{}
	case t == NodeModel:
		return ModelData{}
	case t == NodeCompiler:
		return CompilerData{}
	case t == NodeDesignSystem:
		return DesignSystemData{}
	case t == NodeHypothesis:
		return HypothesisData{}
	case t == NodeVariant:
		return VariantData{}
	case t == NodeCritique:
		return CritiqueData{}
	}
	return UnknownData{}
}

// PayloadFits reports whether p has the payload shape of node type t.
func PayloadFits(t NodeType, p Payload) bool {
	return reflect.TypeOf(p) == reflect.TypeOf(NewPayload(t))
}

// DecodePayloadJSON decodes raw into the payload shape of t.
// An empty raw message yields the empty payload.
func DecodePayloadJSON(t NodeType, raw json.RawMessage) (Payload, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return NewPayload(t), nil
	}
	switch NewPayload(t).(type) {
	case SectionData:
		return decodeInto[SectionData](raw)
	case ModelData:
		return decodeInto[ModelData](raw)
	case CompilerData:
		return decodeInto[CompilerData](raw)
	case DesignSystemData:
		return decodeInto[DesignSystemData](raw)
	case HypothesisData:
		return decodeInto[HypothesisData](raw)
	case VariantData:
		return decodeInto[VariantData](raw)
	case CritiqueData:
		return decodeInto[CritiqueData](raw)
	}
	return decodeInto[UnknownData](raw)
}

func decodeInto[T Payload](raw json.RawMessage) (Payload, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
