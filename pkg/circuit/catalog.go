// Package circuit provides the schematic data model: the component catalog,
// placed elements and the circuit that owns them.
package circuit

import (
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when a kind identifier is not in the catalog.
var ErrUnknownKind = errors.New("unknown component kind")

// Kind describes a class of circuit component and its default geometry.
// Kinds are immutable; the catalog hands out shared pointers.
type Kind struct {
	ID        string
	Name      string
	Symbol    string
	Keyword   string // circuitikz keyword
	Width     float64
	Height    float64
	Terminals []Point // offsets from the element origin
}

// IsPath returns true if the kind is drawn between two ends.
func (k *Kind) IsPath() bool {
	return len(k.Terminals) > 1
}

// IsPoint returns true if the kind is placed at a single location.
func (k *Kind) IsPoint() bool {
	return len(k.Terminals) == 1
}

// Catalog identifiers.
const (
	KindResistor  = "resistor"
	KindCapacitor = "capacitor"
	KindInductor  = "inductor"
	KindVoltage   = "voltage"
	KindCurrent   = "current"
	KindGround    = "ground"
	KindWire      = "wire"
	KindNode      = "node"
)

// catalog lists every kind in palette order.
var catalog = []*Kind{
	{
		ID: KindResistor, Name: "Resistor", Symbol: "R", Keyword: "resistor",
		Width: 60, Height: 20,
		Terminals: []Point{{0, 0}, {60, 0}},
	},
	{
		ID: KindCapacitor, Name: "Capacitor", Symbol: "C", Keyword: "capacitor",
		Width: 40, Height: 30,
		Terminals: []Point{{0, 0}, {40, 0}},
	},
	{
		ID: KindInductor, Name: "Inductor", Symbol: "L", Keyword: "inductor",
		Width: 60, Height: 25,
		Terminals: []Point{{0, 0}, {60, 0}},
	},
	{
		ID: KindVoltage, Name: "Voltage Source", Symbol: "V", Keyword: "voltage source",
		Width: 40, Height: 40,
		Terminals: []Point{{0, 0}, {40, 0}},
	},
	{
		ID: KindCurrent, Name: "Current Source", Symbol: "I", Keyword: "current source",
		Width: 40, Height: 40,
		Terminals: []Point{{0, 0}, {40, 0}},
	},
	{
		ID: KindGround, Name: "Ground", Symbol: "⏚", Keyword: "ground",
		Width: 30, Height: 30,
		Terminals: []Point{{15, 0}},
	},
	{
		ID: KindWire, Name: "Wire", Symbol: "—", Keyword: "short",
		Width: 40, Height: 2,
		Terminals: []Point{{0, 0}, {40, 0}},
	},
	{
		ID: KindNode, Name: "Node", Symbol: "•", Keyword: "node",
		Width: 8, Height: 8,
		Terminals: []Point{{4, 4}},
	},
}

var catalogIndex = func() map[string]*Kind {
	idx := make(map[string]*Kind, len(catalog))
	for _, k := range catalog {
		idx[k.ID] = k
	}
	return idx
}()

// Lookup returns the kind registered under id.
func Lookup(id string) (*Kind, error) {
	k, ok := catalogIndex[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, id)
	}
	return k, nil
}

// Kinds returns every catalog kind in palette order.
func Kinds() []*Kind {
	out := make([]*Kind, len(catalog))
	copy(out, catalog)
	return out
}

// IsPathKind returns true if id names a kind with more than one terminal.
func IsPathKind(id string) bool {
	k, err := Lookup(id)
	return err == nil && k.IsPath()
}

// IsPointKind returns true if id names a kind with exactly one terminal.
func IsPointKind(id string) bool {
	k, err := Lookup(id)
	return err == nil && k.IsPoint()
}
