// Package initwfn implements functionality to describe Gorgonia InitWFn
// by name so that they can be chosen in configuration files.
package initwfn

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// Type describes different types of InitWFn that are available.
type Type string

// Available InitWFn types
const (
	GlorotU Type = "GlorotU"
	GlorotN Type = "GlorotN"
	HeU     Type = "HeU"
	HeN     Type = "HeN"
	Zeroes  Type = "Zeroes"
	Ones    Type = "Ones"
)

// InitWFn wraps a Gorgonia InitWFn together with the Type and gain
// that describe it. The gain is ignored by the Zeroes and Ones types.
type InitWFn struct {
	initWFn G.InitWFn
	Type
	Gain float64
}

// New returns a new InitWFn of type t with the given gain
func New(t Type, gain float64) (*InitWFn, error) {
	var fn G.InitWFn
	switch t {
	case GlorotU:
		fn = G.GlorotU(gain)
	case GlorotN:
		fn = G.GlorotN(gain)
	case HeU:
		fn = G.HeU(gain)
	case HeN:
		fn = G.HeN(gain)
	case Zeroes:
		fn = G.Zeroes()
	case Ones:
		fn = G.Ones()
	default:
		return nil, fmt.Errorf("new: no such InitWFn type %q", t)
	}

	return &InitWFn{initWFn: fn, Type: t, Gain: gain}, nil
}

// InitWFn returns the wrapped Gorgonia InitWFn
func (w *InitWFn) InitWFn() G.InitWFn {
	return w.initWFn
}

// String implements the fmt.Stringer interface
func (w *InitWFn) String() string {
	return fmt.Sprintf("{%v InitWFn: gain %v}", w.Type, w.Gain)
}
