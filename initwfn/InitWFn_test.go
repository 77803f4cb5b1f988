package initwfn

import (
	"testing"

	"gorgonia.org/tensor"
)

func TestNew(t *testing.T) {
	types := []Type{GlorotU, GlorotN, HeU, HeN, Zeroes, Ones}

	for _, typ := range types {
		init, err := New(typ, 1.0)
		if err != nil {
			t.Errorf("new %v: %v", typ, err)
			continue
		}
		if init.Type != typ {
			t.Errorf("new: want type %v have %v", typ, init.Type)
		}

		weights := init.InitWFn()(tensor.Float64, 3, 2)
		if w, ok := weights.([]float64); !ok || len(w) != 6 {
			t.Errorf("%v: expected 6 float64 weights but got %v", typ,
				weights)
		}
	}
}

func TestNewConstant(t *testing.T) {
	ones, err := New(Ones, 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range ones.InitWFn()(tensor.Float64, 2, 2).([]float64) {
		if w != 1 {
			t.Errorf("ones: want 1 have %v", w)
		}
	}
}

func TestNewUnknown(t *testing.T) {
	if _, err := New("Xavier", 1); err == nil {
		t.Error("new: expected error on unknown type")
	}
}
