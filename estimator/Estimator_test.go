package estimator

import (
	"errors"
	"math"
	"testing"

	"github.com/samuelfneumann/goppo/buffer/trajectory"
	ts "github.com/samuelfneumann/goppo/timestep"
)

const tolerance = 1e-12

// newTrajectory returns a buffer whose transition t has reward
// rewards[t] and state [values[t], 0, 0], so that a critic returning
// the first state feature predicts values[t]
func newTrajectory(t *testing.T, rewards, values []float64) *trajectory.Buffer {
	t.Helper()

	b, err := trajectory.New(len(rewards))
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range rewards {
		v := 0.0
		if values != nil {
			v = values[i]
		}
		tr := ts.Transition{
			State:     []float64{v, 0, 0},
			Action:    0,
			Reward:    r,
			NextState: []float64{0, 0, 0},
		}
		if err := b.Append(tr); err != nil {
			t.Fatal(err)
		}
	}
	return b
}

var firstFeature = CriticFunc(func(state []float64) (float64, error) {
	return state[0], nil
})

var zeroCritic = CriticFunc(func([]float64) (float64, error) {
	return 0, nil
})

func TestRewardToGo(t *testing.T) {
	b := newTrajectory(t, []float64{1.0, 2.0, 3.0}, nil)

	tests := []struct {
		from int
		want float64
	}{
		{0, 1.0 + 2.0*0.9 + 3.0*0.81},
		{1, 2.0*0.9 + 3.0*0.81},
		{2, 3.0 * 0.81},
		{3, 0.0},
	}

	for _, test := range tests {
		have, err := RewardToGo(b, test.from, 0.9)
		if err != nil {
			t.Fatalf("rewardToGo(%v): %v", test.from, err)
		}
		if math.Abs(have-test.want) > tolerance {
			t.Errorf("rewardToGo(%v): want(%v) have(%v)", test.from,
				test.want, have)
		}
	}
}

func TestRewardToGoEmptyRange(t *testing.T) {
	for _, rewards := range [][]float64{{5}, {-1, 2}, {1, 2, 3, 4}} {
		b := newTrajectory(t, rewards, nil)
		have, err := RewardToGo(b, b.Len(), 0.99)
		if err != nil {
			t.Fatal(err)
		}
		if have != 0 {
			t.Errorf("rewardToGo(len): want(0) have(%v)", have)
		}
	}
}

func TestRewardToGoOutOfRange(t *testing.T) {
	b := newTrajectory(t, []float64{1, 2}, nil)
	for _, from := range []int{-1, 3} {
		_, err := RewardToGo(b, from, 0.9)
		if !errors.Is(err, trajectory.ErrIndexOutOfRange) {
			t.Errorf("rewardToGo(%v): want ErrIndexOutOfRange have %v",
				from, err)
		}
	}
}

func TestRelativeRewardToGo(t *testing.T) {
	b := newTrajectory(t, []float64{1.0, 2.0, 3.0}, nil)

	have, err := RelativeRewardToGo(b, 1, 0.9)
	if err != nil {
		t.Fatal(err)
	}
	if want := 2.0 + 3.0*0.9; math.Abs(have-want) > tolerance {
		t.Errorf("relativeRewardToGo(1): want(%v) have(%v)", want, have)
	}

	// Both discounting modes agree from timestep 0
	abs, _ := RewardToGo(b, 0, 0.9)
	rel, _ := RelativeRewardToGo(b, 0, 0.9)
	if math.Abs(abs-rel) > tolerance {
		t.Errorf("rewardToGo(0) %v != relativeRewardToGo(0) %v", abs, rel)
	}

	empty, err := RelativeRewardToGo(b, 3, 0.9)
	if err != nil || empty != 0 {
		t.Errorf("relativeRewardToGo(len): want(0, nil) have(%v, %v)",
			empty, err)
	}
}

func TestAdvantageFromZero(t *testing.T) {
	b := newTrajectory(t, []float64{1, -2, 3}, []float64{10, 20, 30})

	for _, c := range []Critic{zeroCritic, firstFeature} {
		have, err := Advantage(b, c, 0, 0.99)
		if err != nil {
			t.Fatal(err)
		}
		if have != 0 {
			t.Errorf("advantage(0): want(0) have(%v)", have)
		}
	}
}

func TestAdvantageZeroCritic(t *testing.T) {
	rewards := []float64{1.0, 2.0, 3.0}
	b := newTrajectory(t, rewards, nil)

	want := 0.0
	for k := 1; k < len(rewards); k++ {
		want += rewards[k-1]
		have, err := Advantage(b, zeroCritic, k, 0.9)
		if err != nil {
			t.Fatalf("advantage(%v): %v", k, err)
		}
		if math.Abs(have-want) > tolerance {
			t.Errorf("advantage(%v): want(%v) have(%v)", k, want, have)
		}
	}
}

func TestAdvantageTDResiduals(t *testing.T) {
	b := newTrajectory(t, []float64{1, 2, 3}, []float64{0.5, 1.0, -1.0})

	// t = 1: 2 + 0.9 * -1.0 - 1.0 = 0.1
	// t = 0: 1 + 0.9 *  1.0 - 0.5 = 1.4
	have, err := Advantage(b, firstFeature, 2, 0.9)
	if err != nil {
		t.Fatal(err)
	}
	if want := 1.5; math.Abs(have-want) > 1e-9 {
		t.Errorf("advantage(2): want(%v) have(%v)", want, have)
	}
}

func TestAdvantageNeedsNextValue(t *testing.T) {
	b := newTrajectory(t, []float64{1, 2, 3}, nil)
	_, err := Advantage(b, zeroCritic, 3, 0.9)
	if !errors.Is(err, trajectory.ErrIndexOutOfRange) {
		t.Errorf("advantage(len): want ErrIndexOutOfRange have %v", err)
	}
}

func TestAdvantageCriticError(t *testing.T) {
	b := newTrajectory(t, []float64{1, 2}, nil)
	errCritic := errors.New("critic failed")
	failing := CriticFunc(func([]float64) (float64, error) {
		return 0, errCritic
	})

	if _, err := Advantage(b, failing, 1, 0.9); !errors.Is(err, errCritic) {
		t.Errorf("advantage: want critic error have %v", err)
	}
}

func TestValuesOrder(t *testing.T) {
	b := newTrajectory(t, []float64{0, 0, 0}, []float64{3, 1, 2})

	var calls []float64
	recorder := CriticFunc(func(state []float64) (float64, error) {
		calls = append(calls, state[0])
		return state[0], nil
	})

	values, err := Values(b, recorder)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{3, 1, 2}
	for i := range want {
		if values[i] != want[i] || calls[i] != want[i] {
			t.Fatalf("values: want(%v) have(%v), calls(%v)", want, values,
				calls)
		}
	}
}

func TestDiscountCumSum(t *testing.T) {
	have := DiscountCumSum([]float64{1, 2, 3}, 0.5)
	want := []float64{2.75, 3.5, 3}

	for i := range want {
		if math.Abs(have[i]-want[i]) > tolerance {
			t.Errorf("discountCumSum: want(%v) have(%v)", want, have)
			break
		}
	}

	if len(DiscountCumSum(nil, 0.5)) != 0 {
		t.Error("discountCumSum: want empty result for empty input")
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		gamma float64
		d     Discounting
		ok    bool
	}{
		{0.99, Absolute, true},
		{1.0, Relative, true},
		{0, Absolute, false},
		{1.01, Absolute, false},
		{-0.5, Relative, false},
		{0.9, Discounting("other"), false},
	}

	for _, test := range tests {
		_, err := New(test.gamma, test.d)
		if (err == nil) != test.ok {
			t.Errorf("new(%v, %v): want ok=%v have err=%v", test.gamma,
				test.d, test.ok, err)
		}
	}
}

func TestEstimatorDiscounting(t *testing.T) {
	b := newTrajectory(t, []float64{1, 1}, nil)

	abs, _ := New(0.5, Absolute)
	rel, _ := New(0.5, Relative)

	a, _ := abs.RewardToGo(b, 1)
	r, _ := rel.RewardToGo(b, 1)
	if a != 0.5 || r != 1 {
		t.Errorf("rewardToGo(1): want absolute(0.5) relative(1) have "+
			"absolute(%v) relative(%v)", a, r)
	}
}
