package exprlang_test

import (
	"math"
	"testing"

	"github.com/nxengine/nx_player/exprlang"
)

var evalTests = []struct {
	text     string
	t        float64
	expected float64
}{
	{"t*0.25", 4.0, 1.0},
	{"t*0.25", 0.0, 0.0},
	{"sin(t*2)+1", 0.0, 1.0},
	{"sin(t)", math.Pi / 2, 1.0},
	{"cos(0)", 123.0, 1.0},
	{"-t+1", 0.5, 0.5},
	{"(t+1)*0.5", 3.0, 2.0},
	{"2/4", 0.0, 0.5},
	{"1-2-3", 0.0, -4.0},
	{"2+2*2", 0.0, 6.0},
	{"max(0.2, t)", 0.0, 0.2},
	{"max(0.2, t)", 1.0, 1.0},
	{"min(t, 2)", 5.0, 2.0},
	{"pow(t, 2)", 3.0, 9.0},
	{"fract(t)", 1.75, 0.75},
	{"abs(-t)", 2.0, 2.0},
	{"floor(t)", 1.9, 1.0},
	{"ceil(t)", 1.1, 2.0},
	{"sqrt(t)", 16.0, 4.0},
	{"pi", 0.0, math.Pi},
	{"t*pi/2", 1.0, math.Pi / 2},
}

func TestEval(t *testing.T) {
	for _, test := range evalTests {
		e, err := exprlang.Compile(test.text)
		if err != nil {
			t.Errorf("Compile(%q): %v", test.text, err)
			continue
		}
		if got := e.Eval(test.t); math.Abs(got-test.expected) > 1e-9 {
			t.Errorf("Eval(%q, t=%v) = %v; expected %v",
				test.text, test.t, got, test.expected)
		}
	}
}

var compileErrorTests = []string{
	"",
	"   ",
	"t t",
	"x+1",
	"foo(t)",
	"sin()",
	"sin(t",
	"min(t)",
	"1 +",
	"()",
	"t @ 2",
}

func TestCompileErrors(t *testing.T) {
	for _, text := range compileErrorTests {
		if _, err := exprlang.Compile(text); err == nil {
			t.Errorf("Compile(%q): expected error", text)
		}
	}
}

// Expressions get evaluated per frame, so a compiled tree must be
// reusable across time samples.
func TestCompileOnceEvalMany(t *testing.T) {
	e, err := exprlang.Compile("t*0.5")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 8; i++ {
		tm := float64(i)
		if got := e.Eval(tm); math.Abs(got-tm*0.5) > 1e-9 {
			t.Errorf("Eval(t=%v) = %v; expected %v", tm, got, tm*0.5)
		}
	}
}
