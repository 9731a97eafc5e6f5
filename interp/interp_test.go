// ----------------------------------------------------------------------------
// FILE: interp/interp_test.go
// PURPOSE: End-to-end interpreter scenarios (spec.md §8).
// ----------------------------------------------------------------------------
package interp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"chif/lexer"
	"chif/parser"
)

func run(t *testing.T, src string) string {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	program := p.ParseProgram()
	require.Empty(t, p.Errors())

	var out bytes.Buffer
	interp := New(program, ".")
	interp.SetStdout(&out)
	require.NoError(t, interp.Run())
	return out.String()
}

func TestHelloWorld(t *testing.T) {
	out := run(t, `chif main() { con.out("Hello"); }`)
	require.Equal(t, "Hello\n", out)
}

func TestArithmeticPrecedence(t *testing.T) {
	out := run(t, `chif main() { con.out(2 + 3 * 4); }`)
	require.Equal(t, "14\n", out)
}

func TestFunctionCall(t *testing.T) {
	out := run(t, `
		fn add(a: int, b: int) int { ret a + b; }
		chif main() { con.out(add(2,3)); }
	`)
	require.Equal(t, "5\n", out)
}

func TestStructMutatingMethod(t *testing.T) {
	out := run(t, `
		struct P { x: int, y: int, }
		fn_for P {
			fn shift(self, dx: int, dy: int) {
				self.x = self.x + dx;
				self.y = self.y + dy;
			}
		}
		chif main() {
			var p: P = P{x=1,y=2};
			p.shift(3,4);
			con.out(p.x);
			con.out(p.y);
		}
	`)
	require.Equal(t, "4\n6\n", out)
}

func TestListMutation(t *testing.T) {
	out := run(t, `
		chif main() {
			list l: int = [1,2,3];
			l.add(4);
			l.addAt(0,0);
			con.out(l.len());
		}
	`)
	require.Equal(t, "5\n", out)
}

func TestPointerWriteBack(t *testing.T) {
	out := run(t, `
		fn inc(x: pointer[int]) { *x = *x + 1; }
		chif main() {
			var v: int = 10;
			inc(&v);
			con.out(v);
		}
	`)
	require.Equal(t, "11\n", out)
}

func TestStringInterpolation(t *testing.T) {
	out := run(t, `
		struct Point { x: int, y: int, }
		chif main() {
			var p: Point = Point{x=7,y=0};
			con.out("plain");
			con.out("{{x}}");
			con.out("{p.x}");
		}
	`)
	require.Equal(t, "plain\n{x}\n7\n", out)
}

func TestForLoopMergesHeaderVariable(t *testing.T) {
	out := run(t, `
		chif main() {
			for (var i: int = 0; i < 3; i = i + 1;) {
			}
			con.out(i);
		}
	`)
	require.Equal(t, "3\n", out)
}

func TestWhileLoopBreakAndContinue(t *testing.T) {
	out := run(t, `
		chif main() {
			var i: int = 0;
			var sum: int = 0;
			while (i < 10) {
				i = i + 1;
				if (i == 5) {
					continue;
				}
				if (i == 8) {
					break;
				}
				sum = sum + i;
			}
			con.out(sum);
		}
	`)
	require.Equal(t, "23\n", out)
}

func TestSwitchStatement(t *testing.T) {
	out := run(t, `
		chif main() {
			var x: int = 2;
			switch (x) {
				case 1 { con.out("one"); }
				case 2 { con.out("two"); }
				default { con.out("other"); }
			}
		}
	`)
	require.Equal(t, "two\n", out)
}

func TestImportResolution(t *testing.T) {
	l := lexer.New(`
		import "testdata/foo" as f;
		chif main() { con.out(f.bar()); }
	`)
	p := parser.New(l)
	program := p.ParseProgram()
	require.Empty(t, p.Errors())

	var out bytes.Buffer
	interp := New(program, ".")
	interp.SetStdout(&out)
	require.NoError(t, interp.Run())
	require.Equal(t, "42\n", out.String())
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	l := lexer.New(`chif main() { con.out(1 / 0); }`)
	p := parser.New(l)
	program := p.ParseProgram()
	require.Empty(t, p.Errors())

	interp := New(program, ".")
	err := interp.Run()
	require.Error(t, err)
	var rerr *RuntimeError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, DivisionByZero, rerr.Kind)
}
