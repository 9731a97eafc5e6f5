// ==============================================================================================
// FILE: repl/repl.go
// ==============================================================================================
// PACKAGE: repl
// PURPOSE: The Read-Eval-Print Loop interface. Connects the user's input stream to the full
//          pipeline (lexer -> parser -> semantic -> interp) and manages session framing.
//
//          Unlike the teacher's language, chif requires a `chif main(){}` entry point per
//          spec.md §2 — there is no single-expression "evaluate and print" mode. The REPL
//          instead buffers lines until a blank line terminates a submission, then runs the
//          whole buffer as a fresh program: if it already contains `chif main`, it runs as-is;
//          otherwise it is wrapped in an implicit `chif main() { ... }` so bare statements
//          ("var x: int = 1; con.out(x);") work without boilerplate. Each submission gets a
//          fresh Interpreter, so state does not persist between submissions — chif has no
//          notion of a cross-program environment to persist it in.
// ==============================================================================================

package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"chif/ast"
	"chif/interp"
	"chif/lexer"
	"chif/parser"
	"chif/semantic"
	"chif/token"
)

const (
	PROMPT        = ">> "
	CONTINUATION  = ".. "
	blankLineStop = ""
	LOGO          = `
┏━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┓
┃  ____ _     ___ _____                              ┃
┃ / ___| |__ |_ _|  ___|                             ┃
┃| |   | '_ \ | || |_                                ┃
┃| |___| | | || ||  _|                               ┃
┃ \____|_| |_|___|_|                                 ┃
┃                                                     ┃
┃ The chif programming language                       ┃
┗━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┛
`
)

const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Gray   = "\033[37m"
	Bold   = "\033[1m"
)

// Start launches the REPL. It listens to 'in', buffers each multi-line submission, and
// writes results to 'out'.
func Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	debugMode := false
	var buf []string

	fmt.Fprint(out, LOGO)
	printHelp(out)

	prompt := func() {
		if len(buf) == 0 {
			fmt.Fprint(out, Yellow+PROMPT+Reset)
		} else {
			fmt.Fprint(out, Gray+CONTINUATION+Reset)
		}
	}

	prompt()
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if len(buf) == 0 && strings.HasPrefix(trimmed, ".") {
			switch trimmed {
			case ".exit":
				fmt.Fprintln(out, Yellow+"Goodbye!"+Reset)
				return
			case ".debug":
				debugMode = !debugMode
				status := "DISABLED"
				if debugMode {
					status = "ENABLED"
				}
				fmt.Fprintf(out, Gray+"Debug mode %s\n"+Reset, status)
			case ".help":
				printHelp(out)
			default:
				fmt.Fprintf(out, Red+"Unknown command: %s. Type .help for info.\n"+Reset, trimmed)
			}
			prompt()
			continue
		}

		if trimmed == blankLineStop && len(buf) > 0 {
			runSubmission(out, strings.Join(buf, "\n"), debugMode)
			buf = nil
			prompt()
			continue
		}
		if trimmed == blankLineStop {
			prompt()
			continue
		}

		buf = append(buf, line)
		prompt()
	}
	if len(buf) > 0 {
		runSubmission(out, strings.Join(buf, "\n"), debugMode)
	}
}

// runSubmission parses, optionally wraps, analyzes, and interprets one buffered submission.
func runSubmission(out io.Writer, src string, debugMode bool) {
	if debugMode {
		printTokens(out, src)
	}

	program, wrapped, errs := tryParse(src)
	if len(errs) != 0 {
		printParseErrors(out, errs)
		return
	}

	if debugMode {
		fmt.Fprintf(out, Gray+"(wrapped in chif main: %t)\n"+Reset, wrapped)
	}

	if _, err := semantic.Analyze(program, "."); err != nil {
		fmt.Fprintf(out, Red+Bold+"semantic error: "+Reset+Red+"%s\n"+Reset, err)
		return
	}

	i := interp.New(program, ".")
	i.SetStdout(out)
	if err := i.Run(); err != nil {
		fmt.Fprintf(out, Red+Bold+"runtime error: "+Reset+Red+"%s\n"+Reset, err)
	}
}

// tryParse parses src as a standalone program; if that fails or produces no `chif main`,
// it retries with src wrapped in an implicit `chif main() { ... }` body.
func tryParse(src string) (*ast.Program, bool, []string) {
	if prog, errs := parse(src); len(errs) == 0 && hasMain(prog) {
		return prog, false, nil
	}
	wrapped := "chif main() {\n" + src + "\n}"
	prog, errs := parse(wrapped)
	return prog, true, errs
}

func parse(src string) (*ast.Program, []string) {
	l := lexer.New(src)
	p := parser.New(l)
	prog := p.ParseProgram()
	return prog, p.Errors()
}

func hasMain(prog *ast.Program) bool {
	if prog == nil {
		return false
	}
	for _, item := range prog.Items {
		if fn, ok := item.(*ast.Function); ok && fn.IsMain {
			return true
		}
	}
	return false
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, Gray+"Commands:")
	fmt.Fprintln(out, "  .exit   Quit the REPL")
	fmt.Fprintln(out, "  .debug  Toggle token/wrap-decision tracing")
	fmt.Fprintln(out, "  .help   Show this message")
	fmt.Fprintln(out, "Enter a blank line to run the buffered submission."+Reset)
	fmt.Fprintln(out)
}

func printTokens(out io.Writer, src string) {
	fmt.Fprintln(out, Gray+"┌── [ TOKENS ] ──────────────────────────────────────────┐"+Reset)
	l := lexer.New(src)
	for tok := l.NextToken(); tok.Type != token.EOF; tok = l.NextToken() {
		fmt.Fprintf(out, "│ %-15s : %s\n", tok.Type, tok.Literal)
	}
	fmt.Fprintln(out, Gray+"└────────────────────────────────────────────────────────┘"+Reset)
}

func printParseErrors(out io.Writer, errors []string) {
	fmt.Fprintln(out, Red+Bold+"Parse errors:"+Reset)
	for _, msg := range errors {
		fmt.Fprintf(out, Red+"  x %s\n"+Reset, msg)
	}
}
