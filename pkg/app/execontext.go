package app

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/slimtoolkit/imgpkg/pkg/consts"
	"github.com/slimtoolkit/imgpkg/pkg/util/errutil"
)

const outputFormatJSON = "json"

type ExecutionContext struct {
	Out             *Output
	cleanupHandlers []func()
}

func (ref *ExecutionContext) Exit(exitCode int) {
	ref.doCleanup()
	exit(exitCode)
}

func (ref *ExecutionContext) AddCleanupHandler(handler func()) {
	if handler != nil {
		ref.cleanupHandlers = append(ref.cleanupHandlers, handler)
	}
}

func (ref *ExecutionContext) doCleanup() {
	if len(ref.cleanupHandlers) == 0 {
		return
	}

	//call cleanup handlers in reverse order
	for i := len(ref.cleanupHandlers) - 1; i >= 0; i-- {
		cleanup := ref.cleanupHandlers[i]
		if cleanup != nil {
			cleanup()
		}
	}
}

func (ref *ExecutionContext) FailOn(err error) {
	if err != nil {
		ref.doCleanup()
	}

	errutil.FailOn(err)
}

// FailOnWithInfo is FailOn with extra context printed before the failure
func (ref *ExecutionContext) FailOnWithInfo(err error, info map[string]string) {
	if err != nil {
		ref.doCleanup()
	}

	errutil.FailOnWithInfo(err, info)
}

func exit(exitCode int) {
	os.Exit(exitCode)
}

func NewExecutionContext(cmdName string, quiet bool, outputFormat string) *ExecutionContext {
	ref := &ExecutionContext{
		Out: NewOutput(cmdName, quiet, outputFormat),
	}

	return ref
}

// Output prints the command events.
// Events are not printed in the quiet mode or when the result is JSON
// (the command prints its result only).
type Output struct {
	CmdName      string
	Quiet        bool
	OutputFormat string
	w            io.Writer
}

func NewOutput(cmdName string, quiet bool, outputFormat string) *Output {
	ref := &Output{
		CmdName:      cmdName,
		Quiet:        quiet,
		OutputFormat: outputFormat,
		w:            os.Stdout,
	}

	return ref
}

// IsJSON returns true if the command results are printed as JSON
func (ref *Output) IsJSON() bool {
	return ref.OutputFormat == outputFormatJSON
}

func (ref *Output) silent() bool {
	return ref.Quiet || ref.IsJSON()
}

func NoColor() {
	color.NoColor = true
}

type OutVars map[string]interface{}

func (ref *Output) Error(errType string, data string) {
	if ref.silent() {
		return
	}

	color.Set(color.FgHiRed)
	defer color.Unset()

	fmt.Fprintf(ref.w, "cmd=%s error=%s message='%s'\n", ref.CmdName, errType, data)
}

func (ref *Output) Message(data string) {
	if ref.silent() {
		return
	}

	color.Set(color.FgHiMagenta)
	defer color.Unset()

	fmt.Fprintf(ref.w, "cmd=%s message='%s'\n", ref.CmdName, data)
}

func sortedKeys(kvSet OutVars) []string {
	keys := make([]string, 0, len(kvSet))
	for k := range kvSet {
		keys = append(keys, k)
	}

	sort.Strings(keys)
	return keys
}

func (ref *Output) State(state string, params ...OutVars) {
	if ref.silent() {
		return
	}

	var exitInfo string
	var info string
	var sep string

	if len(params) > 0 {
		var minCount int
		kvSet := params[0]
		if exitCode, ok := kvSet["exit.code"]; ok {
			minCount = 1
			exitInfo = fmt.Sprintf(" code=%d", exitCode)
		}

		if len(kvSet) > minCount {
			var builder strings.Builder
			sep = " "

			for _, k := range sortedKeys(kvSet) {
				if k == "exit.code" {
					continue
				}

				builder.WriteString(k)
				builder.WriteString("=")
				builder.WriteString(fmt.Sprintf("%v", kvSet[k]))
				builder.WriteString(" ")
			}

			info = builder.String()
		}
	}

	if state == "exited" {
		color.Set(color.FgHiRed, color.Bold)
	} else {
		color.Set(color.FgCyan, color.Bold)
	}
	defer color.Unset()

	fmt.Fprintf(ref.w, "cmd=%s state=%s%s%s%s\n", ref.CmdName, state, exitInfo, sep, info)
}

var (
	itcolor = color.New(color.FgMagenta, color.Bold).SprintFunc()
	kcolor  = color.New(color.FgHiGreen, color.Bold).SprintFunc()
	vcolor  = color.New(color.FgHiBlue).SprintfFunc()
)

func (ref *Output) Info(infoType string, params ...OutVars) {
	if ref.silent() {
		return
	}

	var data string
	var sep string

	if len(params) > 0 {
		kvSet := params[0]
		if len(kvSet) > 0 {
			var builder strings.Builder
			sep = " "

			for _, k := range sortedKeys(kvSet) {
				builder.WriteString(kcolor(k))
				builder.WriteString("=")
				builder.WriteString(fmt.Sprintf("'%s'", vcolor("%v", kvSet[k])))
				builder.WriteString(" ")
			}

			data = builder.String()
		}
	}

	fmt.Fprintf(ref.w, "cmd=%s info=%s%s%s\n", ref.CmdName, itcolor(infoType), sep, data)
}

// Result prints the command result (always printed, even in the quiet mode)
func (ref *Output) Result(data string) {
	fmt.Fprintln(ref.w, strings.TrimRight(data, "\n"))
}

func ShowIssuesInfo() {
	color.Set(color.FgHiMagenta)
	defer color.Unset()
	fmt.Printf("%s: message='report bugs and ask questions' info='%s'\n", consts.AppName, consts.IssuesURL)
}
