package errutil

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/slimtoolkit/imgpkg/pkg/consts"
	"github.com/slimtoolkit/imgpkg/pkg/version"
)

var infoOut io.Writer = os.Stdout

// FailOnWithInfo logs the error information with additional context info (terminates the application)
func FailOnWithInfo(err error, info map[string]string) {
	if err != nil {
		showInfo(info)
		showIssuesInfo()

		stackData := debug.Stack()
		log.WithError(err).WithFields(log.Fields{
			"version": version.Current(),
			"stack":   string(stackData),
		}).Fatal("imgpkg: failure")
	}
}

// FailOn logs the error information (terminates the application)
func FailOn(err error) {
	if err != nil {
		showIssuesInfo()

		stackData := debug.Stack()
		log.WithError(err).WithFields(log.Fields{
			"version": version.Current(),
			"stack":   string(stackData),
		}).Fatal("imgpkg: failure")
	}
}

// WarnOn logs the error information as a warning
func WarnOn(err error) {
	if err != nil {
		stackData := debug.Stack()
		log.WithError(err).WithFields(log.Fields{
			"version": version.Current(),
			"stack":   string(stackData),
		}).Warn("imgpkg: warning")
	}
}

func showInfo(info map[string]string) {
	if len(info) == 0 {
		return
	}

	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(infoOut, "Error Context Info:")
	for _, k := range keys {
		fmt.Fprintf(infoOut, "'%s': '%s'\n", k, info[k])
	}
}

func showIssuesInfo() {
	fmt.Fprintf(infoOut, "%s: message='report the failure' info='%s'\n", consts.AppName, consts.IssuesURL)
}
