package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"tlog.app/go/errors"
)

var (
	okFG    = pterm.FgLightGreen
	okBG    = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	warnFG  = pterm.FgYellow
	errorFG = pterm.FgRed
	errorBG = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
)

// printOK reports a file every stage accepted. The exit code is the
// one the program returned from main, not a tool status.
func printOK(path string, code int) {
	okBG.Print(" ok ")
	okFG.Println(" " + path + " exit " + strconv.Itoa(code))
}

// printError reports the first failing stage for a file. Errors that
// carry a source position also get the offending line with a caret
// under the failing column.
func printError(path string, src []byte, stage string, err error) {
	errorBG.Print(" " + stage + " ")
	errorFG.Println(" " + path)
	fmt.Println(err.Error())

	var pos interface{ Pos() (line, col int) }
	if !errors.As(err, &pos) {
		return
	}

	line, col := pos.Pos()
	if line == 0 {
		return
	}

	codeFrame(src, line, col)
}

// codeFrame prints one source line with a caret under col. Tabs copy
// through to the caret line so it stays aligned at any tab width.
func codeFrame(src []byte, line, col int) {
	lines := strings.Split(string(src), "\n")
	if line < 1 || line > len(lines) {
		return
	}

	text := strings.TrimRight(lines[line-1], "\r")
	if col < 1 || col > len(text)+1 {
		return
	}

	gutter := strconv.Itoa(line)

	fmt.Println()
	okFG.Print(gutter)
	fmt.Println(" |  " + text)

	lead := []byte(text[:col-1])
	for i, c := range lead {
		if c != '\t' {
			lead[i] = ' '
		}
	}

	fmt.Print(strings.Repeat(" ", len(gutter)) + " |  " + string(lead))
	errorFG.Println("^")
}
