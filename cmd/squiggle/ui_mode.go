package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode is the value of --ui.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	mode := uiMode(strings.ToLower(strings.TrimSpace(value)))
	switch mode {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return mode, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// wantProgressUI decides whether a run shows the per-source progress view.
// Structured output and --quiet always suppress it, since the view shares
// stdout with the result; auto shows it only on a terminal.
func wantProgressUI(mode uiMode, format outputFormat, quiet bool, out *os.File) bool {
	if quiet || format != formatText || mode == uiModeOff {
		return false
	}
	return mode == uiModeOn || (out != nil && isTerminal(out))
}
