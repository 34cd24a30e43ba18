package style

import (
	"fmt"

	"github.com/heroku/color"
)

// Symbol formats a value operators must read exactly, such as an image
// name; it is quoted when color output is disabled.
var Symbol = func(value string) string {
	if color.Enabled() {
		return Key(value)
	}
	return "'" + value + "'"
}

// SymbolF is Symbol with formatting.
var SymbolF = func(format string, a ...interface{}) string {
	return Symbol(fmt.Sprintf(format, a...))
}

var Key = color.HiBlueString

var Tip = color.New(color.FgGreen, color.Bold).SprintfFunc()

var Warn = color.New(color.FgYellow, color.Bold).SprintfFunc()

var Error = color.New(color.FgRed, color.Bold).SprintfFunc()

var Step = func(format string, a ...interface{}) string {
	return color.CyanString("===> "+format, a...)
}

var Prefix = color.CyanString
