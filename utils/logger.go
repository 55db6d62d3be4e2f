package utils

import (
	"fmt"
	"io"
)

// Logger is a nil-safe trace writer for verbose archive decode logs.
type Logger struct {
	io.Writer
}

func (l *Logger) Println(a ...interface{}) {
	if l != nil {
		fmt.Fprintln(l, a...)
	}
}

func (l *Logger) Printf(format string, a ...interface{}) {
	if l != nil {
		fmt.Fprintf(l, format+"\n", a...)
	}
}
