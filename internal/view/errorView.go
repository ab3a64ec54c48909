package view

import (
	"fmt"
	"getsrc/internal/color"
	"getsrc/internal/counter"
	"getsrc/internal/ext"
	"io"
	"strings"
)

type ErrorViewModel struct {
	errorCount  *counter.Counter
	latestError string
	logFilePath string
}

func NewErrorViewModel(logFilePath string) *ErrorViewModel {
	return &ErrorViewModel{
		errorCount:  counter.NewCounter(),
		logFilePath: logFilePath,
	}
}

func (vm *ErrorViewModel) Report(err error) {
	vm.errorCount.Add(1)
	vm.latestError = err.Error()
}

type ErrorView struct {
	viewModel *ErrorViewModel
	stdout    io.Writer
}

func NewErrorView(vm *ErrorViewModel, stdout io.Writer) *ErrorView {
	return &ErrorView{
		viewModel: vm,
		stdout:    stdout,
	}
}

func (v ErrorView) Render(width int) int {
	if v.viewModel.errorCount.Count() > 0 {
		out := fmt.Sprintf("--- %s errors ---\n%s\nSee log file:\n%s\n",
			color.FgRed(fmt.Sprintf("%d", v.viewModel.errorCount.Count())),
			color.FgRed("%s", TrimTextToWidth(width, v.viewModel.latestError)),
			color.FgMagenta(ext.ReplaceHomeDirWithTilde(v.viewModel.logFilePath)))

		_, err := fmt.Fprint(v.stdout, out)
		if err != nil {
			return 0
		}
		return strings.Count(out, "\n")
	} else {
		return 0
	}
}
