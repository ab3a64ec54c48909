package terminalView

import (
	"fmt"
	"getsrc/internal/color"
	"getsrc/internal/counter"
	"io"
	"strings"
)

type PatchViewModel struct {
	AppliedCount *counter.Counter
	Total        int
}

func NewPatchViewModel(total int) *PatchViewModel {
	return &PatchViewModel{
		AppliedCount: counter.NewCounter(),
		Total:        total,
	}
}

type PatchView struct {
	viewModel *PatchViewModel
	stdout    io.Writer
}

func NewPatchView(vm *PatchViewModel, stdout io.Writer) *PatchView {
	return &PatchView{
		viewModel: vm,
		stdout:    stdout,
	}
}

func (v PatchView) Render(int) int {
	out := fmt.Sprintf("    %s/%s patch actions applied\n",
		color.FgMagenta(fmt.Sprintf("%d", v.viewModel.AppliedCount.Count())),
		color.FgMagenta(fmt.Sprintf("%d", v.viewModel.Total)))
	_, err := fmt.Fprint(v.stdout, out)
	if err != nil {
		return 0
	}
	return strings.Count(out, "\n")
}
