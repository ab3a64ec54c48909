package terminalView

import (
	"fmt"
	"getsrc/internal/color"
	"getsrc/internal/counter"
	"getsrc/internal/ext"
	"getsrc/internal/view"
	"io"
	"strings"
)

type CheckoutViewModel struct {
	Root            string
	ManifestPath    string
	Ref             string
	RepositoryCount *counter.Counter
	ClonedCount     *counter.Counter
	SkippedCount    *counter.Counter
}

func NewCheckoutViewModel(root string, manifestPath string, ref string) *CheckoutViewModel {
	return &CheckoutViewModel{
		Root:            root,
		ManifestPath:    manifestPath,
		Ref:             ref,
		RepositoryCount: counter.NewCounter(),
		ClonedCount:     counter.NewCounter(),
		SkippedCount:    counter.NewCounter(),
	}
}

// CheckoutView summarises the manifest checkout
type CheckoutView struct {
	viewModel *CheckoutViewModel
	stdout    io.Writer
}

func NewCheckoutView(viewModel *CheckoutViewModel, stdout io.Writer) *CheckoutView {
	return &CheckoutView{
		viewModel: viewModel,
		stdout:    stdout,
	}
}

func (r *CheckoutView) Render(width int) (lines int) {
	vm := r.viewModel
	out := fmt.Sprintf(
		"%s\n  <- %s @ %s\n    %s repositories\n    %s cloned now, %s already present\n",
		color.FgCyan(view.TruncateTextToWidth(width, ext.ReplaceHomeDirWithTilde(vm.Root))),
		color.FgCyan(view.TruncateTextToWidth(ext.Max(width-6, 1), ext.ReplaceHomeDirWithTilde(vm.ManifestPath))),
		color.FgCyan(vm.Ref),
		color.FgMagenta(fmt.Sprintf("%d", vm.RepositoryCount.Count())),
		color.FgMagenta(fmt.Sprintf("%d", vm.ClonedCount.Count())),
		color.FgMagenta(fmt.Sprintf("%d", vm.SkippedCount.Count())),
	)
	_, err := fmt.Fprint(r.stdout, out)
	if err != nil {
		return 0
	}
	return strings.Count(out, "\n")
}
