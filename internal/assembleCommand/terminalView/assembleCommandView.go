package terminalView

import (
	"getsrc/internal/view"
	"io"
	"time"
)

type AssembleCommandView struct {
	compositeView *view.CompositeView
}

func NewAssembleCommandView(vm *AssembleCommandViewModel, out io.Writer, startTime time.Time, since func(time.Time) time.Duration) *AssembleCommandView {
	compositeView := view.NewCompositeView(make([]view.View, 0))
	compositeView.AddView(NewCheckoutView(vm.CheckoutViewModel, out))
	compositeView.AddView(NewPatchView(vm.PatchViewModel, out))

	compositeView.AddFooter(view.NewErrorView(vm.ErrorViewModel, out))
	compositeView.AddFooter(view.NewTimeElapsedView(startTime, out, since))

	return &AssembleCommandView{
		compositeView: compositeView,
	}
}

func (c AssembleCommandView) Render(width int) (lines int) {
	return c.compositeView.Render(width)
}
