package terminalView

import (
	"getsrc/internal/log"
	"getsrc/internal/view"
)

type AssembleCommandViewModel struct {
	CheckoutViewModel *CheckoutViewModel
	PatchViewModel    *PatchViewModel
	ErrorViewModel    *view.ErrorViewModel
}

func NewAssembleCommandViewModel(root, manifestPath, ref string, patchActionCount int) *AssembleCommandViewModel {
	return &AssembleCommandViewModel{
		CheckoutViewModel: NewCheckoutViewModel(root, manifestPath, ref),
		PatchViewModel:    NewPatchViewModel(patchActionCount),
		ErrorViewModel:    view.NewErrorViewModel(logger.GetLogFilePath()),
	}
}
