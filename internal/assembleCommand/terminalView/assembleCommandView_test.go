package terminalView

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"getsrc/internal/color"
)

func escapeNonPrintable(input string) string {
	// Replace ANSI escape sequences with readable placeholders
	replacer := strings.NewReplacer(
		"\033", "\\033",
	)
	return replacer.Replace(input)
}

func fixedSince(time.Time) time.Duration {
	return 5 * time.Second
}

func addSomeFakeCounts(vm *AssembleCommandViewModel) {
	vm.CheckoutViewModel.RepositoryCount.Add(30)
	vm.CheckoutViewModel.ClonedCount.Add(2)
	vm.CheckoutViewModel.SkippedCount.Add(28)
	vm.PatchViewModel.AppliedCount.Add(17)
}

func TestCheckoutView_Render(t *testing.T) {
	vm := NewCheckoutViewModel("localtest", "repos.json", "v1.0")
	vm.RepositoryCount.Add(3)
	vm.ClonedCount.Add(1)
	vm.SkippedCount.Add(2)

	var buf bytes.Buffer
	lineCount := NewCheckoutView(vm, &buf).Render(11)

	expected := fmt.Sprintf(
		"%s\n  <- %s @ %s\n    %s repositories\n    %s cloned now, %s already present\n",
		color.FgCyan("localtest  "),
		color.FgCyan("...on"),
		color.FgCyan("v1.0"),
		color.FgMagenta("3"),
		color.FgMagenta("1"),
		color.FgMagenta("2"),
	)
	if buf.String() != expected {
		t.Errorf(
			"Render() output mismatch.\nExpected:\n%s\nGot:\n%s",
			escapeNonPrintable(expected),
			escapeNonPrintable(buf.String()),
		)
	}
	if lineCount != 4 {
		t.Errorf("Render() line count.\nExpected: %d\nGot: %d", 4, lineCount)
	}
}

func TestAssembleCommandView_Render(t *testing.T) {
	vm := NewAssembleCommandViewModel("/work", "/work/repos.json", "master", 17)
	addSomeFakeCounts(vm)

	var buf bytes.Buffer
	lines := NewAssembleCommandView(vm, &buf, time.Now(), fixedSince).Render(40)

	if lines != 6 {
		t.Errorf("expected 6 lines without errors, got %d", lines)
	}
	output := buf.String()
	for _, expected := range []string{
		fmt.Sprintf("%s/%s patch actions applied", color.FgMagenta("17"), color.FgMagenta("17")),
		fmt.Sprintf("%s seconds", color.FgGreen("5.00")),
		fmt.Sprintf("%s cloned now, %s already present", color.FgMagenta("2"), color.FgMagenta("28")),
	} {
		if !strings.Contains(output, expected) {
			t.Errorf("expected output to contain %q, got:\n%s", escapeNonPrintable(expected), escapeNonPrintable(output))
		}
	}
}

func TestAssembleCommandView_RenderWithError(t *testing.T) {
	vm := NewAssembleCommandViewModel("/work", "/work/repos.json", "master", 17)
	vm.ErrorViewModel.Report(errors.New("clone failed"))

	var buf bytes.Buffer
	lines := NewAssembleCommandView(vm, &buf, time.Now(), fixedSince).Render(40)

	if lines != 10 {
		t.Errorf("expected 10 lines with an error, got %d", lines)
	}
	if !strings.Contains(buf.String(), "See log file:") {
		t.Errorf("expected log file hint, got:\n%s", escapeNonPrintable(buf.String()))
	}
}
