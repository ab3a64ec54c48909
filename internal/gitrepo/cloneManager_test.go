package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"getsrc/internal/counter"
	logger "getsrc/internal/log"
)

type MockGitRepo struct {
	name          string
	needsCloning  bool
	isCloned      bool
	cloneError    error
	checkCloneErr error
	cloneCalls    *[]string
}

func (m *MockGitRepo) GetName() string {
	return m.name
}

func (m *MockGitRepo) GetDescriptor() Descriptor {
	return Descriptor{Path: m.name, URL: "https://x/" + m.name + ".git"}
}

func (m *MockGitRepo) CheckNeedsCloning() (bool, error) {
	return m.needsCloning, m.checkCloneErr
}

func (m *MockGitRepo) IsCloned() (bool, error) {
	return m.isCloned, nil
}

func (m *MockGitRepo) Clone(_ context.Context, _ Cloner, ref string) error {
	*m.cloneCalls = append(*m.cloneCalls, m.name+"@"+ref)
	return m.cloneError
}

// recordingCloner creates the destination directory like a real clone would.
type recordingCloner struct {
	requests []CloneRequest
	failOn   string
}

func (r *recordingCloner) Clone(_ context.Context, request CloneRequest) error {
	r.requests = append(r.requests, request)
	if request.Path == r.failOn {
		return fmt.Errorf("remote hung up")
	}
	return os.MkdirAll(filepath.Join(request.Root, request.Path, ".git"), 0755)
}

func TestCheckout_SkipsExistingAndKeepsOrder(t *testing.T) {
	logger.InitLoggerWithOutput(io.Discard, false)
	var calls []string
	repos := []GitRepo{
		&MockGitRepo{name: "repo1", needsCloning: true, cloneCalls: &calls},
		&MockGitRepo{name: "repo2", needsCloning: false, isCloned: true, cloneCalls: &calls},
		&MockGitRepo{name: "repo3", needsCloning: true, cloneCalls: &calls},
		&MockGitRepo{name: "notAGitDir", needsCloning: false, isCloned: false, cloneCalls: &calls},
	}
	clonedCounter := counter.NewCounter()
	skippedCounter := counter.NewCounter()

	result, err := Checkout(context.Background(), repos, "v1.0", nil, clonedCounter, skippedCounter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedCalls := []string{"repo1@v1.0", "repo3@v1.0"}
	if fmt.Sprint(calls) != fmt.Sprint(expectedCalls) {
		t.Errorf("expected clone calls %v, got %v", expectedCalls, calls)
	}
	if len(result.Cloned) != 2 || len(result.Skipped) != 2 {
		t.Errorf("expected 2 cloned and 2 skipped, got %d and %d", len(result.Cloned), len(result.Skipped))
	}
	if clonedCounter.Count() != 2 {
		t.Errorf("expected cloned count 2, got %d", clonedCounter.Count())
	}
	if skippedCounter.Count() != 2 {
		t.Errorf("expected skipped count 2, got %d", skippedCounter.Count())
	}
}

func TestCheckout_AbortsOnFirstFailure(t *testing.T) {
	logger.InitLoggerWithOutput(io.Discard, false)
	var calls []string
	cloneErr := errors.New("fake clone failure")
	repos := []GitRepo{
		&MockGitRepo{name: "repo1", needsCloning: true, cloneCalls: &calls},
		&MockGitRepo{name: "repo2", needsCloning: true, cloneError: cloneErr, cloneCalls: &calls},
		&MockGitRepo{name: "repo3", needsCloning: true, cloneCalls: &calls},
	}

	result, err := Checkout(context.Background(), repos, DefaultRef, nil, counter.NewCounter(), counter.NewCounter())
	if !errors.Is(err, cloneErr) {
		t.Fatalf("expected clone failure, got %v", err)
	}
	if len(calls) != 2 || calls[1] != "repo2@master" {
		t.Errorf("expected clones to stop after repo2, got %v", calls)
	}
	if len(result.Cloned) != 1 {
		t.Errorf("expected repo1 to be reported cloned, got %v", result.Cloned)
	}
}

func TestCheckout_ErrorCheckingNeedsCloning(t *testing.T) {
	logger.InitLoggerWithOutput(io.Discard, false)
	var calls []string
	repos := []GitRepo{
		&MockGitRepo{name: "broken", checkCloneErr: fmt.Errorf("permission denied"), cloneCalls: &calls},
		&MockGitRepo{name: "repo2", needsCloning: true, cloneCalls: &calls},
	}

	_, err := Checkout(context.Background(), repos, DefaultRef, nil, counter.NewCounter(), counter.NewCounter())
	if err == nil || err.Error() != "permission denied" {
		t.Errorf("expected permission denied, got %v", err)
	}
	if len(calls) != 0 {
		t.Errorf("expected no clones, got %v", calls)
	}
}

func TestCheckout_CancelledContext(t *testing.T) {
	logger.InitLoggerWithOutput(io.Discard, false)
	var calls []string
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Checkout(ctx, []GitRepo{&MockGitRepo{name: "repo1", needsCloning: true, cloneCalls: &calls}}, DefaultRef, nil, counter.NewCounter(), counter.NewCounter())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(calls) != 0 {
		t.Errorf("expected no clones, got %v", calls)
	}
}

func TestCheckout_IsIdempotentOnDisk(t *testing.T) {
	logger.InitLoggerWithOutput(io.Discard, false)
	root := t.TempDir()
	descriptors := []Descriptor{
		{Path: "src/a", URL: "https://x/a.git"},
		{Path: "src/b", URL: "https://x/b.git"},
	}
	cloner := &recordingCloner{}

	first, err := Checkout(context.Background(), ToRepositories(root, descriptors), "", cloner, counter.NewCounter(), counter.NewCounter())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first.Cloned) != 2 {
		t.Fatalf("expected 2 clones on first run, got %d", len(first.Cloned))
	}

	second, err := Checkout(context.Background(), ToRepositories(root, descriptors), "", cloner, counter.NewCounter(), counter.NewCounter())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second.Cloned) != 0 {
		t.Errorf("expected no clones on second run, got %v", second.Cloned)
	}
	if len(cloner.requests) != 2 {
		t.Errorf("expected 2 clone requests overall, got %d", len(cloner.requests))
	}
	if cloner.requests[0].Ref != DefaultRef || cloner.requests[0].Depth != 1 {
		t.Errorf("expected shallow clone of %s, got %+v", DefaultRef, cloner.requests[0])
	}
}

func TestCheckout_FailureWrapsCloneError(t *testing.T) {
	logger.InitLoggerWithOutput(io.Discard, false)
	root := t.TempDir()
	descriptors := []Descriptor{
		{Path: "src/a", URL: "https://x/a.git"},
		{Path: "src/b", URL: "https://x/b.git"},
		{Path: "src/c", URL: "https://x/c.git"},
	}
	cloner := &recordingCloner{failOn: "src/b"}

	_, err := Checkout(context.Background(), ToRepositories(root, descriptors), "v1.0", cloner, counter.NewCounter(), counter.NewCounter())

	var cloneErr *CloneError
	if !errors.As(err, &cloneErr) {
		t.Fatalf("expected CloneError, got %v", err)
	}
	if cloneErr.Path != "src/b" || cloneErr.Ref != "v1.0" {
		t.Errorf("unexpected clone error %+v", cloneErr)
	}
	if len(cloner.requests) != 2 {
		t.Errorf("expected src/c never to be attempted, got %d requests", len(cloner.requests))
	}
	if _, err := os.Stat(filepath.Join(root, "src/a")); err != nil {
		t.Errorf("expected src/a to be kept: %v", err)
	}
}
