// Package patch applies an ordered table of file system actions to the assembled tree.
package patch

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindMkdir   Kind = "mkdir"
	KindCopy    Kind = "copy"
	KindDiff    Kind = "diff"
	KindSymlink Kind = "symlink"
)

// Action is one row of the table. Source is relative to the patches directory,
// except for symlinks where it is relative to the root. Destination is always relative to the root.
type Action struct {
	Kind        Kind   `yaml:"kind"`
	Source      string `yaml:"source,omitempty"`
	Destination string `yaml:"destination,omitempty"`
}

func (a Action) String() string {
	switch a.Kind {
	case KindMkdir:
		return fmt.Sprintf("mkdir %s", a.Destination)
	case KindDiff:
		return fmt.Sprintf("diff %s", a.Source)
	default:
		return fmt.Sprintf("%s %s -> %s", a.Kind, a.Source, a.Destination)
	}
}

var ErrActionOrder = errors.New("patch actions out of order")

var phases = map[Kind]int{
	KindMkdir:   0,
	KindCopy:    1,
	KindDiff:    2,
	KindSymlink: 3,
}

// ValidateOrder checks every row is complete and that rows run in phase order:
// directories, copies, diffs, then symlinks last.
func ValidateOrder(actions []Action) error {
	previous := 0
	for i, action := range actions {
		phase, known := phases[action.Kind]
		if !known {
			return fmt.Errorf("action %d: unknown kind %q", i, action.Kind)
		}
		if action.Kind != KindDiff && action.Destination == "" {
			return fmt.Errorf("action %d (%s): missing destination", i, action.Kind)
		}
		if action.Kind != KindMkdir && action.Source == "" {
			return fmt.Errorf("action %d (%s): missing source", i, action.Kind)
		}
		if phase < previous {
			return fmt.Errorf("%w: %s at position %d", ErrActionOrder, action, i)
		}
		previous = phase
	}
	return nil
}

func mkdir(destination string) Action {
	return Action{Kind: KindMkdir, Destination: destination}
}

func copyFile(source, destination string) Action {
	return Action{Kind: KindCopy, Source: source, Destination: destination}
}

func diff(source string) Action {
	return Action{Kind: KindDiff, Source: source}
}

func symlink(source, destination string) Action {
	return Action{Kind: KindSymlink, Source: source, Destination: destination}
}

// DefaultTable is the fixed set of fixups the assembled tree needs before it builds.
func DefaultTable() []Action {
	return []Action{
		mkdir("src/incremental_delivery/sysprop/include"),
		mkdir("src/soong/cc/libbuildversion/include"),

		copyFile("misc/IncrementalProperties.sysprop.h", "src/incremental_delivery/sysprop/include"),
		copyFile("misc/IncrementalProperties.sysprop.cpp", "src/incremental_delivery/sysprop"),
		copyFile("misc/deployagent.inc", "src/adb/fastdeploy/deployagent"),
		copyFile("misc/deployagentscript.inc", "src/adb/fastdeploy/deployagent"),
		copyFile("misc/platform_tools_version.h", "src/soong/cc/libbuildversion/include"),

		diff("abseil-cpp_CMakeLists.txt.patch"),
		diff("cgroup_map.cpp.patch"),
		diff("dex_file.cc.patch"),
		diff("instruction_set.h.patch"),
		diff("mem_map.cc.patch"),
		diff("protobuf_CMakeLists.txt.patch"),
		diff("task_runner.h.patch"),
		diff("proto/ApkInfo.proto.patch"),
		diff("proto/Resources.proto.patch"),
		diff("proto/ResourcesInternal.proto.patch"),

		// googletest is vendored into boringssl's third_party tree
		symlink("src/googletest", "src/boringssl/src/third_party/googletest"),
	}
}
