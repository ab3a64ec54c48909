package gitrepo

import "context"

type GitRepo interface {
	GetName() string
	GetDescriptor() Descriptor
	CheckNeedsCloning() (bool, error)
	IsCloned() (bool, error)
	Clone(ctx context.Context, cloner Cloner, ref string) error
}

// Cloner fetches a single ref of a remote into a local path.
type Cloner interface {
	Clone(ctx context.Context, request CloneRequest) error
}

type CloneRequest struct {
	Root  string // Working directory the clone runs in
	Path  string // Destination, relative to Root
	URL   string
	Ref   string // Branch or tag
	Depth int
}
