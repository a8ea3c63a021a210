package launcher

import (
	"context"

	"github.com/deskpilot/deskpilot/internal/shared/types"
)

// Launcher opens a new window of one managed application, tagged for a
// project. Implementations must produce a window whose title contains
// the project's tag token so the rest of the system can find it.
type Launcher interface {
	// Role identifies the application role this launcher manages.
	Role() types.Role
	// BundleID is the application bundle id windows of this role carry.
	BundleID() string
	// Open launches a new window for the project.
	Open(ctx context.Context, project types.Project) error
}
