package transition

import "errors"

// Fatal transition errors. Each names the remediation: these abort the run
// before any destination files are written for the failing step.
var (
	// ErrNoArtifactsDir indicates no planning-artifacts directory exists.
	ErrNoArtifactsDir = errors.New("no planning artifacts directory found; run the planning workflow before transitioning")

	// ErrNoStoriesFile indicates the artifacts directory has no epics/stories file.
	ErrNoStoriesFile = errors.New("no epics/stories file found in planning artifacts; generate epics and stories before transitioning")

	// ErrNoStories indicates the epics/stories file parsed to zero stories.
	ErrNoStories = errors.New("no stories parsed from the epics/stories file; check its '### Story' headings")
)
