package app

import "time"

// Request carries one invocation's worth of CLI-gathered options.
type Request struct {
	RepoPath      string
	Package       string
	ExamineGlobs  []string
	ExcludeGlobs  []string
	ExamineRe     []string
	ExcludeRe     []string
	Timeout       time.Duration
	NoBaseline    bool
	ListFilesOnly bool
	ListMutants   bool
	JSONPath      string
	Verbose       bool
}

// DefaultRequest is the zero-flags baseline ParseArgs starts from.
func DefaultRequest() Request {
	return Request{
		RepoPath: ".",
		Timeout:  300 * time.Second,
	}
}
