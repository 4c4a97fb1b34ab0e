//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the tpp module embedded at build time.
// It is printed by the CLI for the --version flag.
var Version = strings.TrimSpace(version)

const (
	// Name is the canonical command and module identifier used across the
	// project. It appears in help text, the default config path and the
	// environment variable prefix.
	Name = "tpp"
	// Description is a short, human-readable summary of the project used in
	// help output.
	Description = "Line-oriented text template preprocessor"
)

// Prefix returns the prefix of environment variables read by tpp.
func Prefix() string { return strings.ToUpper(Name) + "_" }

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
