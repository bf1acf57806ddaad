// =================================================================
//
// Work of the floe authors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

//go:build tools

// Package tools pins build tooling in go.mod.
package tools

import (
	_ "github.com/client9/misspell/cmd/misspell"
	_ "github.com/kisielk/errcheck"
	_ "github.com/mitchellh/gox"
	_ "golang.org/x/tools/cmd/goimports"
	_ "honnef.co/go/tools/cmd/staticcheck"
)
