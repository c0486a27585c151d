// Copyright © 2024 The kip-ls authors

// Package docs embeds the Kip language reference for use by the CLI.
package docs

import _ "embed"

// LangGuide is a quick reference to the Kip constructs the analyzer
// understands.
//
//go:embed lang.md
var LangGuide string
