// Copyright © 2024 The kip-ls authors

package main

import "github.com/kip-lang/kip-ls/cmd"

func main() {
	cmd.Execute()
}
