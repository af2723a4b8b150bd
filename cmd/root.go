package main

import (
	"github.com/spf13/cobra"
)

func main() {
	var root = &cobra.Command{Use: "confplanner"}

	root.AddCommand(serveCMD(), toolsCMD())
	_ = root.Execute()
}
