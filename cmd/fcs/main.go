/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/cytolab/fcsio/cmd/fcs/cmd"
)

func main() {
	cmd.Execute()
}
