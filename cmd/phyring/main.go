// Copyright © 2025 The phyring authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// PhyRing is a tool to draw phylogenetic trees
// annotated with presence-absence data
// of genomic islands and defense systems.
package main

import (
	"github.com/js-arias/command"

	"github.com/islandkit/phyring/cmd/phyring/draw"
	"github.com/islandkit/phyring/cmd/phyring/matrixcmd"
	"github.com/islandkit/phyring/cmd/phyring/richness"
)

var app = &command.Command{
	Usage: "phyring <command> [<argument>...]",
	Short: "a tool to draw annotated circular phylogenetic trees",
}

func init() {
	app.Add(draw.Command)
	app.Add(matrixcmd.Command)
	app.Add(richness.Command)
}

func main() {
	app.Main()
}
