/*
Package platekit is a toolkit for plate distillation column coursework. It
bundles four computation apps behind one parameter store: McCabe-Thiele
stage counting on a vapor-liquid equilibrium curve, the tray hydraulic
operating envelope, valve and sieve hole layouts, and the tower schematic.

# Concept

Each app reads a typed parameter document from a ParamStore (filesystem,
Redis, Loam, or memory), falls back to the worked-example defaults when
nothing was saved, and returns a plain result struct. The Toolkit binds a
store to the equilibrium catalog; the CLI, HTTP, and MCP surfaces are thin
adapters over the same calls.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/towerlab/platekit"
	)

	func main() {
		kit, err := platekit.New()
		if err != nil {
			log.Fatal(err)
		}

		result, err := kit.Stages(context.Background())
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("stages=%d feed=%d\n", result.Stages, result.FeedStage)
	}

Saved parameters come in through WithStore; pass the file adapter to share
documents with the platekit CLI.
*/
package platekit
