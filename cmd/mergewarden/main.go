/*
Copyright 2026 MergeWarden Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package main implements the mergewarden CLI: a one-shot decision
// engine that evaluates a single dependency-update pull request and
// auto-merges, routes to human review, or blocks it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mergewarden",
	Short: "Evaluate and act on dependency-update pull requests",
	Long: `An automated reviewer for dependency-update pull requests.

Evaluates a single PR per invocation using its metadata, CI status,
and a bounded tool-augmented reasoning loop, then auto-merges,
requests human review, or blocks the merge.

Configuration is provided entirely via environment variables, making
it suitable for CI jobs and GitHub Actions workflows.`,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
