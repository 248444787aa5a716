/*
Copyright 2026 MergeWarden Authors
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/mergewarden/mergewarden/internal/action"
	"github.com/mergewarden/mergewarden/internal/agent"
	"github.com/mergewarden/mergewarden/internal/bot"
	"github.com/mergewarden/mergewarden/internal/scm"
)

type config struct {
	GitHubToken     string `env:"GITHUB_TOKEN,required"`
	Repository      string `env:"GITHUB_REPOSITORY,required"`
	PRNumber        int    `env:"PR_NUMBER,required"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY,required"`

	SkipAuthorCheck bool   `env:"SKIP_AUTHOR_CHECK,default=false"`
	ClaudeModel     string `env:"CLAUDE_MODEL,default=claude-3-5-sonnet-20241022"`
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate one pull request and act on the verdict",
	Long: `Evaluate the pull request named by GITHUB_REPOSITORY and PR_NUMBER.

Non-dependency PRs are skipped without side effects. For dependency
updates the verdict is posted as a PR comment and then enacted:
AUTO_MERGE squash-merges, REQUIRE_APPROVAL labels for human review,
DO_NOT_MERGE leaves the PR open with a blocking explanation.`,
	RunE: runEvaluate,
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := clog.FromContext(ctx)

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}

	client, err := scm.New(http.DefaultClient, cfg.GitHubToken, cfg.Repository)
	if err != nil {
		return err
	}

	claude := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey))
	driver := agent.NewDriver(agent.NewClaudeProposer(claude), agent.NewInvoker(client), cfg.ClaudeModel)

	b := bot.New(client, driver, action.NewDispatcher(client), cfg.SkipAuthorCheck)

	log.With("repository", cfg.Repository).
		With("pr", cfg.PRNumber).
		With("model", cfg.ClaudeModel).
		Info("Evaluating pull request")
	return b.Run(ctx, cfg.PRNumber)
}
