/*
Copyright 2026 MergeWarden Authors
SPDX-License-Identifier: Apache-2.0
*/

package agent

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/chainguard-dev/clog"

	"github.com/mergewarden/mergewarden/internal/evaluate"
	"github.com/mergewarden/mergewarden/internal/verdict"
)

// maxRounds caps the reasoning conversation. The loop self-terminates on
// the final round whether or not the model produced a tool-free answer.
const maxRounds = 5

// Proposer performs one exchange with the reasoning service: it either
// comes back with tool requests or with a final text answer.
type Proposer interface {
	Propose(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error)
}

// claudeProposer drives the Anthropic messages API, retrying transient
// errors with backoff.
type claudeProposer struct {
	client anthropic.Client
	retry  retryConfig
}

// NewClaudeProposer wraps an Anthropic client as a Proposer.
func NewClaudeProposer(client anthropic.Client) Proposer {
	return &claudeProposer{client: client, retry: defaultRetryConfig()}
}

func (p *claudeProposer) Propose(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	return retryWithBackoff(ctx, p.retry, "messages", isRetryableClaudeError, func() (*anthropic.Message, error) {
		return p.client.Messages.New(ctx, params)
	})
}

// Outcome is the reasoning loop's result. Parsed is false when the final
// text held no usable verdict; Raw preserves that text for the fallback
// policy's reasoning.
type Outcome struct {
	Verdict verdict.Verdict
	Parsed  bool
	Raw     string
}

// Driver runs the bounded tool-augmented reasoning loop.
type Driver struct {
	proposer  Proposer
	invoker   *Invoker
	model     anthropic.Model
	maxTokens int64
}

// NewDriver creates a Driver for the given model.
func NewDriver(proposer Proposer, invoker *Invoker, model string) *Driver {
	return &Driver{
		proposer:  proposer,
		invoker:   invoker,
		model:     anthropic.Model(model),
		maxTokens: 4096,
	}
}

// Evaluate runs the conversation for an evaluation context and extracts a
// verdict from the final answer. Unparseable model output is not an
// error: it yields an Outcome with Parsed=false so the caller can apply
// the fallback policy. Only transport failures are returned as errors.
func (d *Driver) Evaluate(ctx context.Context, ec evaluate.Context) (Outcome, error) {
	log := clog.FromContext(ctx)

	params := anthropic.MessageNewParams{
		Model:     d.model,
		MaxTokens: d.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Tools:     d.invoker.Tools(),
		Messages: []anthropic.MessageParam{{
			Role: anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{
				anthropic.NewTextBlock(userMessage(ec)),
			},
		}},
	}

	var finalText string
	for round := 1; round <= maxRounds; round++ {
		message, err := d.proposer.Propose(ctx, params)
		if err != nil {
			return Outcome{}, fmt.Errorf("reasoning round %d: %w", round, err)
		}

		finalText = ""
		var toolUses []anthropic.ToolUseBlock
		for _, content := range message.Content {
			switch content.Type {
			case "text":
				finalText += content.Text
			case "tool_use":
				toolUses = append(toolUses, anthropic.ToolUseBlock{
					ID:    content.ID,
					Name:  content.Name,
					Input: content.Input,
				})
			}
		}

		// A tool-free response is terminal; so is exhausting the round
		// budget, even if the model still wanted tools.
		if len(toolUses) == 0 {
			break
		}
		if round == maxRounds {
			log.Infof("Round budget exhausted with %d tool request(s) outstanding", len(toolUses))
			break
		}

		log.Infof("Reasoning round %d requested %d tool(s)", round, len(toolUses))

		// Append the model's turn, then the observations in the exact
		// order the tools were requested.
		params.Messages = append(params.Messages, message.ToParam())
		observations := make([]anthropic.ContentBlockParamUnion, 0, len(toolUses))
		for _, tu := range toolUses {
			observation := d.invoker.Execute(ctx, tu.Name, tu.Input)
			observations = append(observations, anthropic.ContentBlockParamUnion{
				OfToolResult: &anthropic.ToolResultBlockParam{
					ToolUseID: tu.ID,
					Content: []anthropic.ToolResultBlockParamContentUnion{{
						OfText: &anthropic.TextBlockParam{Text: observation},
					}},
				},
			})
		}
		params.Messages = append(params.Messages, anthropic.MessageParam{
			Role:    anthropic.MessageParamRoleUser,
			Content: observations,
		})
	}

	v, err := verdict.Extract(finalText)
	if err != nil {
		log.With("error", err).Warn("Could not parse verdict from model output, deferring to fallback policy")
		return Outcome{Raw: finalText}, nil
	}

	log.With("decision", v.Decision).With("risk", v.Risk).Info("Model produced a verdict")
	return Outcome{Verdict: v, Parsed: true, Raw: finalText}, nil
}
