package orchestrator

import (
	"fmt"
	"strings"

	"github.com/dyluth/moot/pkg/debate"
)

// Prompt templates for the debating agents and the adjudicator.

const forPromptTemplate = `You are participating in a formal debate. Your role is to argue FOR the following proposition:

"%s"

Provide clear, logical arguments supporting this position. Be persuasive but respectful. Keep your responses concise (2-3 paragraphs max). Address counterarguments when raised by your opponent.`

const againstPromptTemplate = `You are participating in a formal debate. Your role is to argue AGAINST the following proposition:

"%s"

Provide clear, logical arguments opposing this position. Be persuasive but respectful. Keep your responses concise (2-3 paragraphs max). Address counterarguments when raised by your opponent.`

// judgeSystemPrompt is the system prompt for the adjudicator call.
const judgeSystemPrompt = "You are an expert debate adjudicator. Respond only with valid JSON."

const adjudicationPromptTemplate = `You are an expert debate adjudicator. You have been asked to evaluate the following debate on the proposition:

"%s"

DEBATE TRANSCRIPT:
%s

Please evaluate this debate and provide your judgment in the following JSON format:
{
    "winner": "for|against|tie",
    "for_score": <score from 0-100>,
    "against_score": <score from 0-100>,
    "reasoning": "<detailed explanation of your decision>"
}

Evaluate based on:
- Strength and logic of arguments
- Use of evidence and examples
- Rebuttal effectiveness
- Clarity and persuasiveness
- Overall coherence

Respond ONLY with valid JSON, nothing else.`

func forSystemPrompt(proposition string) string {
	return fmt.Sprintf(forPromptTemplate, proposition)
}

func againstSystemPrompt(proposition string) string {
	return fmt.Sprintf(againstPromptTemplate, proposition)
}

// adjudicationPrompt embeds the proposition and the full labeled transcript
// into the judge's instruction.
func adjudicationPrompt(proposition string, messages []debate.Message) string {
	return fmt.Sprintf(adjudicationPromptTemplate, proposition, renderTranscript(messages))
}

// renderTranscript renders the transcript as alternating FOR/AGAINST labeled
// blocks in message order.
func renderTranscript(messages []debate.Message) string {
	blocks := make([]string, 0, len(messages))
	for _, m := range messages {
		label := "AGAINST"
		if m.Role == debate.RoleFor {
			label = "FOR"
		}
		blocks = append(blocks, fmt.Sprintf("%s: %s", label, m.Content))
	}
	return strings.Join(blocks, "\n\n")
}
