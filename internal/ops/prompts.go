package ops

import (
	"fmt"
	"strings"

	"github.com/sproutnotes/sprout/internal/idea"
)

// Prompt builders. These are product content, not structure: wording
// may evolve freely as long as structured prompts keep demanding raw
// JSON with the documented keys.

func chatPrompt(i *idea.Idea, history []idea.ChatMessage, message string) string {
	var transcript strings.Builder
	for _, msg := range history {
		who := "Assistant"
		if msg.Role == idea.RoleUser {
			who = "User"
		}
		transcript.WriteString(who + ": " + msg.Content + "\n")
	}

	return fmt.Sprintf(`You are a critical, experienced startup advisor analyzing the idea: %q.
Details: %s

Help the user refine the idea by identifying risks, challenging assumptions, and offering objective feedback.
Do not be sycophantic or blindly agreeable. Be honest about feasibility and market challenges.

Previous conversation:
%s
User: %s

Reply directly to the user's last message, maintaining the context of the startup idea.`,
		i.Title, i.Details, transcript.String(), message)
}

func planPrompt(i *idea.Idea) string {
	return fmt.Sprintf(`I have a startup idea: %q.
Details: %s

The user wants to proceed with this idea. Create a detailed, step-by-step implementation plan.

First provide a "Critical Feasibility Analysis" section that ruthlessly evaluates viability and pitfalls.
Then, if the idea has merit, cover:

1. MVP Definition
2. Technology Stack Recommendations
3. Go-to-Market Strategy
4. Monetization Path

Format the result with Markdown headers.`, i.Title, i.Details)
}

func keywordsPrompt(i *idea.Idea) string {
	return fmt.Sprintf(`Analyze the following startup idea and extract 5 conceptually relevant keywords.
Return ONLY the keywords separated by commas.

Title: %s
Details: %s`, i.Title, i.Details)
}

func viabilityPrompt(i *idea.Idea) string {
	return fmt.Sprintf(`Write a business viability report for the startup idea %q.
Details: %s

Cover market size, target audience, revenue potential, key risks, and a final verdict.
Be critical and specific. Format the result with Markdown headers.`, i.Title, i.Details)
}

func competitorPrompt(i *idea.Idea) string {
	return fmt.Sprintf(`Identify the most relevant existing competitors for the startup idea %q.
Details: %s

For each competitor describe what they do, their strengths, and where this idea could differentiate.
Format the result with Markdown headers.`, i.Title, i.Details)
}

func generatePrompt(topic string) string {
	return fmt.Sprintf(`%s

Strictly output the result as a valid JSON array of objects, where each object has these keys:
- "title": the title of the idea
- "details": a short description of the idea

Do NOT include any markdown formatting or code fences. Return ONLY the raw JSON array.`, topic)
}

func mvpPrompt(candidates []GeneratedIdea) string {
	var list strings.Builder
	for n, c := range candidates {
		fmt.Fprintf(&list, "%d. %s — %s\n", n, c.Title, c.Details)
	}

	return fmt.Sprintf(`Here is a numbered list of startup ideas:

%s
Pick the single best candidate for a minimal viable product, weighing feasibility, market demand, and time to launch.

Strictly output a raw JSON object with these keys:
- "index": the zero-based number of the chosen idea
- "reason": one paragraph explaining the choice

Return ONLY the raw JSON object, no markdown fences.`, list.String())
}

func organizePrompt(ideas []idea.Idea) string {
	var list strings.Builder
	for _, i := range ideas {
		fmt.Fprintf(&list, "- id: %s | title: %s | details: %s\n", i.ID, i.Title, i.Details)
	}

	return fmt.Sprintf(`Group the following startup ideas into 3-6 thematic folders.

%s
Strictly output a raw JSON array of objects, where each object has these keys:
- "name": a short folder name
- "description": one sentence describing the theme
- "ideaIds": an array of the idea ids that belong in the folder

Every id must come from the list above. Return ONLY the raw JSON array, no markdown fences.`, list.String())
}

func summarizePrompt(transcript string) string {
	return fmt.Sprintf(`The following is a brainstorming conversation about a potential startup.

%s

Distill it into a single startup idea. Strictly output a raw JSON object with these keys:
- "title": a concise name for the idea
- "details": a few sentences describing it

Return ONLY the raw JSON object, no markdown fences.`, transcript)
}
