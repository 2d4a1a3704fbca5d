package orchestrator

import (
	"encoding/json"
	"fmt"
	"strings"

	"ai-reportdraft-be/pkg/llm"
	"ai-reportdraft-be/pkg/memory"
	"ai-reportdraft-be/pkg/search"
)

const intakeSystemPrompt = `You are a helpful academic writing assistant guiding the user through creating a report. In this initial phase you are collecting basic information about the report requirements.

Ask for ONE piece of information at a time, using a conversational tone. Tag each question with the field name in square brackets, e.g., "What's the title of your report? [TITLE]"

Use these field tags:
- [TITLE] - For the report title
- [DEPARTMENT] - For academic department or subject
- [OBJECTIVES] - For the report objectives
- [PROBLEM_STATEMENT] - For the research problem statement
- [SAMPLE_SIZE] - For the study sample size
- [ACADEMIC_LEVEL] - For the academic level (high school, undergraduate, graduate)
- [TARGET_AUDIENCE] - For the intended audience
- [TOPIC] - For the specific topic or focus
- [LENGTH] - For report length requirements (pages or word count)
- [DEADLINE] - For submission deadline
- [FORMAT] - For formatting requirements
- [CITATIONS] - For citation style (APA, MLA, Chicago, etc.)
- [ADDITIONAL_REQUIREMENTS] - For any other specific requirements

Title, department, objectives, problem statement and sample size are required; prioritize whichever of those is still missing.`

const plannerSystemPrompt = `You are an academic writing assistant in the planning phase. The user is preparing to draft one section of their report. Ask them for the bullet points the section should cover: short, itemized inputs, one idea per bullet. If no section is selected yet, ask them to pick the section they want to work on next from the guide.`

const executorSystemPrompt = `You are an academic writing assistant drafting one section of a report. Write complete, well-structured prose that covers every provided bullet point. Where a search result supports a statement, cite it inline as [Source N] matching the numbered result list. Respect the section requirements. Do not invent citations for sources you were not given.`

const reflectorSystemPrompt = `You are an academic writing assistant in the reflection phase. The user has just received a draft of a report section. Ask 3 to 5 open, Socratic questions that prompt them to engage critically with the draft: its argument, evidence, gaps and fit with the report objectives. Do not rewrite the draft.`

// Fallback replies used when the model cannot be reached; the workflow
// must always answer something.
const (
	intakeFallbackMessage     = "I'm sorry, I'm having trouble processing your answer right now. Could you repeat that?"
	planningFallbackMessage   = "Which points should this section cover? List them as bullet points, one idea per line."
	draftFailureMessage       = "I wasn't able to generate content for this section right now. Please send another message to retry."
	reflectionFallbackMessage = "Thank you for your reflections. Let's move on to the next section."
)

func intakeMessages(sess *Session, message string, missing []string) []llm.Message {
	var b strings.Builder

	if sess.Guide != nil {
		b.WriteString("Report guide:\n")
		fmt.Fprintf(&b, "Title: %s\n", sess.Guide.Title)
		if sess.Guide.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n", sess.Guide.Description)
		}
		if structure, err := json.Marshal(sess.Guide.Chapters); err == nil {
			fmt.Fprintf(&b, "Structure: %s\n", structure)
		}
		b.WriteString("\n")
	}
	if len(sess.Intake) > 0 {
		if intake, err := json.Marshal(sess.Intake); err == nil {
			fmt.Fprintf(&b, "Intake information collected so far: %s\n\n", intake)
		}
	}
	if len(missing) > 0 {
		fmt.Fprintf(&b, "Still missing required fields: %s\n\n", strings.Join(missing, ", "))
	}
	fmt.Fprintf(&b, "User message: %s\n\nRespond to the user and continue collecting the necessary information.", message)

	return []llm.Message{
		{Role: memory.RoleSystem, Content: intakeSystemPrompt},
		{Role: memory.RoleUser, Content: b.String()},
	}
}

func plannerMessages(sess *Session, info *SectionInfo, message string) []llm.Message {
	var b strings.Builder

	if info != nil {
		fmt.Fprintf(&b, "Current section: %s / %s\n", info.ChapterTitle, info.SectionTitle)
		if info.Description != "" {
			fmt.Fprintf(&b, "Section description: %s\n", info.Description)
		}
		if len(info.Requirements) > 0 {
			fmt.Fprintf(&b, "Section requirements: %s\n", strings.Join(info.Requirements, "; "))
		}
	} else if sess.Guide != nil {
		if structure, err := json.Marshal(sess.Guide.Chapters); err == nil {
			fmt.Fprintf(&b, "Guide structure: %s\n", structure)
		}
	}
	fmt.Fprintf(&b, "\nUser message: %s", message)

	return []llm.Message{
		{Role: memory.RoleSystem, Content: plannerSystemPrompt},
		{Role: memory.RoleUser, Content: b.String()},
	}
}

func executorMessages(info SectionInfo, bullets []string, results []search.Result, priorContext []string) []llm.Message {
	var b strings.Builder

	fmt.Fprintf(&b, "Draft the section %q of chapter %q.\n", info.SectionTitle, info.ChapterTitle)
	if info.Description != "" {
		fmt.Fprintf(&b, "Section description: %s\n", info.Description)
	}
	if len(info.Requirements) > 0 {
		fmt.Fprintf(&b, "Requirements: %s\n", strings.Join(info.Requirements, "; "))
	}

	b.WriteString("\nBullet points to cover:\n")
	for _, bullet := range bullets {
		fmt.Fprintf(&b, "- %s\n", bullet)
	}

	if len(results) > 0 {
		b.WriteString("\nSearch results:\n")
		for i, r := range results {
			fmt.Fprintf(&b, "[Source %d] %s (%s): %s\n", i+1, r.Title, r.URL, r.Snippet)
		}
	}

	if len(priorContext) > 0 {
		b.WriteString("\nRelated material drafted earlier in this report:\n")
		for _, prior := range priorContext {
			fmt.Fprintf(&b, "- %s\n", prior)
		}
	}

	return []llm.Message{
		{Role: memory.RoleSystem, Content: executorSystemPrompt},
		{Role: memory.RoleUser, Content: b.String()},
	}
}

func reflectorMessages(info SectionInfo, draft, message string) []llm.Message {
	var b strings.Builder

	fmt.Fprintf(&b, "Section: %s / %s\n\n", info.ChapterTitle, info.SectionTitle)
	if draft != "" {
		fmt.Fprintf(&b, "Draft:\n%s\n\n", draft)
	}
	fmt.Fprintf(&b, "User's reflection: %s", message)

	return []llm.Message{
		{Role: memory.RoleSystem, Content: reflectorSystemPrompt},
		{Role: memory.RoleUser, Content: b.String()},
	}
}
