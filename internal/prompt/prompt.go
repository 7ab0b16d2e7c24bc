// Package prompt builds the prompts sent to the LLM provider. The
// outline prompt pins the response to a strict JSON schema so parsing
// is a versioned contract rather than best-effort text scraping.
package prompt

import (
	"fmt"
	"strings"
)

const outlineInstructions = `You are an expert educator and learning assistant. Analyze the following study material and structure it into a hierarchical mind map designed for easy memorization.

Identify the core concepts, main topics, and sub-topics, and organize them logically. Go at most %d levels deep below the root.

Provide your output ONLY as a single, valid JSON object. The structure is recursive, with a "name" for the topic and a "children" array for its sub-topics. The root element represents the overall subject.

Do not include any text, explanations, or markdown formatting like ` + "```json" + ` outside of the JSON object itself.

Example of the required JSON format:
{
  "name": "Overall Subject",
  "children": [
    {
      "name": "Main Topic 1",
      "children": [
        {"name": "Sub-topic 1.1"},
        {"name": "Sub-topic 1.2"}
      ]
    },
    {
      "name": "Main Topic 2"
    }
  ]
}

All topic names must be written in %s.`

// Outline builds the prompt that asks for a hierarchical topic outline
// of the given text.
func Outline(text, language string, maxDepth int) string {
	if language == "" {
		language = "English"
	}
	if maxDepth <= 0 {
		maxDepth = 3
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, outlineInstructions, maxDepth, language)
	sb.WriteString("\n\nStudy material to analyze:\n---\n")
	sb.WriteString(text)
	sb.WriteString("\n---\n")
	return sb.String()
}

const detailInstructions = `You are a world-class educator, skilled at breaking down complex topics into simple, memorable concepts.
Provide a clear and detailed explanation for the following topic, formatted in markdown and written in %s.
Your explanation should include:
1. **Summary**: A brief, one or two-sentence summary of the topic.
2. **Key Points**: A bulleted list of the 3-5 most important concepts or facts.
3. **Example/Analogy**: A simple, real-world example or an easy-to-understand analogy.

Do not include the topic name as a header in your response. The application provides the title.`

// Detail builds the prompt that asks for an explanation of a single
// topic, with the outline path as context.
func Detail(label string, path []string, language string) string {
	if language == "" {
		language = "English"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, detailInstructions, language)
	if len(path) > 1 {
		sb.WriteString("\n\nContext: this topic appears under ")
		sb.WriteString(strings.Join(path[:len(path)-1], " > "))
		sb.WriteString(".")
	}
	fmt.Fprintf(&sb, "\n\nTopic to explain: %q\n", label)
	return sb.String()
}
