package engine

import "fmt"

// LLM prompt templates: data only, no logic.

// researchPrompt asks for a complete five-section report.
// Args: query, serialized search results.
const researchPrompt = `Research Query: %s

Web Search Results:
%s

IMPORTANT: Provide a COMPLETE, COMPREHENSIVE, DETAILED research response. Do not truncate or stop mid-sentence. Ensure all sections are fully developed.

Please provide a thorough research response with the following structure:

## Summary
Provide a comprehensive 3-4 sentence overview of the topic with key insights.

## Key Findings
• Main finding 1 with detailed supporting information and context
• Main finding 2 with detailed supporting information and context
• Main finding 3 with detailed supporting information and context
• Additional important findings with full explanations

## Detailed Analysis
Provide comprehensive, in-depth explanation with:
- Technical details and mechanisms
- Context and background information
- Examples, statistics, and data from search results
- Implications and significance
- Current state and future prospects

## Conclusion
Provide detailed summary of main takeaways, implications, and significance.

## Sources
List all relevant URLs and sources from the search results with brief descriptions.

CRITICAL: Complete ALL sections fully. Do not stop writing until you have provided comprehensive coverage of the topic. Write a thorough, professional response that addresses every aspect of the query:`

// BuildResearchPrompt interpolates the query and search text into researchPrompt.
func BuildResearchPrompt(query, searchResults string) string {
	return fmt.Sprintf(researchPrompt, query, searchResults)
}
