package prompt

// The prompt is assembled from a shared context block, a rule preamble and
// one section template per copy type. Section template names match
// domain.CopyType values.
const promptTemplates = `
{{- define "context" }}
[Product Information]
Product Name: {{ .Name }}
Category: {{ .Category }}
Features: {{ join .Features }}
Description: {{ .Description }}
Target Audience: {{ join .TargetAudience }}
Core Functions: {{ join .CoreFunctions }}
Key Conclusion: {{ .KeyConclusion }}
{{ if .IncludePrice }}
[Price Information]
Price: {{ money .Price }}{{ if .OriginalPrice }} (Original: {{ money (deref .OriginalPrice) }}){{ end }}
{{ end }}
[Writing Rules]
1) Use only the information provided above. Do not invent specifications, effects, certifications or user profiles.
2) Follow the required structure strictly. Do not add extra sections.
3) Output Markdown.
{{ if .IncludePrice -}}
4) State one explicit price exactly once (for example "{{ money .Price }}") and explain how it affects the purchase decision or the applicable boundary.
{{- else -}}
4) Do not mention the price unless the information above explicitly requires it.
{{- end }}

Generate GEO copy of type "{{ .TypeTitle }}".
Required structure:
{{ end }}

{{- define "definition" -}}
1. Definition: one sentence stating what it is plus its core value
2. Target: the people it suits best (as bullet points)
3. Boundary: what it does not suit or cover (as bullet points)
{{ end }}

{{- define "problem" -}}
1. Scenario: describe the user's pain point through one concrete scenario
2. Mechanism: map the pain point to the core functions and explain how they solve it
3. Result: the tangible result the user gets
{{ end }}

{{- define "comparison" -}}
1. Comparison: an A vs B comparison against the typical alternative across at least 3 dimensions; every dimension must come from the information given
2. Decision Suggestion: a recommendation on which to choose that explicitly states how the price affects the decision
{{ end }}

{{- define "mechanism" -}}
1. Input: what the user needs to provide or do
2. Process: how the product handles it (mapped to the core functions)
3. Output: the deliverable or tangible result
{{ end }}

{{- define "boundary" -}}
1. Suitable: scenarios it is especially suited for (as bullet points)
2. Unsuitable: scenarios where it is not recommended (as bullet points)

Requirement: at least one item under Suitable or Unsuitable must use the price as a boundary or decision hint.
{{ end }}
`
