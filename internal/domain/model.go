package domain

// Provider identifies an upstream LLM vendor.
type Provider string

// Provider tags. Only some of them have an endpoint configured; see the
// provider package for the resolution table.
const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "google"
	ProviderDeepSeek  Provider = "deepseek"
	ProviderQwen      Provider = "qwen"
	ProviderGrok      Provider = "grok"
	ProviderLocal     Provider = "local"
)

func (p Provider) String() string {
	return string(p)
}

// Model describes an LLM that can be selected for generation.
type Model struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Provider Provider `json:"provider"`
}

var availableModels = []Model{
	{ID: "gpt-4o", Name: "GPT-4o", Provider: ProviderOpenAI},
	{ID: "gpt-4-turbo", Name: "GPT-4 Turbo", Provider: ProviderOpenAI},
	{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo", Provider: ProviderOpenAI},
	{ID: "deepseek-chat", Name: "DeepSeek Chat", Provider: ProviderDeepSeek},
	{ID: "deepseek-coder", Name: "DeepSeek Coder", Provider: ProviderDeepSeek},
	{ID: "qwen-turbo", Name: "Qwen Turbo", Provider: ProviderQwen},
	{ID: "qwen-plus", Name: "Qwen Plus", Provider: ProviderQwen},
	{ID: "grok-1", Name: "Grok-1", Provider: ProviderGrok},
}

// AvailableModels returns the models offered for generation. IDs are unique.
func AvailableModels() []Model {
	out := make([]Model, len(availableModels))
	copy(out, availableModels)
	return out
}

// FindModel looks a model up by ID.
func FindModel(id string) (Model, bool) {
	for _, m := range availableModels {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}
