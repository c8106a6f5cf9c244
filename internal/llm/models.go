package llm

// ModelPreset is a selectable model shown in the model picker.
type ModelPreset struct {
	ID     string
	Label  string
	Remote bool
}

// DefaultModel is used when no model preference has been stored.
const DefaultModel = "qwen2.5-1.5b-cpu"

// Presets lists the models the rlpro backend knows how to serve.
// On-device presets run locally; remote ones are proxied by the backend to
// an OpenAI-compatible API.
var Presets = []ModelPreset{
	{ID: "qwen2.5-1.5b-cpu", Label: "On-Device: Qwen2.5-1.5B (CPU)"},
	{ID: "qwen3-4b-cpu", Label: "On-Device: Qwen3-4B (CPU)"},
	{ID: "qwen3-4b-gpu", Label: "On-Device: Qwen3-4B (GPU)"},
	{ID: "qwen3-8b-cpu", Label: "On-Device: Qwen3-8B (CPU)"},
	{ID: "qwen3-8b-gpu", Label: "On-Device: Qwen3-8B (GPU)"},
	{ID: "qwen3-8b-npu", Label: "On-Device: Qwen3-8B (NPU)"},
	{ID: "qwen3-14b-gpu", Label: "On-Device: Qwen3-14B (GPU)"},
	{ID: "qwen3-next-80b-a3b-instruct", Label: "Remote: Qwen3-Next-80B (API)", Remote: true},
}

// IsPreset reports whether id names a known preset.
func IsPreset(id string) bool {
	for _, p := range Presets {
		if p.ID == id {
			return true
		}
	}
	return false
}

// NormalizeModel returns id when it is a known preset, DefaultModel otherwise.
func NormalizeModel(id string) string {
	if IsPreset(id) {
		return id
	}
	return DefaultModel
}

// resolveModel maps a friendly model name to a provider model ID.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	// Unknown names pass through so direct model IDs work.
	return name
}
