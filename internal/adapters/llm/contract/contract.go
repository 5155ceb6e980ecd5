// Package contract holds the prompt and output schema shared by the LLM
// adapters, and decodes their replies into a domain.FortuneResult.
package contract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rty-renty/SuanMing/internal/domain"
	"github.com/rty-renty/SuanMing/internal/ports"
)

// DefaultTemperature favours creative diversity.
const DefaultTemperature float32 = 1.0

// SchemaName is the name given to the structured output schema.
const SchemaName = "divination"

// Fields lists the required output fields in order. Every field is a string.
var Fields = []string{"spiritRoot", "realm", "element", "poem", "analysis", "luckyArtifact"}

// SystemPrompt sets the persona, tone and output language.
const SystemPrompt = `You are the "Heavenly Secret Elder" (天机老人) of a supreme cultivation sect.
You perform serious and mystical divinations for mortals.

Tone: Ancient, Profound, Mystical.
Language: Simplified Chinese.

Respond with ONLY a JSON object (no markdown, no code fences, no extra text).`

// UserPrompt embeds the querent's name and birth date and describes each field.
func UserPrompt(in ports.DivineInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Perform a divination for a mortal named %q born on %q.\n\n", in.Name, in.BirthDate)
	b.WriteString("Output JSON strictly.\n\nFields:\n")
	b.WriteString(`- spiritRoot: 4-6 chars. Creative Spirit Root. Examples: "荒古圣体", "太阴幽荧体", "九劫雷灵根".
- realm: The absolute peak cultivation realm they are destined for. Examples: "大罗金仙", "仙帝", "渡劫期".
- element: 4 chars describing their element. e.g. "离火焚天", "弱水三千".
- poem: A creative 4-line 7-character Chinese poem (七言绝句 style) describing their epic destiny.
- analysis: A profound, slightly archaic paragraph (approx 100 words) analyzing their fate, warning of a specific "Tribulation" (劫难), and praising their potential. Use terms like "道友", "机缘", "心魔".
- luckyArtifact: A legendary artifact name. e.g. "东皇钟", "诛仙剑".
`)
	return b.String()
}

// RetryPrompt asks the model to correct a reply that failed to decode.
func RetryPrompt(bad string) string {
	return fmt.Sprintf(`Your previous response was not a valid JSON object with the fields %s. Here is what you returned:
%s

Return ONLY the corrected JSON object (no markdown, no code fences).`, strings.Join(Fields, ", "), bad)
}

// JSONSchema returns the output schema as a JSON Schema document.
func JSONSchema() map[string]any {
	props := make(map[string]any, len(Fields))
	for _, f := range Fields {
		props[f] = map[string]any{"type": "string"}
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             Fields,
		"additionalProperties": false,
	}
}

// Decode parses a model reply and checks that all fields are present.
// Markdown code fences around the object are tolerated.
func Decode(content string) (domain.FortuneResult, error) {
	content = stripFences(content)
	if content == "" {
		return domain.FortuneResult{}, fmt.Errorf("%w: empty response", domain.ErrInvalidLLMJSON)
	}

	var out domain.FortuneResult
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return domain.FortuneResult{}, fmt.Errorf("%w: %w", domain.ErrInvalidLLMJSON, err)
	}
	if err := out.Validate(); err != nil {
		return domain.FortuneResult{}, err
	}
	return out, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
