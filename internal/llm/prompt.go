package llm

import (
	"fmt"
	"strings"

	"codeberg.org/whbprompts/server/internal/gateway"
)

const (
	midjourneySuffix = " --v 6.1 --stylize 300 --ar 16:9"
	emptyPrompt      = "Could not generate prompt."
)

// names the model the prompt is written for; midjourney wins when both are set
func targetModel(opts gateway.Options) string {
	switch {
	case opts.MidjourneyFormat:
		return "Midjourney v6.1"
	case opts.StableDiffusionFormat:
		return "Stable Diffusion XL"
	default:
		return "General"
	}
}

func buildAnalysisPrompt(opts gateway.Options) string {
	var sb strings.Builder

	sb.WriteString("Analyze this image and generate a highly detailed image generation prompt.\n")
	sb.WriteString("Describe the subject, environment, lighting, and style.\n\n")
	sb.WriteString("Configuration:\n")
	fmt.Fprintf(&sb, "- Target Model: %s\n", targetModel(opts))
	fmt.Fprintf(&sb, "- Include Style Tags: %t\n", opts.StyleTags)
	fmt.Fprintf(&sb, "- Include Color Palette: %t\n", opts.ColorPalette)
	fmt.Fprintf(&sb, "- Include Lighting Breakdown: %t\n", opts.LightingBreakdown)
	fmt.Fprintf(&sb, "- Include Negative Prompt: %t\n\n", opts.NegativePrompt)
	sb.WriteString("Return ONLY the final prompt string. If a negative prompt is requested, ")
	sb.WriteString(`append it at the end clearly labeled as "[NEGATIVE PROMPT]".`)

	return sb.String()
}

func buildRefinePrompt(prompt, instruction string) string {
	return fmt.Sprintf(`You are a professional Prompt Engineer. Your task is to modify the following image generation prompt based on the user's specific instruction. Keep the professional formatting.

Original Prompt:
"%s"

User's Instruction:
"%s"

Output ONLY the revised prompt. Do not include any explanations or conversational text.`, prompt, instruction)
}

// applies the fallback text and the midjourney parameter suffix
func finalizePrompt(text string, opts gateway.Options) string {
	if text == "" {
		text = emptyPrompt
	}

	if opts.MidjourneyFormat && !strings.Contains(text, "--v") {
		text += midjourneySuffix
	}

	return text
}
