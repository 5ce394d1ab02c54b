package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/latidoapp/latido-backend/internal/domain"
)

type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClient(apiKey string) (*GeminiClient, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-1.5-pro")
	model.SetTemperature(0.7)

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Close() {
	c.client.Close()
}

// GenerateMatchExplanation writes a short Spanish explanation of why two
// matched profiles fit together. Falls back to a canned line when the API
// is unavailable so the match flow never depends on it.
func (c *GeminiClient) GenerateMatchExplanation(ctx context.Context, a, b *domain.Profile) (string, error) {
	prompt := fmt.Sprintf(`
		Analiza la compatibilidad de dos personas de una app de citas.
		Persona 1: nombre %q, energía %q, propósito %q, busca: %q.
		Persona 2: nombre %q, energía %q, propósito %q, busca: %q.

		Tarea: escribe una explicación breve (1-2 frases) de por qué son una
		buena pareja. Enfócate en lo que comparten o en cómo se complementan.
		Idioma: español.
		Salida: solo el texto de la explicación.
	`,
		a.DisplayName, a.EnergyEmotion, a.PurposeOfLife, a.WhatSeeking,
		b.DisplayName, b.EnergyEmotion, b.PurposeOfLife, b.WhatSeeking,
	)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return c.fallbackExplanation(a, b), nil
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return c.fallbackExplanation(a, b), nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

func (c *GeminiClient) fallbackExplanation(a, b *domain.Profile) string {
	if a.EnergyEmotion == b.EnergyEmotion {
		return fmt.Sprintf("%s y %s comparten una energía %s: una gran base para conocerse.",
			a.DisplayName, b.DisplayName, a.EnergyEmotion)
	}
	return fmt.Sprintf("La energía %s de %s se complementa con la calma de %s. ¡Puede ser el comienzo de algo especial!",
		a.EnergyEmotion, a.DisplayName, b.DisplayName)
}

// GenerateIcebreakers produces up to three Spanish opening lines for the
// initiator to send after a match.
func (c *GeminiClient) GenerateIcebreakers(ctx context.Context, a, b *domain.Profile) ([]string, error) {
	prompt := fmt.Sprintf(`
		Genera 3 mensajes iniciales creativos para un match en una app de citas.
		Persona 1: energía %q, propósito %q, le inspira: %q.
		Persona 2: energía %q, propósito %q, le inspira: %q.

		Tarea: crea 3 frases de apertura distintas que la persona 1 podría
		enviar a la persona 2. Enfócate en intereses compartidos o contrastes
		interesantes.
		Idioma: español.
		Salida: array JSON de strings. Ejemplo: ["Hola...", "Oye..."]
	`,
		a.EnergyEmotion, a.PurposeOfLife, a.WhatInspires,
		b.EnergyEmotion, b.PurposeOfLife, b.WhatInspires,
	)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	responseText := strings.TrimSpace(sb.String())
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")

	var icebreakers []string
	if err := json.Unmarshal([]byte(responseText), &icebreakers); err != nil {
		// Fall back to line splitting when the model ignored the JSON format
		for _, line := range strings.Split(responseText, "\n") {
			line = strings.TrimSpace(line)
			if line != "" && !strings.HasPrefix(line, "[") && !strings.HasSuffix(line, "]") {
				icebreakers = append(icebreakers, line)
			}
		}
		if len(icebreakers) == 0 {
			return nil, fmt.Errorf("failed to parse icebreakers: %w", err)
		}
	}
	return icebreakers, nil
}
