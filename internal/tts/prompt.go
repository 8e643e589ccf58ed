package tts

import (
	"strings"

	"github.com/dgnsrekt/vozviva-go/internal/voice"
)

// SpeechRequest is a fully resolved synthesis request.
type SpeechRequest struct {
	Prompt    string
	BaseVoice voice.BaseVoice
	VoiceName string
	Config    GenerationConfig
}

// BuildRequest resolves the voice and renders the role-play prompt.
// Unknown voice ids fall back to voice.FallbackBaseVoice and an unknown
// character name.
func BuildRequest(cfg GenerationConfig, voices []voice.Option) SpeechRequest {
	v := voice.Resolve(voices, cfg.VoiceID)

	var b strings.Builder
	b.WriteString("[INSTRUCCIONES DEL SISTEMA]\n")
	b.WriteString("Rol: Actor de doblaje profesional.\n")
	b.WriteString("Personaje: " + v.Name + " (Género: " + v.Gender.Label() + ").\n")
	b.WriteString("Acento: Español de " + cfg.Region.Label() + ".\n")
	b.WriteString("\n[CONFIGURACIÓN DE AUDIO]\n")
	b.WriteString("Estilo: " + cfg.Style.Label() + "\n")
	b.WriteString("Velocidad: " + cfg.Speed.Label() + "\n")
	b.WriteString("Tono: " + cfg.Pitch.Label() + "\n")
	b.WriteString("\n[REGLAS CRÍTICAS DE INTERPRETACIÓN]\n")
	b.WriteString("1. El texto entre corchetes, por ejemplo [risa], [pausa], [llanto], [susurro], [grito], son ACOTACIONES (didascalias).\n")
	b.WriteString("2. NO LEAS el texto dentro de los corchetes.\n")
	b.WriteString("3. EJECUTA el sonido o la emoción que indican.\n")
	b.WriteString("   - Si dice [risa], ríete naturalmente.\n")
	b.WriteString("   - Si dice [pausa], haz silencio por 2 segundos.\n")
	b.WriteString("   - Si dice [susurro], susurra la frase siguiente.\n")
	b.WriteString("   - Si dice [grito], exclama con fuerza.\n")
	b.WriteString("\n[GUIÓN A LEER]\n")
	b.WriteString("\"" + cfg.Text + "\"\n")

	return SpeechRequest{
		Prompt:    b.String(),
		BaseVoice: v.BaseVoice,
		VoiceName: v.Name,
		Config:    cfg,
	}
}
