package usecase

import "strings"

// DefaultSystemPrompt is sent to every generation provider.
const DefaultSystemPrompt = "Sen, İslami App'in yapay zeka asistanısın. " +
	"Sadece Kur'an, Kütüb-i Sitte ve muteber fıkıh kaynaklarından cevap ver. " +
	"Her cevabın sonunda kaynak belirt. Kişisel yorum ekleme. " +
	"Soruyu anlamazsan kullanıcıdan daha açık sormasını iste."

// Messages are the canned user-facing texts.
type Messages struct {
	Greeting       string
	Clarify        string
	NoSource       string
	LocalTemplate  string
	ComposedHeader string
	ComposedFooter string
	AILabel        string
}

func DefaultMessages() Messages {
	return Messages{
		Greeting:       "Merhaba! Size nasıl yardımcı olabilirim?",
		Clarify:        "Sorunuzu daha açık yazar mısınız?",
		NoSource:       "Bu konuda güvenilir hadis kaynağı bulunamadı. Lütfen sorunuzu farklı şekilde ifade edin.",
		LocalTemplate:  "Bu konuda %s kaynaklarında bilgi bulunmaktadır. Detaylı bilgi için güvenilir hadis kaynaklarına başvurmanız önerilir.",
		ComposedHeader: "Bu konuyla ilgili hadis kaynaklarında şu bilgiler yer almaktadır:",
		ComposedFooter: "Daha alakalı hadislere ulaşmak için sorunuzu belirli bir konuya daraltarak tekrar sorabilirsiniz.",
		AILabel:        "AI Asistan",
	}
}

// WithDefaults fills blank fields from DefaultMessages.
func (m Messages) WithDefaults() Messages {
	def := DefaultMessages()
	fill := func(v *string, fallback string) {
		if strings.TrimSpace(*v) == "" {
			*v = fallback
		}
	}
	fill(&m.Greeting, def.Greeting)
	fill(&m.Clarify, def.Clarify)
	fill(&m.NoSource, def.NoSource)
	fill(&m.LocalTemplate, def.LocalTemplate)
	fill(&m.ComposedHeader, def.ComposedHeader)
	fill(&m.ComposedFooter, def.ComposedFooter)
	fill(&m.AILabel, def.AILabel)
	if !strings.Contains(m.LocalTemplate, "%s") {
		m.LocalTemplate = def.LocalTemplate
	}
	return m
}
