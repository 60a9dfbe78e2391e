// Package fallback provides canned interpretation replies for degraded
// mode: when a guest message cannot reach the backend, the conversation
// continues on a local response instead of a hard error.
package fallback

import (
	"fmt"
	"math/rand"
)

// Responder produces an interpretation reply for a user message.
type Responder interface {
	Reply(message string) string
}

var templates = []func(excerpt string) string{
	func(excerpt string) string {
		return fmt.Sprintf("🧠 **Анализ сна**\n\nВаш сон \"%s...\" говорит о внутренних переживаниях. Это может быть связано с вашими текущими эмоциями и мыслями.\n\n**Рекомендация:** Обратите внимание на детали сна - они могут подсказать важные insights.", excerpt)
	},
	func(excerpt string) string {
		return fmt.Sprintf("💭 **Интерпретация**\n\nСновидение о \"%s...\" часто связано с подсознательными процессами. Ваш разум обрабатывает полученную за день информацию.\n\n**Вопрос:** Какие чувства вы испытывали во сне?", excerpt)
	},
	func(excerpt string) string {
		return fmt.Sprintf("🌙 **Толкование**\n\nЭтот тип снов обычно отражает наши скрытые желания или страхи. \"%s...\" может символизировать переход или изменение.\n\n**Совет:** Запишите все детали для лучшего анализа.", excerpt)
	},
	func(excerpt string) string {
		return fmt.Sprintf("✨ **Психологический анализ**\n\nСон \"%s...\" может указывать на необходимость обратить внимание на определенные аспекты жизни. Часто такие сны приходят в периоды перемен.\n\n**Рекомендация:** Поразмышляйте над символами из сна.", excerpt)
	},
}

// Excerpt lengths of the original templates, index-aligned.
var excerptRunes = []int{30, 25, 20, 25}

// Canned replies with a message excerpt spliced in. The pick function is
// injectable so tests can pin the template.
type Canned struct {
	pick func(n int) int
}

// NewCanned instantiates a randomized canned responder.
func NewCanned() *Canned {
	return &Canned{pick: rand.Intn}
}

// NewCannedWithPick instantiates a canned responder with a fixed picker.
func NewCannedWithPick(pick func(n int) int) *Canned {
	return &Canned{pick: pick}
}

// Reply implements Responder.
func (c *Canned) Reply(message string) string {
	i := c.pick(len(templates))
	return templates[i](excerpt(message, excerptRunes[i]))
}

func excerpt(message string, limit int) string {
	runes := []rune(message)
	if len(runes) <= limit {
		return message
	}
	return string(runes[:limit])
}
