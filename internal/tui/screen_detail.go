package tui

import (
	"fmt"
	"strings"
)

func (m appModel) viewDetail() string {
	entry, ok := m.current()
	if !ok {
		return renderPage("CANVAS VAULT — КЛЮЧ", "Ключ не выбран", "esc: назад")
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Провайдер:  %s\n", entry.Provider))
	if entry.Name != "" {
		b.WriteString(fmt.Sprintf("Имя:        %s\n", entry.Name))
	}
	b.WriteString(fmt.Sprintf("Секрет:     %s••••••••\n", entry.KeyPrefix))
	b.WriteString(fmt.Sprintf("Создан:     %s\n", entry.CreatedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Использован: %s\n", formatTime(entry.LastUsedAt)))
	b.WriteString(fmt.Sprintf("Истекает:   %s\n", formatTime(entry.ExpiresAt)))
	if entry.IsDefault {
		b.WriteString("По умолчанию для провайдера\n")
	}
	for k, v := range entry.Metadata {
		b.WriteString(fmt.Sprintf("%s: %s\n", k, v))
	}

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Ошибка: " + m.errMsg))
		b.WriteString("\n")
	}

	return renderPage(
		"CANVAS VAULT — КЛЮЧ",
		strings.TrimRight(b.String(), "\n"),
		"c: копировать секрет │ esc: назад │ q: выход",
	)
}
