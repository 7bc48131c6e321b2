package tui

import (
	"fmt"
	"strings"
)

func (m appModel) viewList() string {
	if m.confirmDelete {
		entry, _ := m.current()
		label := entry.Provider
		if entry.Name != "" {
			label += " / " + entry.Name
		}
		content := "Удалить \"" + label + "\"?\n\n"
		content += "y да    n нет"
		return overlayBoxStyle.Render(content)
	}

	var b strings.Builder

	if m.loading {
		b.WriteString("Загрузка...\n")
	} else if len(m.entries) == 0 {
		b.WriteString("Нет ключей\n")
	} else {
		for i, entry := range m.entries {
			cursor := "  "
			if i == m.idx {
				cursor = "> "
			}
			marker := " "
			if entry.IsDefault {
				marker = "*"
			}
			b.WriteString(fmt.Sprintf("%s%s %-14s %-20s %s\n",
				cursor, marker, fitText(entry.Provider, 14), fitText(entry.Name, 20), entry.KeyPrefix))
		}
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
		"CANVAS VAULT — КЛЮЧИ",
		strings.TrimRight(b.String(), "\n"),
		"enter: открыть │ n: новый │ d: удалить │ q: выход",
	)
}
