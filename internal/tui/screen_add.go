package tui

import "strings"

func (m appModel) viewAdd() string {
	var b strings.Builder
	b.WriteString("Поле       │ Значение\n")
	b.WriteString("───────────┼────────────────────────────────────────────\n")
	b.WriteString("Провайдер  │ [")
	b.WriteString(m.addInputs[0].View())
	b.WriteString("]\n")
	b.WriteString("Имя        │ [")
	b.WriteString(m.addInputs[1].View())
	b.WriteString("]\n")
	b.WriteString("Секрет     │ [")
	b.WriteString(m.addInputs[2].View())
	b.WriteString("]\n")

	checkbox := "[ ]"
	if m.addDefault {
		checkbox = "[x]"
	}
	cursor := "  "
	if m.addFocus == 3 {
		cursor = "> "
	}
	b.WriteString("По умолч.  │ " + cursor + checkbox + "\n")

	button := "[Сохранить]"
	if m.saving {
		button = "[Сохраняем...]"
	}
	if m.addFocus == 4 {
		button = "> " + button
	} else {
		button = "  " + button
	}
	b.WriteString("\n" + button + "\n")

	if m.addErr != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Ошибка: " + m.addErr))
		b.WriteString("\n")
	}

	return renderPage(
		"CANVAS VAULT — НОВЫЙ КЛЮЧ",
		strings.TrimRight(b.String(), "\n"),
		"tab: след. поле │ enter: далее/подтвердить │ esc: отмена",
	)
}
