package tui

import "strings"

func (m appModel) viewAuth() string {
	var b strings.Builder

	if m.initMode {
		b.WriteString("Хранилище ещё не создано.\n\n")
		b.WriteString("Пароль      │ [")
		b.WriteString(m.authInputs[0].View())
		b.WriteString("]\n")
		b.WriteString("Повтор      │ [")
		b.WriteString(m.authInputs[1].View())
		b.WriteString("]\n")
	} else {
		b.WriteString("Пароль      │ [")
		b.WriteString(m.authInputs[0].View())
		b.WriteString("]\n")
	}

	if m.submitting {
		b.WriteString("\n[Открываем...]\n")
	} else if m.initMode {
		b.WriteString("\n[Создать хранилище]\n")
	} else {
		b.WriteString("\n[Разблокировать]\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Ошибка: " + m.errMsg))
		b.WriteString("\n")
	}

	title := "CANVAS VAULT — РАЗБЛОКИРОВКА"
	hotKeys := "enter: подтвердить"
	if m.initMode {
		title = "CANVAS VAULT — СОЗДАНИЕ"
		hotKeys = "tab: след. поле │ enter: подтвердить"
	}
	if m.version != "" {
		title += "  v" + m.version
	}

	return renderPage(title, strings.TrimRight(b.String(), "\n"), hotKeys)
}
