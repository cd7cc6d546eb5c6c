package dialog

import "strings"

// IntentKind класс входящего сообщения.
type IntentKind int

const (
	IntentText IntentKind = iota
	IntentStart
	IntentMenu
)

func (k IntentKind) String() string {
	switch k {
	case IntentStart:
		return "start"
	case IntentMenu:
		return "menu"
	default:
		return "text"
	}
}

// MenuOption пункт меню.
type MenuOption int

const (
	MenuRegister MenuOption = iota + 1
	MenuAuthenticate
	MenuGenerateCode
)

// Intent результат классификации сообщения.
type Intent struct {
	Kind   IntentKind
	Option MenuOption // только для IntentMenu
	Text   string
}

const startCommand = "/start"

// Classify относит сообщение к одному из классов в порядке приоритета:
// команда /start, точное совпадение с кнопкой меню, свободный текст.
// Меню распознаётся на любом шаге диалога.
func Classify(text string) Intent {
	if isStartCommand(text) {
		return Intent{Kind: IntentStart, Text: text}
	}
	switch text {
	case LabelRegister:
		return Intent{Kind: IntentMenu, Option: MenuRegister, Text: text}
	case LabelAuthenticate:
		return Intent{Kind: IntentMenu, Option: MenuAuthenticate, Text: text}
	case LabelGenerateCode:
		return Intent{Kind: IntentMenu, Option: MenuGenerateCode, Text: text}
	}
	return Intent{Kind: IntentText, Text: text}
}

// isStartCommand принимает "/start", "/start@botname" и "/start <payload>".
func isStartCommand(text string) bool {
	cmd, _, _ := strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return cmd == startCommand
}
