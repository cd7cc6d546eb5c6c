package dialog

import "fmt"

// Phase шаг диалога одного чата.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingGivenName
	PhaseAwaitingFamilyName
	PhaseAwaitingPatronymic
	PhaseAwaitingDocumentNumber
	PhaseAwaitingAuthDocumentNumber
)

var phaseNames = [...]string{
	PhaseIdle:                       "idle",
	PhaseAwaitingGivenName:          "awaiting_given_name",
	PhaseAwaitingFamilyName:         "awaiting_family_name",
	PhaseAwaitingPatronymic:         "awaiting_patronymic",
	PhaseAwaitingDocumentNumber:     "awaiting_document_number",
	PhaseAwaitingAuthDocumentNumber: "awaiting_auth_document_number",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) {
	if p < 0 || int(p) >= len(phaseNames) {
		return nil, fmt.Errorf("unknown phase %d", int(p))
	}
	return []byte(phaseNames[p]), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for i, name := range phaseNames {
		if name == string(text) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// Draft поля регистрации, принятые на текущий момент.
// Номер документа в черновик не попадает: он сразу уходит в хранилище.
type Draft struct {
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
	Patronymic string `json:"patronymic,omitempty"`
}

// State состояние диалога одного чата.
type State struct {
	Phase Phase `json:"phase"`
	Draft Draft `json:"draft"`
}

// Idle возвращает начальное состояние.
func Idle() State {
	return State{Phase: PhaseIdle}
}

// Valid сообщает, согласован ли черновик с шагом: на каждом шаге заполнены
// ровно те поля, которые были приняты до него.
func (s State) Valid() bool {
	given := s.Draft.GivenName != ""
	family := s.Draft.FamilyName != ""
	patronymic := s.Draft.Patronymic != ""

	switch s.Phase {
	case PhaseIdle, PhaseAwaitingGivenName, PhaseAwaitingAuthDocumentNumber:
		return !given && !family && !patronymic
	case PhaseAwaitingFamilyName:
		return given && !family && !patronymic
	case PhaseAwaitingPatronymic:
		return given && family && !patronymic
	case PhaseAwaitingDocumentNumber:
		return given && family && patronymic
	default:
		return false
	}
}

func awaitingGivenName() State {
	return State{Phase: PhaseAwaitingGivenName}
}

func awaitingAuthDocument() State {
	return State{Phase: PhaseAwaitingAuthDocumentNumber}
}

func (s State) withGivenName(name string) State {
	return State{Phase: PhaseAwaitingFamilyName, Draft: Draft{GivenName: name}}
}

func (s State) withFamilyName(name string) State {
	return State{
		Phase: PhaseAwaitingPatronymic,
		Draft: Draft{GivenName: s.Draft.GivenName, FamilyName: name},
	}
}

func (s State) withPatronymic(name string) State {
	return State{
		Phase: PhaseAwaitingDocumentNumber,
		Draft: Draft{GivenName: s.Draft.GivenName, FamilyName: s.Draft.FamilyName, Patronymic: name},
	}
}
