package domain

import "strings"

// Intent - закрытое множество категорий запроса
type Intent int

const (
	IntentGeneralQuery Intent = iota
	IntentCreateProject
	IntentDeleteProject
	IntentCompleteProject
	IntentRemoveMember
	IntentAssignTask
	IntentCodeRequest
	IntentSearchRequest
)

var intentNames = map[Intent]string{
	IntentGeneralQuery:    "GENERAL_QUERY",
	IntentCreateProject:   "CREATE_PROJECT",
	IntentDeleteProject:   "DELETE_PROJECT",
	IntentCompleteProject: "COMPLETE_PROJECT",
	IntentRemoveMember:    "REMOVE_MEMBER",
	IntentAssignTask:      "ASSIGN_TASK",
	IntentCodeRequest:     "CODE_REQUEST",
	IntentSearchRequest:   "SEARCH_REQUEST",
}

// AllIntents в порядке, в котором они перечисляются в промпте классификатора
func AllIntents() []Intent {
	return []Intent{
		IntentCreateProject,
		IntentDeleteProject,
		IntentCompleteProject,
		IntentRemoveMember,
		IntentAssignTask,
		IntentCodeRequest,
		IntentSearchRequest,
		IntentGeneralQuery,
	}
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsGovernance - интенты, которые сначала требуют выбора команды
func (i Intent) IsGovernance() bool {
	switch i {
	case IntentDeleteProject, IntentCompleteProject, IntentRemoveMember, IntentAssignTask:
		return true
	}
	return false
}

// ParseIntent разбирает ответ модели. Допускает регистр, кавычки,
// обратные апострофы и завершающую пунктуацию; все остальное - ok=false.
func ParseIntent(raw string) (Intent, bool) {
	s := strings.Trim(raw, "`'\"*.!;:, \t\r\n")
	s = strings.ToUpper(s)
	if s == "" {
		return IntentGeneralQuery, false
	}
	for intent, name := range intentNames {
		if name == s {
			return intent, true
		}
	}
	return IntentGeneralQuery, false
}
