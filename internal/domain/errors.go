package domain

import "fmt"

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Это позволяет использовать errors.Is()
func (e *DomainError) Is(target error) bool {
	if t, ok := target.(*DomainError); ok {
		return e.Code == t.Code
	}
	return false
}

var (
	// ErrClassificationFallback - классификатор не дал пригодного ответа
	ErrClassificationFallback = &DomainError{
		Code:    "CLASSIFICATION_FALLBACK",
		Message: "intent could not be classified",
	}

	// ErrResolutionNotFound - цель не найдена среди кандидатов
	ErrResolutionNotFound = &DomainError{
		Code:    "RESOLUTION_NOT_FOUND",
		Message: "target could not be resolved",
	}

	// ErrNotLeader - действие доступно только лидеру команды
	ErrNotLeader = &DomainError{
		Code:    "NOT_LEADER",
		Message: "only the team leader can perform this action",
	}

	// ErrSelfRemoval - нельзя удалить самого себя
	ErrSelfRemoval = &DomainError{
		Code:    "SELF_REMOVAL",
		Message: "you cannot remove yourself from the team",
	}

	// ErrLeaderRemoval - лидера удалить нельзя
	ErrLeaderRemoval = &DomainError{
		Code:    "LEADER_REMOVAL",
		Message: "the team leader cannot be removed",
	}

	// ErrNotAMember - пользователь не состоит в команде
	ErrNotAMember = &DomainError{
		Code:    "NOT_A_MEMBER",
		Message: "user is not a member of this team",
	}

	// ErrNotEligible - пользователь не может голосовать по этому запросу
	ErrNotEligible = &DomainError{
		Code:    "NOT_ELIGIBLE",
		Message: "user is not eligible to vote on this request",
	}

	// ErrVoteAlreadyActive - голосование такого типа уже идет
	ErrVoteAlreadyActive = &DomainError{
		Code:    "VOTE_ALREADY_ACTIVE",
		Message: "a vote for this action is already active",
	}

	// ErrTeamCompleted - завершенная команда принимает только удаление
	ErrTeamCompleted = &DomainError{
		Code:    "TEAM_COMPLETED",
		Message: "project is already completed",
	}

	// ErrNoActiveVote - нет активного голосования
	ErrNoActiveVote = &DomainError{
		Code:    "NO_ACTIVE_VOTE",
		Message: "there is no active vote for this action",
	}

	// ErrVersionConflict - команда была изменена параллельным запросом
	ErrVersionConflict = &DomainError{
		Code:    "VERSION_CONFLICT",
		Message: "team was modified concurrently",
	}

	// ErrExtractionFailure - модель вернула некорректные структурированные данные
	ErrExtractionFailure = &DomainError{
		Code:    "EXTRACTION_FAILURE",
		Message: "could not extract structured data from the request",
	}

	// ErrTransientUpstream - ошибка или таймаут внешнего сервиса
	ErrTransientUpstream = &DomainError{
		Code:    "TRANSIENT_UPSTREAM",
		Message: "upstream service is unavailable",
	}

	// ErrInvalidVote - неизвестный вариант голоса или действия
	ErrInvalidVote = &DomainError{
		Code:    "INVALID_VOTE",
		Message: "invalid vote",
	}

	// ErrNotFound - ресурс не найден
	ErrNotFound = &DomainError{
		Code:    "NOT_FOUND",
		Message: "resource not found",
	}
)

// NewNotFoundError создает ошибку NOT_FOUND с дополнительным контекстом
func NewNotFoundError(resource string) *DomainError {
	return &DomainError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewExtractionError создает ошибку EXTRACTION_FAILURE с причиной
func NewExtractionError(reason string) *DomainError {
	return &DomainError{
		Code:    "EXTRACTION_FAILURE",
		Message: fmt.Sprintf("could not extract structured data: %s", reason),
	}
}
