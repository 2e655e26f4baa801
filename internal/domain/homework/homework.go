// internal/domain/homework/homework.go
package homework

import (
	"errors"
	"sort"

	"github.com/samber/lo"
)

// Status is the review state reported by the homework API.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

// Verdicts maps every known status to the text sent to the chat.
var Verdicts = map[Status]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// NoNewStatusesMessage is sent when the API reports no homework in the window.
const NoNewStatusesMessage = "Новых статусов нет."

// Domain errors
var (
	ErrResponseType        = errors.New("unexpected response type")
	ErrMissingHomeworkName = errors.New("homework_name key is missing")
	ErrUnknownStatus       = errors.New("unknown homework status")
)

// Homework is a single submission as returned by the API.
// Older API versions send the submission name as "name" instead of "homework_name".
type Homework struct {
	HomeworkName string `mapstructure:"homework_name"`
	Name         string `mapstructure:"name"`
	Status       Status `mapstructure:"status"`
}

// DisplayName returns homework_name, falling back to name.
func (h Homework) DisplayName() string {
	if h.HomeworkName != "" {
		return h.HomeworkName
	}
	return h.Name
}

// KnownStatuses returns the statuses of the verdict table in a stable order.
func KnownStatuses() []Status {
	statuses := lo.Keys(Verdicts)
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })
	return statuses
}
