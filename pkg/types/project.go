package types

import "time"

// ProjectStatus values are stored in Portuguese, the language of the
// original spreadsheets the schema was migrated from.
type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "planejamento"
	ProjectStatusInProgress ProjectStatus = "em_andamento"
	ProjectStatusPaused     ProjectStatus = "pausada"
	ProjectStatusFinished   ProjectStatus = "concluida"
)

var projectStatusLabels = map[ProjectStatus]string{
	ProjectStatusPlanning:   "Planejamento",
	ProjectStatusInProgress: "Em andamento",
	ProjectStatusPaused:     "Pausada",
	ProjectStatusFinished:   "Concluída",
}

func (s ProjectStatus) Label() string {
	if l, ok := projectStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s ProjectStatus) Valid() bool {
	_, ok := projectStatusLabels[s]
	return ok
}

type Project struct {
	ID          string        `db:"id" json:"id"`
	Name        string        `db:"name" json:"name"`
	ClientName  *string       `db:"client_name" json:"clientName,omitempty"`
	ClientCNPJ  *string       `db:"client_cnpj" json:"clientCnpj,omitempty"`
	Address     *string       `db:"address" json:"address,omitempty"`
	City        *string       `db:"city" json:"city,omitempty"`
	State       *string       `db:"state" json:"state,omitempty"`
	Status      ProjectStatus `db:"status" json:"status"`
	BudgetCents int64         `db:"budget_cents" json:"budgetCents"`
	StartDate   *time.Time    `db:"start_date" json:"startDate,omitempty"`
	EndDate     *time.Time    `db:"end_date" json:"endDate,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updatedAt"`
}

type ProjectInput struct {
	Name        string     `form:"name" json:"name" validate:"required,max=200"`
	ClientName  string     `form:"client_name" json:"clientName" validate:"max=200"`
	ClientCNPJ  string     `form:"client_cnpj" json:"clientCnpj" validate:"omitempty,cnpj"`
	Address     string     `form:"address" json:"address"`
	City        string     `form:"city" json:"city"`
	State       string     `form:"state" json:"state" validate:"omitempty,len=2"`
	Status      string     `form:"status" json:"status" validate:"omitempty,oneof=planejamento em_andamento pausada concluida"`
	BudgetCents int64      `form:"budget_cents" json:"budgetCents" validate:"gte=0"`
	StartDate   *time.Time `form:"start_date" json:"startDate"`
	EndDate     *time.Time `form:"end_date" json:"endDate"`
}
