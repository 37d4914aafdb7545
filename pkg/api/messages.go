package api

// Participant is a group member with their recalculated balance.
type Participant struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Contribution    float64 `json:"contribution"`
	ShareAdjustment float64 `json:"share_adjustment"`
	NetBalance      float64 `json:"net_balance"`
	CreatedAt       int64   `json:"created_at"`
}

// Transfer is one payment of a settlement plan.
type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// Summary describes the pool behind the current balances.
type Summary struct {
	Participants int     `json:"participants"`
	Total        float64 `json:"total"`
	FairShare    float64 `json:"fair_share"`
	Remainder    float64 `json:"remainder"`
}

// Expense is a single payment recorded against a participant.
type Expense struct {
	ID            string  `json:"id"`
	ParticipantID string  `json:"participant_id"`
	Amount        float64 `json:"amount"`
	Description   string  `json:"description"`
	Timestamp     int64   `json:"timestamp"`
	CreatedBy     string  `json:"created_by,omitempty"`
}

// User is a registered account without credentials.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

type CreateParticipantRequest struct {
	Name         string  `json:"name"`
	Contribution float64 `json:"contribution"`
}

type CreateParticipantResponse struct {
	Participant *Participant `json:"participant"`
}

type GetParticipantRequest struct {
	ID string `json:"id"`
}

type GetParticipantResponse struct {
	Participant *Participant `json:"participant"`
}

type ListParticipantsRequest struct{}

type ListParticipantsResponse struct {
	Participants []*Participant `json:"participants"`
}

// UpdateParticipantRequest changes only the fields that are set.
type UpdateParticipantRequest struct {
	ID           string   `json:"id"`
	Name         *string  `json:"name,omitempty"`
	Contribution *float64 `json:"contribution,omitempty"`
}

type UpdateParticipantResponse struct {
	Participant *Participant `json:"participant"`
}

type DeleteParticipantRequest struct {
	ID string `json:"id"`
}

type DeleteParticipantResponse struct{}

type GetSettlementPlanRequest struct{}

// GetSettlementPlanResponse carries the transfers and their rendered form,
// "{from} -> {to} ({amount}€)", in the same order.
type GetSettlementPlanResponse struct {
	Transfers    []*Transfer `json:"transfers"`
	Instructions []string    `json:"instructions"`
}

type GetSummaryRequest struct{}

type GetSummaryResponse struct {
	Summary *Summary `json:"summary"`
}

type CreateExpenseRequest struct {
	ParticipantID string  `json:"participant_id"`
	Amount        float64 `json:"amount"`
	Description   string  `json:"description,omitempty"`
	Timestamp     int64   `json:"timestamp,omitempty"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ID string `json:"id"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct{}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

// UpdateExpenseRequest replaces payer, amount, description and timestamp.
// An empty description or zero timestamp keeps the stored value.
type UpdateExpenseRequest struct {
	ID            string  `json:"id"`
	ParticipantID string  `json:"participant_id"`
	Amount        float64 `json:"amount"`
	Description   string  `json:"description,omitempty"`
	Timestamp     int64   `json:"timestamp,omitempty"`
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ID string `json:"id"`
}

type DeleteExpenseResponse struct{}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}
