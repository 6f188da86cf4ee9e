package http

import (
	"time"

	"fintrack/internal/core"
	"fintrack/internal/query"
)

// Monetary amounts cross the wire as decimal strings ("-12.50") and are
// parsed with core.ParseAmount; integers would invite cent/unit confusion
// and floats would invite drift.

type (
	userRequest struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}

	userResponse struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}

	categoryRequest struct {
		Name string `json:"name"`
	}

	categoryResponse struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	accountRequest struct {
		UserID int64  `json:"user_id"`
		Name   string `json:"name"`
	}

	accountResponse struct {
		ID      int64  `json:"id"`
		UserID  int64  `json:"user_id"`
		Name    string `json:"name"`
		Balance string `json:"balance"`
	}

	budgetRequest struct {
		UserID     int64  `json:"user_id"`
		CategoryID int64  `json:"category_id"`
		Limit      string `json:"limit"`
	}

	budgetResponse struct {
		ID         int64  `json:"id"`
		UserID     int64  `json:"user_id"`
		CategoryID int64  `json:"category_id"`
		Limit      string `json:"limit"`
	}

	goalRequest struct {
		UserID   int64      `json:"user_id"`
		Title    string     `json:"title"`
		Target   string     `json:"target"`
		Current  string     `json:"current"`
		Deadline *time.Time `json:"deadline,omitempty"`
	}

	goalResponse struct {
		ID       int64      `json:"id"`
		UserID   int64      `json:"user_id"`
		Title    string     `json:"title"`
		Target   string     `json:"target"`
		Current  string     `json:"current"`
		Deadline *time.Time `json:"deadline,omitempty"`
	}

	preferenceRequest struct {
		NotificationsEnabled bool `json:"notifications_enabled"`
	}

	preferenceResponse struct {
		UserID               int64 `json:"user_id"`
		CategoryID           int64 `json:"category_id"`
		NotificationsEnabled bool  `json:"notifications_enabled"`
	}

	transactionRequest struct {
		UserID      int64  `json:"user_id"`
		CategoryID  int64  `json:"category_id"`
		AccountID   *int64 `json:"account_id,omitempty"`
		Amount      string `json:"amount"`
		Description string `json:"description"`
	}

	transactionResponse struct {
		ID          int64     `json:"id"`
		UserID      int64     `json:"user_id"`
		CategoryID  int64     `json:"category_id"`
		AccountID   *int64    `json:"account_id,omitempty"`
		Amount      string    `json:"amount"`
		Description string    `json:"description"`
		CreatedAt   time.Time `json:"created_at"`
	}

	transactionDetailResponse struct {
		Transaction transactionResponse `json:"transaction"`
		User        userResponse        `json:"user"`
		Category    categoryResponse    `json:"category"`
		Account     *accountResponse    `json:"account,omitempty"`
	}

	accountStatementResponse struct {
		Account      accountResponse       `json:"account"`
		Owner        userResponse          `json:"owner"`
		Transactions []transactionResponse `json:"transactions"`
	}

	budgetDetailResponse struct {
		Budget   budgetResponse   `json:"budget"`
		User     userResponse     `json:"user"`
		Category categoryResponse `json:"category"`
	}

	goalDetailResponse struct {
		Goal goalResponse `json:"goal"`
		User userResponse `json:"user"`
	}
)

func toUserResponse(u core.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

func toCategoryResponse(c core.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name}
}

func toAccountResponse(a core.Account) accountResponse {
	return accountResponse{
		ID:      a.ID,
		UserID:  a.UserID,
		Name:    a.Name,
		Balance: a.Balance.String(),
	}
}

func toBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{
		ID:         b.ID,
		UserID:     b.UserID,
		CategoryID: b.CategoryID,
		Limit:      b.Limit.String(),
	}
}

func toGoalResponse(g core.Goal) goalResponse {
	return goalResponse{
		ID:       g.ID,
		UserID:   g.UserID,
		Title:    g.Title,
		Target:   g.Target.String(),
		Current:  g.Current.String(),
		Deadline: g.Deadline,
	}
}

func toPreferenceResponse(p core.CategoryPreference) preferenceResponse {
	return preferenceResponse{
		UserID:               p.UserID,
		CategoryID:           p.CategoryID,
		NotificationsEnabled: p.NotificationsEnabled,
	}
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		CategoryID:  t.CategoryID,
		AccountID:   t.AccountID,
		Amount:      t.Amount.String(),
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

func toTransactionDetailResponse(d query.TransactionDetail) transactionDetailResponse {
	resp := transactionDetailResponse{
		Transaction: toTransactionResponse(d.Transaction),
		User:        toUserResponse(d.User),
		Category:    toCategoryResponse(d.Category),
	}
	if d.Account != nil {
		a := toAccountResponse(*d.Account)
		resp.Account = &a
	}
	return resp
}

func toAccountStatementResponse(s query.AccountStatement) accountStatementResponse {
	resp := accountStatementResponse{
		Account:      toAccountResponse(s.Account),
		Owner:        toUserResponse(s.Owner),
		Transactions: make([]transactionResponse, 0, len(s.Transactions)),
	}
	for _, t := range s.Transactions {
		resp.Transactions = append(resp.Transactions, toTransactionResponse(t))
	}
	return resp
}

func (r transactionRequest) toData() (core.TransactionData, error) {
	amount, err := core.ParseAmount(r.Amount)
	if err != nil {
		return core.TransactionData{}, err
	}
	return core.TransactionData{
		UserID:      r.UserID,
		CategoryID:  r.CategoryID,
		AccountID:   r.AccountID,
		Amount:      amount,
		Description: r.Description,
	}, nil
}
