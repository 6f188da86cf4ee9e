package http

import (
	"net/http"

	"fintrack/internal/core"
)

// ---- users ----

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	user, err := s.entities.CreateUser(r.Context(), core.User{Username: req.Username, Email: req.Email})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.queries.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	user, err := s.entities.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	user, err := s.entities.UpdateUser(r.Context(), core.User{ID: id, Username: req.Username, Email: req.Email})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.entities.DeleteUser(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// ---- categories ----

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	category, err := s.entities.CreateCategory(r.Context(), core.Category{Name: req.Name})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryResponse(category))
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.queries.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	category, err := s.entities.GetCategory(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(category))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	category, err := s.entities.UpdateCategory(r.Context(), core.Category{ID: id, Name: req.Name})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(category))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.entities.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// ---- accounts ----

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	account, err := s.entities.CreateAccount(r.Context(), core.Account{UserID: req.UserID, Name: req.Name})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountResponse(account))
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.queries.ListAccounts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGetAccount returns the account statement: the account with its
// transactions.
func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	stmt, err := s.queries.AccountStatement(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountStatementResponse(stmt))
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var req accountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	account, err := s.entities.UpdateAccount(r.Context(), core.Account{ID: id, UserID: req.UserID, Name: req.Name})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(account))
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.entities.DeleteAccount(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// ---- budgets ----

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	limit, err := core.ParseAmount(req.Limit)
	if err != nil {
		writeUnprocessable(w, err)
		return
	}
	budget, err := s.entities.CreateBudget(r.Context(), core.Budget{
		UserID:     req.UserID,
		CategoryID: req.CategoryID,
		Limit:      limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBudgetResponse(budget))
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.queries.ListBudgets(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, toBudgetResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	detail, err := s.queries.BudgetDetail(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, budgetDetailResponse{
		Budget:   toBudgetResponse(detail.Budget),
		User:     toUserResponse(detail.User),
		Category: toCategoryResponse(detail.Category),
	})
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	limit, err := core.ParseAmount(req.Limit)
	if err != nil {
		writeUnprocessable(w, err)
		return
	}
	budget, err := s.entities.UpdateBudget(r.Context(), core.Budget{
		ID:         id,
		UserID:     req.UserID,
		CategoryID: req.CategoryID,
		Limit:      limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetResponse(budget))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.entities.DeleteBudget(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// ---- goals ----

func goalFromRequest(id int64, req goalRequest) (core.Goal, error) {
	target, err := core.ParseAmount(req.Target)
	if err != nil {
		return core.Goal{}, err
	}
	current := core.Money{}
	if req.Current != "" {
		current, err = core.ParseAmount(req.Current)
		if err != nil {
			return core.Goal{}, err
		}
	}
	return core.Goal{
		ID:       id,
		UserID:   req.UserID,
		Title:    req.Title,
		Target:   target,
		Current:  current,
		Deadline: req.Deadline,
	}, nil
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	goal, err := goalFromRequest(0, req)
	if err != nil {
		writeUnprocessable(w, err)
		return
	}
	goal, err = s.entities.CreateGoal(r.Context(), goal)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGoalResponse(goal))
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.queries.ListGoals(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalResponse(g))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	detail, err := s.queries.GoalDetail(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goalDetailResponse{
		Goal: toGoalResponse(detail.Goal),
		User: toUserResponse(detail.User),
	})
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	goal, err := goalFromRequest(id, req)
	if err != nil {
		writeUnprocessable(w, err)
		return
	}
	goal, err = s.entities.UpdateGoal(r.Context(), goal)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalResponse(goal))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.entities.DeleteGoal(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// ---- preferences ----

type preferenceCreateRequest struct {
	UserID               int64 `json:"user_id"`
	CategoryID           int64 `json:"category_id"`
	NotificationsEnabled bool  `json:"notifications_enabled"`
}

func (s *Server) handleCreatePreference(w http.ResponseWriter, r *http.Request) {
	var req preferenceCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	pref, err := s.entities.CreatePreference(r.Context(), core.CategoryPreference{
		UserID:               req.UserID,
		CategoryID:           req.CategoryID,
		NotificationsEnabled: req.NotificationsEnabled,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPreferenceResponse(pref))
}

func (s *Server) handleListPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.queries.ListPreferences(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]preferenceResponse, 0, len(prefs))
	for _, p := range prefs {
		out = append(out, toPreferenceResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func preferenceKey(r *http.Request) (int64, int64, error) {
	userID, err := pathID(r, "userID")
	if err != nil {
		return 0, 0, err
	}
	categoryID, err := pathID(r, "categoryID")
	if err != nil {
		return 0, 0, err
	}
	return userID, categoryID, nil
}

func (s *Server) handleGetPreference(w http.ResponseWriter, r *http.Request) {
	userID, categoryID, err := preferenceKey(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	pref, err := s.entities.GetPreference(r.Context(), userID, categoryID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPreferenceResponse(pref))
}

func (s *Server) handleUpdatePreference(w http.ResponseWriter, r *http.Request) {
	userID, categoryID, err := preferenceKey(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	var req preferenceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	pref, err := s.entities.UpdatePreference(r.Context(), core.CategoryPreference{
		UserID:               userID,
		CategoryID:           categoryID,
		NotificationsEnabled: req.NotificationsEnabled,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPreferenceResponse(pref))
}

func (s *Server) handleDeletePreference(w http.ResponseWriter, r *http.Request) {
	userID, categoryID, err := preferenceKey(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.entities.DeletePreference(r.Context(), userID, categoryID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
