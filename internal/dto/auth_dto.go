package dto

type LoginRequest struct {
	Email string `json:"email"`
}

type LoginResponse struct {
	Status      string   `json:"status"`
	Message     string   `json:"message"`
	AccessToken string   `json:"access_token"`
	User        UserInfo `json:"user"`
}

type UserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type TierInfoResponse struct {
	Tier              string `json:"tier"`
	RemainingSessions int    `json:"remaining_sessions"`
	SessionLimit      int    `json:"session_limit"`
	SessionsUsedToday int    `json:"sessions_used_today"`
	ResetIn           string `json:"reset_in"`
	BillingPeriod     string `json:"billing_period"`
	TotalSessionsUsed int    `json:"total_sessions_used"`
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
