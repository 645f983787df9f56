package dto

// CreateContractorDTO 管理端建档
type CreateContractorDTO struct {
	SlackID    string `json:"slack_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email"`
	EnrolledAt string `json:"enrolled_at" validate:"omitempty,datetime=2006-01-02"`
}

// SetActiveDTO 翻转在职标志
type SetActiveDTO struct {
	Active *bool `json:"active" binding:"required"`
}

// ContractorDTO 档案返回对象
type ContractorDTO struct {
	SlackID    string `json:"slack_id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Active     bool   `json:"active"`
	EnrolledAt string `json:"enrolled_at"`
}

// AdminLoginDTO 管理端登录
type AdminLoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenDTO 登录返回
type TokenDTO struct {
	Token string `json:"token"`
}
