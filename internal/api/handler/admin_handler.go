package handler

import (
	"Daybook/internal/api/config"
	"Daybook/internal/api/dto"
	"Daybook/internal/pkg/response"
	"Daybook/internal/pkg/security"
	"Daybook/internal/service"
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

type AdminHandler struct {
	contractorSvc service.ContractorService
	directory     service.SlackDirectory
}

func NewAdminHandler(contractorSvc service.ContractorService, directory service.SlackDirectory) *AdminHandler {
	return &AdminHandler{contractorSvc: contractorSvc, directory: directory}
}

func (s *AdminHandler) Login(c *gin.Context) {
	var loginDTO dto.AdminLoginDTO
	if err := c.ShouldBind(&loginDTO); err != nil {
		response.Error(c, err)
		return
	}

	admin := config.Cfg.Admin
	userOK := subtle.ConstantTimeCompare([]byte(loginDTO.Username), []byte(admin.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(loginDTO.Password), []byte(admin.Password)) == 1
	if !userOK || !passOK {
		response.Error(c, service.ErrLoginIncorrect)
		return
	}

	token, err := security.GenerateToken(loginDTO.Username, []string{"ADMIN"})
	if err != nil {
		response.Error(c, service.UnExpectedError)
		return
	}
	response.Success(c, dto.TokenDTO{Token: token})
}

func (s *AdminHandler) ListContractors(c *gin.Context) {
	contractors, err := s.contractorSvc.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.ContractorDTO, 0, len(contractors))
	for _, contractor := range contractors {
		var item dto.ContractorDTO
		_ = copier.Copy(&item, contractor)
		item.EnrolledAt = contractor.EnrolledAt.Format("2006-01-02")
		items = append(items, item)
	}
	response.Success(c, items)
}

func (s *AdminHandler) CreateContractor(c *gin.Context) {
	var createDTO dto.CreateContractorDTO
	if err := c.ShouldBind(&createDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := s.contractorSvc.Create(c.Request.Context(), &createDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ListSlackUsers 建档时查工作区真人用户列表（已过滤机器人与已注销账号）
func (s *AdminHandler) ListSlackUsers(c *gin.Context) {
	users, err := s.directory.ListUsers(c.Request.Context())
	if err != nil {
		response.Error(c, service.UnExpectedError)
		return
	}
	response.Success(c, users)
}

func (s *AdminHandler) SetContractorActive(c *gin.Context) {
	slackID := c.Param("slack_id")
	var setDTO dto.SetActiveDTO
	if err := c.ShouldBind(&setDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := s.contractorSvc.SetActive(c.Request.Context(), slackID, *setDTO.Active); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
