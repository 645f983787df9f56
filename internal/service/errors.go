package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid       = errors.New("参数错误")
	ErrContractorNotFound = errors.New("外包人员不存在")
	ErrContractorInactive = errors.New("外包人员已停用")
	ErrReportNotFound     = errors.New("报告不存在")
	ErrNotBusinessDay     = errors.New("非工作日")
	ErrLedgerUnavailable  = errors.New("台账不可用")
	ErrLoginIncorrect     = errors.New("用户名或密码错误")
	UnExpectedError       = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:       BadRequest,
	ErrContractorNotFound: NotFound,
	ErrContractorInactive: BadRequest,
	ErrReportNotFound:     NotFound,
	ErrNotBusinessDay:     BadRequest,
	ErrLedgerUnavailable:  InternalServerError,
	ErrLoginIncorrect:     Unauthorized,
	UnExpectedError:       InternalServerError,
}
