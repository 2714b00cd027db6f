package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 모든 API 에러가 공유하는 평탄한 응답 바디
type ErrorResponse struct {
	Error   string `json:"error"`   // codes.go 의 에러 코드, 프론트 분기용
	Message string `json:"message"` // 사용자에게 그대로 노출되는 한글 메시지
}

// RespondWithError 상태 코드 + 에러 코드 + 한글 메시지로 응답을 내린다.
// 컨트롤러는 이 헬퍼(또는 아래 단축 함수)만 거쳐 에러를 내보낸다.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// 상태 코드별 단축 함수. message 가 비면 기본 문구를 쓴다.

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "로그인이 필요합니다"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "접근 권한이 없습니다"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ValidationError 필드 단위 검증 실패를 함께 실어 보내는 바디
type ValidationError struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"` // 필드명 → 오류 문구
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ValidationError{
		Error:   ValidationInvalidInput,
		Message: "입력값이 올바르지 않습니다",
		Fields:  fields,
	})
}
