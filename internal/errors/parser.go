package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ikkim/dealer-admin-backend/internal/app/repository"
	"github.com/ikkim/dealer-admin-backend/internal/app/service"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Status  int    // HTTP 상태 코드
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

// ParseError 도메인 에러를 상태 코드/에러 코드/메시지로 변환
// 저장소 내부 정보는 숨기고 사용자가 재시도할 수 있는 메시지를 준다
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Status:  http.StatusInternalServerError,
			Code:    InternalServerError,
			Message: getDefaultErrorMessage(context),
		}
	}

	// 1. 폼 검증 실패
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return ErrorInfo{
			Status:  http.StatusBadRequest,
			Code:    ValidationInvalidInput,
			Message: "Please correct the highlighted fields",
		}
	}

	// 2. 존재하지 않는 딜러
	if errors.Is(err, repository.ErrDealerNotFound) {
		return ErrorInfo{
			Status:  http.StatusNotFound,
			Code:    DealerNotFound,
			Message: service.MsgDealerMissing,
		}
	}

	// 3. 저장 슬롯 실패 (redis / sql / 손상된 payload)
	var storageErr *repository.StorageError
	if errors.As(err, &storageErr) {
		message := service.MsgStorageFailed
		if isReadContext(context) {
			message = service.MsgLoadFailed
		}
		return ErrorInfo{
			Status:  http.StatusServiceUnavailable,
			Code:    StorageUnavailable,
			Message: message,
		}
	}

	// 4. 요청 취소/타임아웃
	errStrLower := strings.ToLower(err.Error())
	if strings.Contains(errStrLower, "context canceled") || strings.Contains(errStrLower, "deadline exceeded") {
		return ErrorInfo{
			Status:  http.StatusServiceUnavailable,
			Code:    StorageUnavailable,
			Message: "The request timed out. Please try again.",
		}
	}

	// 5. 기본 내부 서버 오류
	return ErrorInfo{
		Status:  http.StatusInternalServerError,
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// isReadContext 조회 계열 요청인지 (목록, 단건, 내보내기, 대시보드)
func isReadContext(context string) bool {
	contextLower := strings.ToLower(context)
	for _, word := range []string{"list", "get", "export", "dashboard"} {
		if strings.Contains(contextLower, word) {
			return true
		}
	}
	return false
}

// getDefaultErrorMessage context에 따른 기본 에러 메시지
func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") {
		return "Could not create dealer. Please try again."
	}
	if strings.Contains(contextLower, "update") {
		return "Could not update dealer. Please try again."
	}
	if strings.Contains(contextLower, "delete") {
		return "Could not delete dealer. Please try again."
	}
	if strings.Contains(contextLower, "import") {
		return "Could not import dealers. Please check the file and try again."
	}

	return "Something went wrong. Please try again."
}
