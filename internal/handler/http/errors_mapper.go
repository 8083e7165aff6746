package http

import (
	"errors"
	"net/http"

	"github.com/omnisession/omnisession-server/internal/service"
	"github.com/omnisession/omnisession-server/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrBackupNotFound:   http.StatusNotFound,
	service.ErrPasswordRequired: http.StatusUnauthorized,
	service.ErrInvalidPassword:  http.StatusUnauthorized,

	store.ErrSchemaInit:         http.StatusInternalServerError,
	store.ErrNotInitialized:     http.StatusInternalServerError,
	store.ErrBuildingSQLQuery:   http.StatusInternalServerError,
	store.ErrExecutingQuery:     http.StatusInternalServerError,
	store.ErrExecutingStatement: http.StatusInternalServerError,
	store.ErrScanningRow:        http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
