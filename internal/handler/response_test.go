package handler

import (
	"VidTube/internal/apperror"
	"VidTube/pkg/logger"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordError(t *testing.T, err error) (int, ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	writeError(c, logger.Log.WithField("test", t.Name()), err)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestWriteError_HidesInfrastructureCause(t *testing.T) {
	for _, err := range []error{
		apperror.Infrastructure("查询视频失败", errors.New("dial tcp 10.0.0.1:3306: refused")),
		errors.New("unexpected"),
	} {
		code, resp := recordError(t, err)
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.NotContains(t, resp.Error, "10.0.0.1")
		assert.NotContains(t, resp.Error, "查询视频失败")
	}
}

func TestWriteError_MapsKinds(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{apperror.Validation("title", "标题不能为空"), http.StatusBadRequest},
		{apperror.Unauthenticated("请先登录"), http.StatusUnauthorized},
		{apperror.Forbidden("无权操作"), http.StatusForbidden},
		{apperror.NotFound("视频"), http.StatusNotFound},
		{apperror.Conflict("播放列表已存在"), http.StatusConflict},
	}
	for _, tc := range cases {
		code, resp := recordError(t, tc.err)
		assert.Equal(t, tc.code, code)
		var appErr *apperror.AppError
		require.ErrorAs(t, tc.err, &appErr)
		assert.Equal(t, appErr.Message, resp.Error)
		assert.Equal(t, appErr.Field, resp.Field)
	}
}
