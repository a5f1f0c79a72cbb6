package response

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uiaoin/ts-admin/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestFromError_MapsKinds(t *testing.T) {
	cases := []struct {
		err     error
		code    int
		message string
	}{
		{errors.Unauthenticated("用户名或密码错误"), errors.CodeUnauthorized, "用户名或密码错误"},
		{errors.InvalidCredential("原密码错误"), errors.CodeInvalidParam, "原密码错误"},
		{errors.Forbidden("权限不足"), errors.CodeForbidden, "权限不足"},
		{errors.NotFound("用户不存在"), errors.CodeNotFound, "用户不存在"},
		{stderrors.New("dial tcp: refused"), errors.CodeServerError, "服务器内部错误"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		FromError(c, tc.err)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, tc.code, body.Code)
		assert.Equal(t, tc.message, body.Message)
	}
}

type loginBody struct {
	Username string `json:"username" binding:"required,min=2,max=50"`
	Password string `json:"password" binding:"required"`
}

func TestBindError_ListsFields(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"a"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var req loginBody
	err := c.ShouldBindJSON(&req)
	require.Error(t, err)

	BindError(c, err)

	body := decode(t, w)
	assert.Equal(t, errors.CodeInvalidParam, body.Code)
	assert.Contains(t, body.Message, "Username长度不能小于2")
	assert.Contains(t, body.Message, "Password不能为空")
}

func TestBindError_MalformedJSON(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	c.Request.Header.Set("Content-Type", "application/json")

	var req loginBody
	err := c.ShouldBindJSON(&req)
	require.Error(t, err)

	BindError(c, err)

	body := decode(t, w)
	assert.Equal(t, errors.CodeInvalidParam, body.Code)
	assert.True(t, strings.HasPrefix(body.Message, "请求参数错误: "))
}
