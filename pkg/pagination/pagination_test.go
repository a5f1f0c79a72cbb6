package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func contextWithQuery(query string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

func TestParsePageParams(t *testing.T) {
	p := ParsePageParams(contextWithQuery("page=3&pageSize=20"))
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 20, p.PageSize)
	assert.Equal(t, 40, p.GetOffset())

	p = ParsePageParams(contextWithQuery("page=-1&pageSize=abc"))
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)

	p = ParsePageParams(contextWithQuery("pageSize=1000"))
	assert.Equal(t, MaxPageSize, p.PageSize)
}

func TestNewPageInfo(t *testing.T) {
	info := NewPageInfo(1, 10, 21)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, int64(21), info.Total)

	assert.Equal(t, 0, NewPageInfo(1, 0, 5).TotalPages)
}
