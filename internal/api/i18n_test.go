package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// TestTranslate 测试翻译及回退
func TestTranslate(t *testing.T) {
	m := defaultI18nManager
	assert.Equal(t, "Block not found", m.Translate("en", "error.block_not_found"))
	assert.Equal(t, "区块不存在", m.Translate("zh", "error.block_not_found"))
	// 未知语言回退英文
	assert.Equal(t, "Block not found", m.Translate("fr", "error.block_not_found"))
	// 未知 key 原样返回
	assert.Equal(t, "no.such.key", m.Translate("en", "no.such.key"))
}

// TestMessagesCoverBothLanguages 测试中英文消息 key 一致
func TestMessagesCoverBothLanguages(t *testing.T) {
	en := defaultI18nManager.messages["en"]
	zh := defaultI18nManager.messages["zh"]
	for key := range en {
		assert.Contains(t, zh, key)
	}
	assert.Len(t, zh, len(en))
}

// TestI18nMiddleware 测试语言解析
func TestI18nMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name   string
		query  string
		header string
		want   string
	}{
		{"default", "", "", "en"},
		{"query", "?lang=zh-CN", "", "zh"},
		{"header", "", "zh-TW,zh;q=0.9,en;q=0.8", "zh"},
		{"query wins", "?lang=en", "zh-CN", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(I18nMiddleware())
			router.GET("/lang", func(c *gin.Context) {
				c.String(http.StatusOK, GetLanguage(c))
			})

			req := httptest.NewRequest(http.MethodGet, "/lang"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}
