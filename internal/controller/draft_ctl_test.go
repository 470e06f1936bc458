package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"chumslister/internal/api/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==================== 请求构造辅助 ====================

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ==================== 参数验证测试 ====================

func TestPublishDraft_RequiresPlatforms(t *testing.T) {
	router := gin.New()
	router.POST("/api/drafts/:id/publish", func(c *gin.Context) {
		var req dto.PublishDraftRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"platforms": req.Platforms})
	})

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{"空请求体", nil, http.StatusBadRequest},
		{"缺少 platforms", map[string]interface{}{}, http.StatusBadRequest},
		{"platforms 为空数组", map[string]interface{}{"platforms": []string{}}, http.StatusBadRequest},
		{"合法请求", map[string]interface{}{"platforms": []string{"ebay"}}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, "POST", "/api/drafts/1/publish", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestSeedDraft_RequiresModelNumber(t *testing.T) {
	router := gin.New()
	router.POST("/api/drafts/:id/seed", func(c *gin.Context) {
		var req dto.SeedDraftRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"model_number": req.ModelNumber})
	})

	w := performRequest(router, "POST", "/api/drafts/1/seed", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(router, "POST", "/api/drafts/1/seed",
		map[string]interface{}{"model_number": "DCD771C2"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDraftRequest_FieldLimits(t *testing.T) {
	router := gin.New()
	router.POST("/api/drafts", func(c *gin.Context) {
		var req dto.DraftRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"title": req.Title})
	})

	// 负价格被 binding 拒绝
	w := performRequest(router, "POST", "/api/drafts",
		map[string]interface{}{"title": "Drill", "start_price_cents": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 全部可选：空对象也是合法草稿
	w = performRequest(router, "POST", "/api/drafts", map[string]interface{}{})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestPathID_Validation(t *testing.T) {
	router := gin.New()
	router.GET("/api/drafts/:id", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{"非数字", "abc", http.StatusBadRequest},
		{"零", "0", http.StatusBadRequest},
		{"负数", "-3", http.StatusBadRequest},
		{"合法 ID", "42", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, "GET", "/api/drafts/"+tt.id, nil)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
