package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gorillaWS "github.com/gorilla/websocket"
	"github.com/mautops/survey-gin/internal/model"
)

var upgrader = gorillaWS.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// 跨域由 CORS 中间件统一控制
		return true
	},
}

// WebSocketHandler 调查计划变更流
// ?schedule_id= 只订阅单个调查计划,操作人取自 X-Operator 请求头或 operator 参数
func WebSocketHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		operator := c.GetHeader("X-Operator")
		if operator == "" {
			operator = c.Query("operator")
		}
		if operator == "" {
			operator = model.DefaultOperator
		}

		// 1. 升级连接
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade 已写入错误响应
			return
		}

		// 2. 创建客户端
		client := NewClient(
			uuid.New().String(),
			operator,
			c.Query("schedule_id"),
			hub,
			conn,
		)

		// 3. 注册客户端
		if !hub.register(client) {
			conn.Close()
			return
		}

		// 4. 启动 readPump 和 writePump
		go client.ReadPump()
		go client.WritePump()
	}
}
