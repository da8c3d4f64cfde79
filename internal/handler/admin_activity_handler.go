package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/sportsmeet/manager/internal/dto"
	"github.com/sportsmeet/manager/internal/middleware"
	"github.com/sportsmeet/manager/internal/repository"
	"github.com/sportsmeet/manager/internal/service"
	"github.com/sportsmeet/manager/pkg/response"
)

type AdminActivityHandler struct {
	repo        repository.ActivityRepository
	redisClient *redis.Client
	upgrader    websocket.Upgrader
}

func NewAdminActivityHandler(repo repository.ActivityRepository, redisClient *redis.Client) *AdminActivityHandler {
	return &AdminActivityHandler{
		repo:        repo,
		redisClient: redisClient,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Index renders the filtered, paginated audit log.
func (h *AdminActivityHandler) Index(c *gin.Context) {
	var filter dto.ActivityFilter
	var page dto.Pagination
	_ = c.ShouldBindQuery(&filter)
	_ = c.ShouldBindQuery(&page)
	page.Normalize()

	rows, total, err := h.repo.List(c.Request.Context(), filter, page)
	if err != nil {
		response.HTMLWithBanner(c, "admin_activity.tmpl", response.FlashDanger, "Error loading activity log", gin.H{
			"Title": "Activity Log", "User": middleware.CurrentUser(c),
			"Filter": filter, "Meta": dto.NewPaginationMeta(page, 0),
		})
		return
	}

	response.HTML(c, "admin_activity.tmpl", gin.H{
		"Title":  "Activity Log",
		"User":   middleware.CurrentUser(c),
		"Rows":   rows,
		"Filter": filter,
		"Meta":   dto.NewPaginationMeta(page, total),
	})
}

// Stream pushes newly recorded activity entries over a websocket. Entries
// arrive via the redis channel the recorder publishes to.
func (h *AdminActivityHandler) Stream(c *gin.Context) {
	if h.redisClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live feed requires redis"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	pubsub := h.redisClient.Subscribe(c.Request.Context(), service.ActivityChannel)
	defer pubsub.Close()

	// The connection is hijacked after the upgrade, so the request context
	// never fires on peer close; a read pump is the only disconnect signal.
	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ch := pubsub.Channel()
	for {
		select {
		case <-clientClosed:
			return
		case <-c.Request.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Printf("Failed to write message to websocket: %v", err)
				return
			}
		}
	}
}
