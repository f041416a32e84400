package views

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/GrainArc/TossMap/Toss"
	"github.com/GrainArc/TossMap/models"
	"github.com/GrainArc/TossMap/services"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// 抛掷轨迹实时推送

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 生产环境需要严格检查
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// 每段飞行的轨迹采样点数
const segmentSamples = 64

type ThrowTrackHandler struct {
	tossService *services.TossService
}

func NewThrowTrackHandler(tossService *services.TossService) *ThrowTrackHandler {
	return &ThrowTrackHandler{
		tossService: tossService,
	}
}

// ThrowSession 抛掷推送会话
type ThrowSession struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

func (s *ThrowSession) writeJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

// InitThrow 升级到WebSocket并逐段推送抛掷轨迹
// 客户端升级后先发送一条ThrowData，之后每段飞行
// 推送一条segment消息，最后complete带最终落点
func (h *ThrowTrackHandler) InitThrow(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to websocket: %v", err)
		return
	}

	sessionCtx, cancel := context.WithCancel(context.Background())
	session := &ThrowSession{
		conn:   conn,
		ctx:    sessionCtx,
		cancel: cancel,
	}
	defer func() {
		session.cancel()
		session.conn.Close()
		log.Println("WebSocket session closed")
	}()

	// 第一条消息是抛掷参数
	var throwData models.ThrowData
	if err := conn.ReadJSON(&throwData); err != nil {
		session.writeJSON(models.ThrowStreamResponse{Type: "error", Message: err.Error()})
		return
	}
	if len(throwData.StartPoint) < 2 {
		session.writeJSON(models.ThrowStreamResponse{Type: "error", Message: "invalid start point"})
		return
	}
	if err := Toss.ValidateThrow(throwData.Azim, throwData.Elev, throwData.Speed, throwData.NumBounce); err != nil {
		session.writeJSON(models.ThrowStreamResponse{Type: "error", Message: err.Error()})
		return
	}

	var z *float64
	if len(throwData.StartPoint) >= 3 {
		z = &throwData.StartPoint[2]
	}
	tosser, err := h.tossService.MakeTosser(throwData.LandscapeBSM, throwData.StartPoint[0], throwData.StartPoint[1], z)
	if err != nil {
		session.writeJSON(models.ThrowStreamResponse{Type: "error", Message: err.Error()})
		return
	}

	// 心跳
	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()
	go func() {
		for {
			select {
			case <-session.ctx.Done():
				return
			case <-pingTicker.C:
				session.mu.Lock()
				err := session.conn.WriteMessage(websocket.PingMessage, nil)
				session.mu.Unlock()
				if err != nil {
					session.cancel()
					return
				}
			}
		}
	}()

	if err := session.writeJSON(models.ThrowStreamResponse{
		Type:    "init",
		Message: fmt.Sprintf("Throw initialized at (%g, %g, %g)", tosser.X, tosser.Y, tosser.Z),
	}); err != nil {
		return
	}

	h.streamThrow(session, tosser, throwData)
}

// streamThrow 逐段计算并推送
func (h *ThrowTrackHandler) streamThrow(session *ThrowSession, tosser *Toss.Tosser, throwData models.ThrowData) {
	ls := tosser.Landscape()
	pos := Toss.Vec3{X: tosser.X, Y: tosser.Y, Z: tosser.Z}
	vel := Toss.LaunchVelocity(throwData.Azim, throwData.Elev, throwData.Speed)

	for i := 0; i < throwData.NumBounce; i++ {
		select {
		case <-session.ctx.Done():
			return
		default:
		}

		path, landPos, landVel, err := Toss.BouncePath(ls, pos, vel, segmentSamples)
		if err != nil {
			session.writeJSON(models.ThrowStreamResponse{Type: "error", Message: err.Error()})
			return
		}

		if err := session.writeJSON(models.ThrowStreamResponse{
			Type:   "segment",
			Bounce: i + 1,
			Path:   Toss.PathToGeoJSON(path),
		}); err != nil {
			return
		}

		pos = landPos
		if i == throwData.NumBounce-1 {
			break
		}
		vel, err = Toss.Reflect(ls, landPos, landVel)
		if err != nil {
			session.writeJSON(models.ThrowStreamResponse{Type: "error", Message: err.Error()})
			return
		}
	}

	session.writeJSON(models.ThrowStreamResponse{
		Type:    "complete",
		End:     []float64{pos.X, pos.Y, pos.Z},
		Message: "Throw complete",
	})
}
