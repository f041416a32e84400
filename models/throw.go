// models/throw.go
package models

import (
	"github.com/paulmach/orb/geojson"
)

// ThrowData WebSocket抛掷会话的初始化参数
type ThrowData struct {
	LandscapeBSM string    `json:"landscape_bsm"` // 地形标识
	StartPoint   []float64 `json:"start_point"`   // 起始点 [x, y] 或 [x, y, z]
	Azim         float64   `json:"azim"`          // 方位角(度)
	Elev         float64   `json:"elev"`          // 仰角(度)
	Speed        float64   `json:"speed"`         // 初速度 m/s
	NumBounce    int       `json:"num_bounce"`    // 触地次数
}

// ThrowStreamResponse WebSocket推送的消息
type ThrowStreamResponse struct {
	Type    string           `json:"type"`             // "init", "segment", "complete" 或 "error"
	Bounce  int              `json:"bounce,omitempty"`  // 当前是第几段飞行
	Path    *geojson.Feature `json:"path,omitempty"`    // 该段轨迹
	End     []float64        `json:"end,omitempty"`     // 最终落点 [x, y, z]
	Message string           `json:"message,omitempty"` // 消息
}
