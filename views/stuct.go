package views

import (
	"encoding/json"

	"github.com/GrainArc/TossMap/services"
)

type TossController struct {
	service *services.TossService
}

func NewTossController(service *services.TossService) *TossController {
	return &TossController{service: service}
}

// LandscapeUpload 上传地形定义
type LandscapeUpload struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

// HeightQuery 高程查询
type HeightQuery struct {
	LandscapeBSM string  `json:"landscape_bsm"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
}

// ThrowRequest 抛掷请求，Z为空时抛掷器落在地形表面
type ThrowRequest struct {
	LandscapeBSM string   `json:"landscape_bsm"`
	X            float64  `json:"x"`
	Y            float64  `json:"y"`
	Z            *float64 `json:"z"`
	Azim         float64  `json:"azim"`
	Elev         float64  `json:"elev"`
	Speed        float64  `json:"speed"`
	NumBounce    int      `json:"num_bounce"`
}
