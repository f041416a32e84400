package Toss

import (
	"errors"
	"math"
	"sync"
)

// Vec3 表示一个三维向量
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Norm 向量模长
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize 归一化，零向量原样返回
func (v Vec3) Normalize() Vec3 {
	length := v.Norm()
	if length > 0 {
		return Vec3{v.X / length, v.Y / length, v.Z / length}
	}
	return v
}

// plane 三角形平面缓存项: z = A·x + B·y + C
// 每个三角形最多计算一次，once保证并发下只填充一次
type plane struct {
	once    sync.Once
	A, B, C float64
	Normal  Vec3
	err     error
}

// Landscape 三角网地形
// Verts为顶点表，Tri2Vert为三角形顶点索引表，
// Vert2Tri为顶点到三角形的反向索引，构造时生成
type Landscape struct {
	Verts    [][3]float64
	Tri2Vert [][3]int
	Vert2Tri [][]int

	planes []*plane
}

// 查询类错误，调用方可恢复
var (
	ErrOutsideMesh    = errors.New("point outside of landscape mesh")
	ErrNoIntersection = errors.New("trajectory does not intersect the landscape")
	ErrZeroVelocity   = errors.New("velocity is zero")
)

// 构造/放置类错误，地形或抛掷器不可用
var (
	ErrDegenerateTriangle = errors.New("triangle is degenerate")
	ErrInconsistentMesh   = errors.New("triangles disagree on height at shared point")
	ErrOutsideLandscape   = errors.New("tosser is outside of landscape")
	ErrBelowLandscape     = errors.New("tosser is below the landscape")
)
