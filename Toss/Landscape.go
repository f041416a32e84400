package Toss

import (
	"fmt"
	"math"
)

// 高程一致性判断容差
// 多个三角形同时接受一个点时，各自平面给出的高程差超过该值视为网格不一致
const HeightAgreeTol = 1e-9

// NewLandscape 由顶点表和三角形索引表构造地形
// 构造时做全量校验：索引范围、退化三角形（XY投影共线）、孤立顶点，
// 平面方程本身延迟到首次查询时求解
func NewLandscape(verts [][3]float64, tris [][3]int) (*Landscape, error) {
	if len(verts) == 0 {
		return nil, fmt.Errorf("landscape has no vertices")
	}
	if len(tris) == 0 {
		return nil, fmt.Errorf("landscape has no triangles")
	}

	ls := &Landscape{
		Verts:    verts,
		Tri2Vert: tris,
		Vert2Tri: make([][]int, len(verts)),
		planes:   make([]*plane, len(tris)),
	}

	for triIdx, tri := range tris {
		for _, vidx := range tri {
			if vidx < 0 || vidx >= len(verts) {
				return nil, fmt.Errorf("triangle %d references vertex %d, out of range [0,%d)", triIdx, vidx, len(verts))
			}
		}
		// XY投影面积为零说明三点共线，平面方程组奇异
		p1, p2, p3 := verts[tri[0]], verts[tri[1]], verts[tri[2]]
		cross := (p2[0]-p1[0])*(p3[1]-p1[1]) - (p3[0]-p1[0])*(p2[1]-p1[1])
		if math.Abs(cross) < 1e-12 {
			return nil, fmt.Errorf("%w: triangle %d footprint is collinear", ErrDegenerateTriangle, triIdx)
		}

		// 构建反向索引
		for _, vidx := range tri {
			ls.Vert2Tri[vidx] = append(ls.Vert2Tri[vidx], triIdx)
		}
		ls.planes[triIdx] = &plane{}
	}

	// 未被任何三角形引用的顶点会导致其附近的查询全部失败
	for vidx, incident := range ls.Vert2Tri {
		if len(incident) == 0 {
			return nil, fmt.Errorf("vertex %d is not referenced by any triangle", vidx)
		}
	}

	return ls, nil
}

// HeightAndNormal 查询(x,y)处的地形高程和单位法向量
//
// 先找XY平面内最近的网格顶点，再在该顶点关联的三角形中
// 做严格的仿射包含测试。点落在多个三角形边界附近时，
// 法向量取所有接受该点的三角形法向量的平均。
//
// 注意最近顶点是一种近似：覆盖该点的三角形有可能只关联
// 稍远一些的顶点，此时查询会报点在网格外。这是已知的精度
// 限制，调用方按ErrOutsideMesh处理即可。
func (ls *Landscape) HeightAndNormal(x, y float64) (float64, Vec3, error) {
	// 暴力扫描最近顶点，顶点规模小，O(V)可接受
	closest := 0
	minDist := math.Inf(1)
	for vidx, v := range ls.Verts {
		dx := v[0] - x
		dy := v[1] - y
		d := dx*dx + dy*dy
		if d < minDist {
			minDist = d
			closest = vidx
		}
	}

	found := false
	var height float64
	var normalSum Vec3
	accepted := 0
	for _, triIdx := range ls.Vert2Tri[closest] {
		if !ls.inTriangle(x, y, triIdx) {
			continue
		}
		p, err := ls.getPlane(triIdx)
		if err != nil {
			return 0, Vec3{}, err
		}
		z := p.A*x + p.B*y + p.C
		if !found {
			height = z
			found = true
		} else if math.Abs(z-height) > HeightAgreeTol {
			// 相邻三角形在公共点上高程矛盾，网格本身有缺陷
			return 0, Vec3{}, fmt.Errorf("%w: at (%g, %g): %g vs %g", ErrInconsistentMesh, x, y, height, z)
		}
		normalSum = normalSum.Add(p.Normal)
		accepted++
	}

	if !found {
		return 0, Vec3{}, fmt.Errorf("%w: (%g, %g)", ErrOutsideMesh, x, y)
	}

	normal := normalSum.Scale(1 / float64(accepted)).Normalize()
	return height, normal, nil
}

// inTriangle 严格包含测试
// 把点表示为 tri1 + α·(tri2-tri1) + β·(tri3-tri1)，
// 要求 0 < α < 1 且 0 < β < 1，边和顶点上的点不算在内
func (ls *Landscape) inTriangle(x, y float64, triIdx int) bool {
	tri := ls.Tri2Vert[triIdx]
	t1 := ls.Verts[tri[0]]
	t2 := ls.Verts[tri[1]]
	t3 := ls.Verts[tri[2]]

	// 2x2线性方程组，克拉默法则求解
	a11 := t2[0] - t1[0]
	a12 := t3[0] - t1[0]
	a21 := t2[1] - t1[1]
	a22 := t3[1] - t1[1]
	b1 := x - t1[0]
	b2 := y - t1[1]

	det := a11*a22 - a12*a21
	if det == 0 {
		return false
	}
	alpha := (b1*a22 - a12*b2) / det
	beta := (a11*b2 - b1*a21) / det

	return 0 < alpha && alpha < 1 && 0 < beta && beta < 1
}

// getPlane 取三角形的平面方程和法向量，首次访问时求解并缓存
func (ls *Landscape) getPlane(triIdx int) (*plane, error) {
	p := ls.planes[triIdx]
	p.once.Do(func() {
		tri := ls.Tri2Vert[triIdx]
		t1 := ls.Verts[tri[0]]
		t2 := ls.Verts[tri[1]]
		t3 := ls.Verts[tri[2]]

		// 解 z = A·x + B·y + C 的3x3方程组
		// | x1 y1 1 |   | A |   | z1 |
		// | x2 y2 1 | · | B | = | z2 |
		// | x3 y3 1 |   | C |   | z3 |
		det := t1[0]*(t2[1]-t3[1]) - t1[1]*(t2[0]-t3[0]) + (t2[0]*t3[1] - t3[0]*t2[1])
		if math.Abs(det) < 1e-12 {
			p.err = fmt.Errorf("%w: triangle %d", ErrDegenerateTriangle, triIdx)
			return
		}

		detA := t1[2]*(t2[1]-t3[1]) - t1[1]*(t2[2]-t3[2]) + (t2[2]*t3[1] - t3[2]*t2[1])
		detB := t1[0]*(t2[2]-t3[2]) - t1[2]*(t2[0]-t3[0]) + (t2[0]*t3[2] - t3[0]*t2[2])
		detC := t1[0]*(t2[1]*t3[2]-t3[1]*t2[2]) - t1[1]*(t2[0]*t3[2]-t3[0]*t2[2]) + t1[2]*(t2[0]*t3[1]-t3[0]*t2[1])

		p.A = detA / det
		p.B = detB / det
		p.C = detC / det
		// 法向量取(-A, -B, 1)归一化，保证Z分量朝上
		p.Normal = Vec3{-p.A, -p.B, 1}.Normalize()
	})
	if p.err != nil {
		return nil, p.err
	}
	return p, nil
}
