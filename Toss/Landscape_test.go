package Toss

import (
	"errors"
	"math"
	"testing"
)

// 平坦单位正方形，z=0，两个三角形
func flatSquare() *Landscape {
	verts := [][3]float64{
		{0, 0, 0},
		{1, 0, 0},
		{1, 1, 0},
		{0, 1, 0},
	}
	tris := [][3]int{
		{0, 1, 2},
		{0, 2, 3},
	}
	ls, err := NewLandscape(verts, tris)
	if err != nil {
		panic(err)
	}
	return ls
}

// 大范围平地 [-50,50]x[-50,50]，z=0
func flatField() *Landscape {
	verts := [][3]float64{
		{-50, -50, 0},
		{50, -50, 0},
		{50, 50, 0},
		{-50, 50, 0},
	}
	tris := [][3]int{
		{0, 1, 2},
		{0, 2, 3},
	}
	ls, err := NewLandscape(verts, tris)
	if err != nil {
		panic(err)
	}
	return ls
}

func TestFlatSquareHeightAndNormal(t *testing.T) {
	ls := flatSquare()

	// 对角线上的点被严格包含测试排除，测试点避开 y=x
	points := [][2]float64{
		{0.5, 0.25},
		{0.25, 0.5},
		{0.9, 0.1},
		{0.1, 0.9},
		{0.5, 0.499},
	}
	for _, pt := range points {
		z, n, err := ls.HeightAndNormal(pt[0], pt[1])
		if err != nil {
			t.Fatalf("HeightAndNormal(%v, %v) failed: %v", pt[0], pt[1], err)
		}
		if math.Abs(z) > 1e-12 {
			t.Errorf("height at (%v, %v) = %v, want 0", pt[0], pt[1], z)
		}
		if math.Abs(n.X) > 1e-12 || math.Abs(n.Y) > 1e-12 || math.Abs(n.Z-1) > 1e-12 {
			t.Errorf("normal at (%v, %v) = %v, want (0,0,1)", pt[0], pt[1], n)
		}
	}
}

func TestSlantedPlaneHeight(t *testing.T) {
	// 两个三角形同在平面 z = (x+y)/2 上
	verts := [][3]float64{
		{0, 0, 0},
		{2, 0, 1},
		{2, 2, 2},
		{0, 2, 1},
	}
	tris := [][3]int{
		{0, 1, 2},
		{0, 2, 3},
	}
	ls, err := NewLandscape(verts, tris)
	if err != nil {
		t.Fatal(err)
	}

	z, n, err := ls.HeightAndNormal(1.0, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(z-0.75) > 1e-12 {
		t.Errorf("height = %v, want 0.75", z)
	}
	// 法向量必须是单位向量
	if math.Abs(n.Norm()-1) > 1e-12 {
		t.Errorf("normal length = %v, want 1", n.Norm())
	}
	// z分量朝上
	if n.Z <= 0 {
		t.Errorf("normal z = %v, want positive", n.Z)
	}
}

func TestNormalAlwaysUnitLength(t *testing.T) {
	ls := flatField()
	for _, pt := range [][2]float64{{0.5, 0.25}, {-30, 10}, {49, -49.5}, {-1, -2}} {
		_, n, err := ls.HeightAndNormal(pt[0], pt[1])
		if err != nil {
			t.Fatalf("query (%v, %v): %v", pt[0], pt[1], err)
		}
		if math.Abs(n.Norm()-1) > 1e-9 {
			t.Errorf("normal at (%v, %v) has length %v", pt[0], pt[1], n.Norm())
		}
	}
}

func TestOutsideMesh(t *testing.T) {
	ls := flatSquare()
	_, _, err := ls.HeightAndNormal(100, 100)
	if !errors.Is(err, ErrOutsideMesh) {
		t.Errorf("expected ErrOutsideMesh, got %v", err)
	}
	_, _, err = ls.HeightAndNormal(-0.5, 0.5)
	if !errors.Is(err, ErrOutsideMesh) {
		t.Errorf("expected ErrOutsideMesh, got %v", err)
	}
	// 两三角形的公共对角线上，严格包含性判定两边都不接受
	_, _, err = ls.HeightAndNormal(0.5, 0.5)
	if !errors.Is(err, ErrOutsideMesh) {
		t.Errorf("expected ErrOutsideMesh on shared edge, got %v", err)
	}
}

func TestDegenerateTriangle(t *testing.T) {
	// XY投影共线
	verts := [][3]float64{
		{0, 0, 0},
		{1, 1, 0},
		{2, 2, 5},
	}
	tris := [][3]int{{0, 1, 2}}
	_, err := NewLandscape(verts, tris)
	if !errors.Is(err, ErrDegenerateTriangle) {
		t.Errorf("expected ErrDegenerateTriangle, got %v", err)
	}
}

func TestInconsistentMesh(t *testing.T) {
	// 两个三角形的投影重叠但高程不一致
	verts := [][3]float64{
		{0, 0, 0},
		{2, 0, 0},
		{1, 2, 0},
		{1, 0.5, 5},
	}
	tris := [][3]int{
		{0, 1, 2},
		{0, 1, 3},
	}
	ls, err := NewLandscape(verts, tris)
	if err != nil {
		t.Fatal(err)
	}
	// (0.5, 0.1)最近顶点是0号，两个三角形都接受该点
	_, _, err = ls.HeightAndNormal(0.5, 0.1)
	if !errors.Is(err, ErrInconsistentMesh) {
		t.Errorf("expected ErrInconsistentMesh, got %v", err)
	}
}

func TestConstructionValidation(t *testing.T) {
	verts := [][3]float64{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
	}

	// 索引越界
	if _, err := NewLandscape(verts, [][3]int{{0, 1, 5}}); err == nil {
		t.Error("expected error for out-of-range vertex index")
	}

	// 孤立顶点
	verts2 := append(verts, [3]float64{5, 5, 5})
	if _, err := NewLandscape(verts2, [][3]int{{0, 1, 2}}); err == nil {
		t.Error("expected error for unreferenced vertex")
	}

	// 空输入
	if _, err := NewLandscape(nil, [][3]int{{0, 1, 2}}); err == nil {
		t.Error("expected error for empty vertices")
	}
	if _, err := NewLandscape(verts, nil); err == nil {
		t.Error("expected error for empty triangles")
	}
}

func TestPlaneCacheConcurrency(t *testing.T) {
	ls := flatField()
	done := make(chan bool)
	// 多个goroutine同时首次触发平面缓存填充
	for i := 0; i < 8; i++ {
		go func(i int) {
			for j := 0; j < 100; j++ {
				x := -40 + float64(i*10+j%10)
				y := -45 + float64(j%80)
				ls.HeightAndNormal(x, y)
			}
			done <- true
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	z, _, err := ls.HeightAndNormal(0.5, 0.25)
	if err != nil || math.Abs(z) > 1e-12 {
		t.Errorf("after concurrent queries: z=%v err=%v", z, err)
	}
}
