package Toss

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LandscapeDoc 地形定义文件的结构
// 格式:
// ```
// {
//     "verts":[[x,y,z],
//              [x,y,z],
//              ...],
//     "tri":[[v1, v2, v3],
//            [v1, v2, v3]
//            ...]
// }
// ```
// verts为浮点坐标，tri为顶点索引
// 注意只支持2.5维高程面，不支持真三维实体
type LandscapeDoc struct {
	Verts [][3]float64 `json:"verts"`
	Tri   [][3]int     `json:"tri"`
}

// LandscapeFromJSON 从JSON文档构造地形
func LandscapeFromJSON(data []byte) (*Landscape, error) {
	var doc LandscapeDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse landscape JSON: %v", err)
	}
	return NewLandscape(doc.Verts, doc.Tri)
}

// LandscapeFromFile 从JSON文件加载地形
func LandscapeFromFile(fname string) (*Landscape, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, fmt.Errorf("failed to read landscape file: %v", err)
	}
	return LandscapeFromJSON(data)
}

// LandscapeToGeoJSON 把地形导出为FeatureCollection
// 每个三角形一个Polygon要素，XY投影作为几何，
// 三个顶点的高程放在属性里，供前端着色
func LandscapeToGeoJSON(ls *Landscape) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for triIdx, tri := range ls.Tri2Vert {
		t1 := ls.Verts[tri[0]]
		t2 := ls.Verts[tri[1]]
		t3 := ls.Verts[tri[2]]
		ring := orb.Ring{
			{t1[0], t1[1]},
			{t2[0], t2[1]},
			{t3[0], t3[1]},
			{t1[0], t1[1]},
		}
		feature := geojson.NewFeature(orb.Polygon{ring})
		feature.Properties["tri"] = triIdx
		feature.Properties["z"] = []float64{t1[2], t2[2], t3[2]}
		fc.Features = append(fc.Features, feature)
	}
	return fc
}

// PathToGeoJSON 把一段采样轨迹导出为LineString要素
// 高程数组放在属性z中，与XY点一一对应
func PathToGeoJSON(path []Vec3) *geojson.Feature {
	line := make(orb.LineString, len(path))
	zs := make([]float64, len(path))
	for i, p := range path {
		line[i] = orb.Point{p.X, p.Y}
		zs[i] = p.Z
	}
	feature := geojson.NewFeature(line)
	feature.Properties["z"] = zs
	return feature
}
