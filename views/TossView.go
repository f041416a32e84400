package views

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/GrainArc/TossMap/Toss"
	"github.com/GrainArc/TossMap/methods"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AddLandscape 上传地形定义文档
func (tc *TossController) AddLandscape(c *gin.Context) {
	var jsonData LandscapeUpload
	if err := c.ShouldBindJSON(&jsonData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if jsonData.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	record, err := tc.service.AddLandscape(jsonData.Name, jsonData.Data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"BSM": record.BSM, "Name": record.Name, "Date": record.Date})
}

// AddLandscapeZip 上传zip压缩包里的地形定义
// 包内应含一个json文档，解压后取第一个json文件入库
func (tc *TossController) AddLandscapeZip(c *gin.Context) {
	name := c.PostForm("name")
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tmpDir := filepath.Join("OutFile", uuid.New().String())
	os.MkdirAll(tmpDir, os.ModePerm)
	defer os.RemoveAll(tmpDir)

	zipPath := filepath.Join(tmpDir, file.Filename)
	if err := c.SaveUploadedFile(file, zipPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := methods.Unzip(zipPath); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	unpath := zipPath[0 : len(zipPath)-len(filepath.Ext(zipPath))]
	jsonFile := methods.FindJSONFile(unpath, ".json")
	if jsonFile == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no json document in archive"})
		return
	}
	doc, err := os.ReadFile(*jsonFile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if name == "" {
		name = filepath.Base(*jsonFile)
	}

	record, err := tc.service.AddLandscape(name, doc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"BSM": record.BSM, "Name": record.Name, "Date": record.Date})
}

// GetLandscapeList 地形列表
func (tc *TossController) GetLandscapeList(c *gin.Context) {
	records, err := tc.service.ListLandscapes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetLandscapeGeo 地形的GeoJSON表示
func (tc *TossController) GetLandscapeGeo(c *gin.Context) {
	bsm := c.Query("bsm")
	ls, err := tc.service.GetLandscape(bsm)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, Toss.LandscapeToGeoJSON(ls))
}

// DelLandscape 删除地形
func (tc *TossController) DelLandscape(c *gin.Context) {
	bsm := c.Query("bsm")
	if err := tc.service.DelLandscape(bsm); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// GetHeight 查询地形某点的高程和法向量
func (tc *TossController) GetHeight(c *gin.Context) {
	var jsonData HeightQuery
	if err := c.ShouldBindJSON(&jsonData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ls, err := tc.service.GetLandscape(jsonData.LandscapeBSM)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	z, normal, err := ls.HeightAndNormal(jsonData.X, jsonData.Y)
	if err != nil {
		if errors.Is(err, Toss.ErrOutsideMesh) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"z":      z,
		"normal": []float64{normal.X, normal.Y, normal.Z},
	})
}

// Throw 执行一次抛掷
func (tc *TossController) Throw(c *gin.Context) {
	var jsonData ThrowRequest
	if err := c.ShouldBindJSON(&jsonData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := tc.service.RunThrow(
		jsonData.LandscapeBSM,
		jsonData.X, jsonData.Y, jsonData.Z,
		jsonData.Azim, jsonData.Elev, jsonData.Speed,
		jsonData.NumBounce,
	)
	if err != nil {
		switch {
		case errors.Is(err, Toss.ErrOutsideLandscape), errors.Is(err, Toss.ErrBelowLandscape):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, Toss.ErrOutsideMesh), errors.Is(err, Toss.ErrNoIntersection):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, record)
}

// GetThrowRecords 某地形的抛掷历史
func (tc *TossController) GetThrowRecords(c *gin.Context) {
	bsm := c.Query("bsm")
	records, err := tc.service.ThrowRecords(bsm)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}

// DownloadLandscape 打包下载地形文档、GeoJSON和抛掷记录
func (tc *TossController) DownloadLandscape(c *gin.Context) {
	bsm := c.Query("bsm")
	record, err := tc.service.GetLandscapeRecord(bsm)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	ls, err := tc.service.GetLandscape(bsm)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	outID := uuid.New().String()
	outDir := filepath.Join("OutFile", outID)
	os.MkdirAll(outDir, os.ModePerm)

	os.WriteFile(filepath.Join(outDir, "landscape.json"), record.Data, os.ModePerm)

	geo, _ := json.Marshal(Toss.LandscapeToGeoJSON(ls))
	os.WriteFile(filepath.Join(outDir, "landscape.geojson"), geo, os.ModePerm)

	throws, err := tc.service.ThrowRecords(bsm)
	if err == nil {
		throwData, _ := json.Marshal(throws)
		os.WriteFile(filepath.Join(outDir, "throws.json"), throwData, os.ModePerm)
	}

	if err := methods.ZipFolder(outDir, record.Name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": "/toss/OutFile/" + outID + "/" + record.Name + ".zip"})
}
