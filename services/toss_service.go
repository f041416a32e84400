// services/toss_service.go
package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/GrainArc/TossMap/Toss"
	"github.com/GrainArc/TossMap/methods"
	"github.com/GrainArc/TossMap/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TossService 地形与抛掷的业务层
// 已构建的Toss.Landscape按BSM缓存，同一个地形只构建一次
type TossService struct {
	mu    sync.RWMutex
	cache map[string]*Toss.Landscape
}

func NewTossService() *TossService {
	return &TossService{
		cache: make(map[string]*Toss.Landscape),
	}
}

// AddLandscape 入库一个地形定义文档
// 文档先试构建做全量校验，再按MD5去重
func (s *TossService) AddLandscape(name string, doc []byte) (*models.Landscape, error) {
	if _, err := Toss.LandscapeFromJSON(doc); err != nil {
		return nil, fmt.Errorf("invalid landscape document: %v", err)
	}

	md5 := methods.Md5Str(string(doc))
	DB := models.DB

	var existing models.Landscape
	if err := DB.Where("md5 = ?", md5).First(&existing).Error; err == nil {
		// 相同文档已存在，直接复用
		return &existing, nil
	}

	record := models.Landscape{
		BSM:  uuid.New().String(),
		Name: name,
		MD5:  md5,
		Data: datatypes.JSON(doc),
		Date: time.Now().Format("2006-01-02 15:04:05"),
	}
	if err := DB.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// GetLandscape 取已构建的地形，没有则从数据库加载并构建
func (s *TossService) GetLandscape(bsm string) (*Toss.Landscape, error) {
	s.mu.RLock()
	ls, ok := s.cache[bsm]
	s.mu.RUnlock()
	if ok {
		return ls, nil
	}

	record, err := s.GetLandscapeRecord(bsm)
	if err != nil {
		return nil, err
	}
	ls, err = Toss.LandscapeFromJSON(record.Data)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.cache[bsm]; ok {
		return cached, nil
	}
	s.cache[bsm] = ls
	return ls, nil
}

func (s *TossService) GetLandscapeRecord(bsm string) (*models.Landscape, error) {
	var record models.Landscape
	if err := models.DB.Where("bsm = ?", bsm).First(&record).Error; err != nil {
		return nil, fmt.Errorf("landscape %s not found: %v", bsm, err)
	}
	return &record, nil
}

// ListLandscapes 列出所有地形，不带原始文档
func (s *TossService) ListLandscapes() ([]models.Landscape, error) {
	var records []models.Landscape
	err := models.DB.Select("bsm, name, md5, date").Find(&records).Error
	return records, err
}

// DelLandscape 删除地形及其抛掷记录
func (s *TossService) DelLandscape(bsm string) error {
	DB := models.DB
	if err := DB.Where("bsm = ?", bsm).Delete(&models.Landscape{}).Error; err != nil {
		return err
	}
	DB.Where("landscape_bsm = ?", bsm).Delete(&models.ThrowRecord{})

	s.mu.Lock()
	delete(s.cache, bsm)
	s.mu.Unlock()
	return nil
}

// MakeTosser 在地形上放置抛掷器，z为nil时落在表面上
func (s *TossService) MakeTosser(bsm string, x, y float64, z *float64) (*Toss.Tosser, error) {
	ls, err := s.GetLandscape(bsm)
	if err != nil {
		return nil, err
	}
	if z == nil {
		return Toss.NewTosser(ls, x, y)
	}
	return Toss.NewTosserAtHeight(ls, x, y, *z)
}

// RunThrow 执行一次抛掷并入库
func (s *TossService) RunThrow(bsm string, x, y float64, z *float64, azim, elev, speed float64, numBounce int) (*models.ThrowRecord, error) {
	tosser, err := s.MakeTosser(bsm, x, y, z)
	if err != nil {
		return nil, err
	}
	end, err := tosser.Throw(azim, elev, speed, numBounce)
	if err != nil {
		return nil, err
	}

	record := models.ThrowRecord{
		BSM:          uuid.New().String(),
		LandscapeBSM: bsm,
		X:            tosser.X,
		Y:            tosser.Y,
		Z:            tosser.Z,
		Azim:         azim,
		Elev:         elev,
		Speed:        speed,
		NumBounce:    numBounce,
		EndX:         end.X,
		EndY:         end.Y,
		EndZ:         end.Z,
		Date:         time.Now().Format("2006-01-02 15:04:05"),
	}
	if err := models.DB.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// ThrowRecords 查询某地形的全部抛掷记录
func (s *TossService) ThrowRecords(bsm string) ([]models.ThrowRecord, error) {
	var records []models.ThrowRecord
	err := models.DB.Where("landscape_bsm = ?", bsm).Order("date desc").Find(&records).Error
	return records, err
}
