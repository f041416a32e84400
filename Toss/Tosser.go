package Toss

import (
	"fmt"
	"math"
)

// Tosser 抛掷器，固定在地形上的某个起点
type Tosser struct {
	landscape *Landscape
	X, Y, Z   float64
}

// NewTosser 把抛掷器放在(x,y)的地形表面上
// (x,y)不在地形覆盖范围内时返回ErrOutsideLandscape
func NewTosser(ls *Landscape, x, y float64) (*Tosser, error) {
	z, _, err := ls.HeightAndNormal(x, y)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutsideLandscape, err)
	}
	return &Tosser{landscape: ls, X: x, Y: y, Z: z}, nil
}

// NewTosserAtHeight 把抛掷器放在指定高度
// z必须不低于该点的地形高度，否则返回ErrBelowLandscape
func NewTosserAtHeight(ls *Landscape, x, y, z float64) (*Tosser, error) {
	zLand, _, err := ls.HeightAndNormal(x, y)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutsideLandscape, err)
	}
	if z < zLand {
		return nil, fmt.Errorf("%w: z=%g, landscape=%g", ErrBelowLandscape, z, zLand)
	}
	return &Tosser{landscape: ls, X: x, Y: y, Z: z}, nil
}

func (t *Tosser) Landscape() *Landscape {
	return t.landscape
}

// Throw 抛球并返回落点
//
// azim为方位角(度)，从+y轴顺时针，0 < azim < 360；
// elev为仰角(度)，相对x-y平面，0 < elev < 90；
// speed为初速度 m/s；numBounce为触地次数，
// 第numBounce次触地的位置即为结果，最后一次触地不再反弹
func (t *Tosser) Throw(azim, elev, speed float64, numBounce int) (Vec3, error) {
	if err := ValidateThrow(azim, elev, speed, numBounce); err != nil {
		return Vec3{}, err
	}

	pos := Vec3{t.X, t.Y, t.Z}
	vel := LaunchVelocity(azim, elev, speed)

	var err error
	for i := 0; i < numBounce; i++ {
		var landVel Vec3
		pos, landVel, err = Bounce(t.landscape, pos, vel)
		if err != nil {
			return Vec3{}, err
		}
		if i == numBounce-1 {
			break
		}
		vel, err = Reflect(t.landscape, pos, landVel)
		if err != nil {
			return Vec3{}, err
		}
	}
	return pos, nil
}

// ValidateThrow 校验抛掷参数的取值范围
func ValidateThrow(azim, elev, speed float64, numBounce int) error {
	if azim <= 0 || azim >= 360 {
		return fmt.Errorf("azimuth must be in (0, 360), got %g", azim)
	}
	if elev <= 0 || elev >= 90 {
		return fmt.Errorf("elevation must be in (0, 90), got %g", elev)
	}
	if speed <= 0 {
		return fmt.Errorf("speed must be positive, got %g", speed)
	}
	if numBounce < 0 {
		return fmt.Errorf("bounce count must be non-negative, got %d", numBounce)
	}
	return nil
}

// LaunchVelocity 由方位角、仰角(度)和速度大小构造速度向量
// 方位角从+y轴顺时针转向+x轴
func LaunchVelocity(azim, elev, speed float64) Vec3 {
	azimRad := azim * math.Pi / 180
	elevRad := elev * math.Pi / 180
	unit := Vec3{
		X: math.Cos(elevRad) * math.Sin(azimRad),
		Y: math.Cos(elevRad) * math.Cos(azimRad),
		Z: math.Sin(elevRad),
	}
	return unit.Scale(speed)
}

// Reflect 弹性反射：速度的法向分量取反，切向分量保留
// 反射前后速度大小不变
func Reflect(ls *Landscape, pos, vel Vec3) (Vec3, error) {
	_, normal, err := ls.HeightAndNormal(pos.X, pos.Y)
	if err != nil {
		return Vec3{}, err
	}
	velNorm := normal.Scale(vel.Dot(normal))
	velTan := vel.Sub(velNorm)
	return velTan.Sub(velNorm), nil
}
